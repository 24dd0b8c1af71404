package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mattressfit/internal/fault"
	"mattressfit/internal/model"
	"mattressfit/internal/survey"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const leadSchema = `
CREATE TABLE IF NOT EXISTS survey_responses (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	phone            TEXT NOT NULL,
	city             TEXT NOT NULL,
	answers          JSONB NOT NULL DEFAULT '{}',
	other_answers    JSONB NOT NULL DEFAULT '{}',
	resolved_answers JSONB NOT NULL DEFAULT '[]',
	user_agent       TEXT NOT NULL DEFAULT '',
	referer          TEXT NOT NULL DEFAULT '',
	session_id       TEXT NOT NULL DEFAULT '',
	submitted_at     TIMESTAMPTZ NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS survey_responses_created_at_idx ON survey_responses (created_at DESC);
`

// leadRow is the flat Postgres shape of a lead
type leadRow struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Phone           string    `db:"phone"`
	City            string    `db:"city"`
	Answers         string    `db:"answers"` // JSON text; pq would send []byte as bytea
	OtherAnswers    string    `db:"other_answers"`
	ResolvedAnswers string    `db:"resolved_answers"`
	UserAgent       string    `db:"user_agent"`
	Referer         string    `db:"referer"`
	SessionID       string    `db:"session_id"`
	SubmittedAt     time.Time `db:"submitted_at"`
	CreatedAt       time.Time `db:"created_at"`
}

type pgLeadRepo struct {
	db *sqlx.DB
}

// NewPostgresLeadRepo creates a Postgres-backed lead repository
func NewPostgresLeadRepo(db *sqlx.DB) LeadRepo {
	return &pgLeadRepo{db: db}
}

// MigrateLeads creates the lead table when missing
func MigrateLeads(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, leadSchema)
	return err
}

func (r *pgLeadRepo) Create(ctx context.Context, lead *model.LeadRecord) error {
	row, err := toLeadRow(lead)
	if err != nil {
		return err
	}
	query := `INSERT INTO survey_responses
		(id, name, phone, city, answers, other_answers, resolved_answers, user_agent, referer, session_id, submitted_at, created_at)
		VALUES (:id, :name, :phone, :city, :answers, :other_answers, :resolved_answers, :user_agent, :referer, :session_id, :submitted_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // PostgreSQL unique constraint violation code
			return fault.ErrUniqueViolation
		}
		return err
	}
	return nil
}

func (r *pgLeadRepo) List(ctx context.Context, page, limit int) ([]*model.LeadRecord, int, error) {
	page, limit = normalizePage(page, limit)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM survey_responses`); err != nil {
		return nil, 0, err
	}

	var rows []leadRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM survey_responses ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	leads := make([]*model.LeadRecord, 0, len(rows))
	for i := range rows {
		lead, err := rows[i].record()
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	return leads, total, nil
}

func (r *pgLeadRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM survey_responses`)
	return n, err
}

func toLeadRow(lead *model.LeadRecord) (*leadRow, error) {
	answers, err := json.Marshal(nonNilMap(lead.Answers))
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	other, err := json.Marshal(nonNilMap(lead.OtherAnswers))
	if err != nil {
		return nil, fmt.Errorf("encode other answers: %w", err)
	}
	resolved := lead.ResolvedAnswers
	if resolved == nil {
		resolved = []survey.ResolvedAnswer{}
	}
	resolvedJSON, err := json.Marshal(resolved)
	if err != nil {
		return nil, fmt.Errorf("encode resolved answers: %w", err)
	}
	return &leadRow{
		ID:              lead.ID,
		Name:            lead.Name,
		Phone:           lead.Phone,
		City:            lead.City,
		Answers:         string(answers),
		OtherAnswers:    string(other),
		ResolvedAnswers: string(resolvedJSON),
		UserAgent:       lead.Meta.UserAgent,
		Referer:         lead.Meta.Referer,
		SessionID:       lead.Meta.SessionID,
		SubmittedAt:     lead.Meta.SubmittedAt,
		CreatedAt:       lead.CreatedAt,
	}, nil
}

func (row *leadRow) record() (*model.LeadRecord, error) {
	lead := &model.LeadRecord{
		ID:    row.ID,
		Name:  row.Name,
		Phone: row.Phone,
		City:  row.City,
		Meta: model.LeadMeta{
			UserAgent:   row.UserAgent,
			Referer:     row.Referer,
			SessionID:   row.SessionID,
			SubmittedAt: row.SubmittedAt,
		},
		CreatedAt: row.CreatedAt,
	}
	if err := json.Unmarshal([]byte(row.Answers), &lead.Answers); err != nil {
		return nil, fmt.Errorf("decode answers of %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.OtherAnswers), &lead.OtherAnswers); err != nil {
		return nil, fmt.Errorf("decode other answers of %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.ResolvedAnswers), &lead.ResolvedAnswers); err != nil {
		return nil, fmt.Errorf("decode resolved answers of %s: %w", row.ID, err)
	}
	return lead, nil
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
