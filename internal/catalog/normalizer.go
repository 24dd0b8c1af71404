// Package catalog converts between the stored and editor question shapes and the
// survey engine's Catalog. It is the only place where the two historical
// vocabularies meet.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"mattressfit/internal/model"
	"mattressfit/internal/survey"
)

var ErrNoValidQuestions = errors.New("no valid questions to save")

const (
	DefaultOtherLabel       = "інше (впишіть)"
	DefaultOtherPlaceholder = "Впишіть свій варіант"
)

// Stored type vocabulary -> engine type. Anything missing is free text.
var answerTypes = map[string]survey.AnswerType{
	"radio":    survey.SingleChoiceInline,
	"single":   survey.SingleChoiceInline,
	"select":   survey.SingleChoiceDropdown,
	"text":     survey.FreeText,
	"multiple": survey.FreeText,
	"number":   survey.Numeric,
}

// Engine type -> editor vocabulary.
var editorTypes = map[survey.AnswerType]string{
	survey.SingleChoiceInline:   "radio",
	survey.SingleChoiceDropdown: "select",
	survey.FreeText:             "text",
	survey.Numeric:              "number",
}

// AnswerTypeOf maps a stored or editor type name onto the engine vocabulary.
func AnswerTypeOf(name string) survey.AnswerType {
	if t, ok := answerTypes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return survey.FreeText
}

// EditorType returns the canonical editor spelling of a stored type name.
func EditorType(name string) string {
	return editorTypes[AnswerTypeOf(name)]
}

// Normalizer owns the per-driver comparison modes and the derived option tables.
type Normalizer struct {
	normalization map[string]survey.Normalization // by driver question id
	derived       map[string]survey.BucketTable   // by dependent question id
	logger        *slog.Logger
}

// NewNormalizer returns a normalizer with the default tables: size answers compare
// without spaces, and budget options follow the size bucket.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		normalization: map[string]survey.Normalization{
			survey.BudgetTiers.DriverID: survey.NormalizeStripSpaces,
		},
		derived: map[string]survey.BucketTable{
			"budget": survey.BudgetTiers,
		},
		logger: logger.With("component", "catalog"),
	}
}

// SetNormalization overrides how answers of driverID are compared.
func (n *Normalizer) SetNormalization(driverID string, mode survey.Normalization) {
	n.normalization[driverID] = mode
}

// SetDerivedOptions makes questionID's options follow table.
func (n *Normalizer) SetDerivedOptions(questionID string, table survey.BucketTable) {
	n.derived[questionID] = table
}

// Configure applies comparison modes by driver id and option tables by question id.
func (n *Normalizer) Configure(normalization, derived map[string]string) error {
	for driver, mode := range normalization {
		m, err := survey.ParseNormalization(mode)
		if err != nil {
			return fmt.Errorf("normalization for %s: %w", driver, err)
		}
		n.SetNormalization(driver, m)
	}
	for id, name := range derived {
		table, err := survey.LookupBucketTable(name)
		if err != nil {
			return fmt.Errorf("options for %s: %w", id, err)
		}
		n.SetDerivedOptions(id, table)
	}
	return nil
}

// Catalog builds the engine catalog from stored records, ordered by order_index.
// Records without id or text and repeated ids are skipped.
func (n *Normalizer) Catalog(records []model.QuestionRecord) survey.Catalog {
	sorted := make([]model.QuestionRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OrderIndex < sorted[j].OrderIndex })

	seen := make(map[string]struct{}, len(sorted))
	c := make(survey.Catalog, 0, len(sorted))
	for _, r := range sorted {
		id := strings.TrimSpace(r.QuestionID)
		text := strings.TrimSpace(r.QuestionText)
		if id == "" || text == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		q := n.question(id, text, r)
		if q.ShowIf != nil && q.ShowIf.QuestionID != "" {
			if _, earlier := seen[q.ShowIf.QuestionID]; !earlier || q.ShowIf.QuestionID == id {
				n.logger.Warn("visibility depends on a question that is not earlier in the catalog",
					"question_id", id, "driver_id", q.ShowIf.QuestionID)
			}
		}
		c = append(c, q)
	}
	return c
}

func (n *Normalizer) question(id, text string, r model.QuestionRecord) survey.Question {
	q := survey.Question{
		ID:       id,
		Text:     text,
		Type:     AnswerTypeOf(r.QuestionType),
		Required: r.Required,
	}

	if table, ok := n.derived[id]; ok {
		q.Options = table.Options()
	} else if q.Type.IsChoice() {
		q.Options = survey.Fixed(r.Options...)
	} else {
		q.Options = survey.Fixed()
	}

	if r.ShowIf != nil {
		q.ShowIf = n.condition(id, *r.ShowIf)
	}
	if r.OtherInput != nil {
		q.OtherInput = &survey.OtherInput{
			Enabled:     r.OtherInput.Enabled,
			Label:       r.OtherInput.Label,
			Placeholder: r.OtherInput.Placeholder,
			Required:    r.OtherInput.Required,
		}
	}
	return q
}

func (n *Normalizer) condition(id string, logic model.ShowIfLogic) *survey.Condition {
	driver := strings.TrimSpace(logic.QuestionID)
	var cond *survey.Condition
	if driver != "" && strings.TrimSpace(logic.AnswerValue) != "" {
		cond = survey.NewCondition(driver, logic.AnswerValue, n.normalization[driver])
	}
	if strings.TrimSpace(logic.Expression) != "" {
		if cond == nil {
			cond = &survey.Condition{}
		}
		if err := cond.WithExpression(logic.Expression); err != nil {
			n.logger.Warn("dropping visibility expression", "question_id", id, "error", err)
			if cond.QuestionID == "" {
				return nil
			}
		}
	}
	return cond
}

// Normalize turns editor input into storable records: ids and texts trimmed,
// incomplete entries and repeated ids dropped (first one wins), options kept only
// for choice types, defaults filled in.
func (n *Normalizer) Normalize(inputs []model.QuestionInput) ([]model.QuestionRecord, error) {
	now := time.Now()
	seen := make(map[string]struct{}, len(inputs))
	records := make([]model.QuestionRecord, 0, len(inputs))

	for _, in := range inputs {
		id := strings.TrimSpace(in.ID)
		text := strings.TrimSpace(in.Question)
		if id == "" || text == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		typ := EditorType(in.Type)
		var options []string
		if typ == "radio" || typ == "select" {
			options = cleanOptions(in.Options)
		}

		records = append(records, model.QuestionRecord{
			QuestionID:   id,
			QuestionText: text,
			QuestionType: typ,
			Options:      options,
			Required:     boolOr(in.Required, true),
			ShowIf:       showIfOf(in),
			OtherInput:   otherInputOf(in.OtherInput),
			OrderIndex:   len(records) + 1,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if len(records) == 0 {
		return nil, ErrNoValidQuestions
	}
	return records, nil
}

// Inputs renders stored records in the editor shape, ordered by order_index.
func (n *Normalizer) Inputs(records []model.QuestionRecord) []model.QuestionInput {
	sorted := make([]model.QuestionRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OrderIndex < sorted[j].OrderIndex })

	out := make([]model.QuestionInput, 0, len(sorted))
	for _, r := range sorted {
		required := r.Required
		in := model.QuestionInput{
			ID:       r.QuestionID,
			Question: r.QuestionText,
			Type:     EditorType(r.QuestionType),
			Options:  r.Options,
			Required: &required,
		}
		if in.Options == nil {
			in.Options = []string{}
		}
		if r.ShowIf != nil {
			in.ShowIfQuestionID = r.ShowIf.QuestionID
			in.ShowIfValue = r.ShowIf.AnswerValue
			in.ShowIf = &model.ShowIfInput{
				QuestionID: r.ShowIf.QuestionID,
				Value:      r.ShowIf.AnswerValue,
				Expression: r.ShowIf.Expression,
			}
		}
		if r.OtherInput != nil {
			req := r.OtherInput.Required
			in.OtherInput = &model.OtherInputSpec{
				Enabled:     r.OtherInput.Enabled,
				Label:       r.OtherInput.Label,
				Placeholder: r.OtherInput.Placeholder,
				Required:    &req,
			}
		}
		out = append(out, in)
	}
	return out
}

// CatalogFromInputs normalizes editor input straight into an engine catalog.
// Invalid input yields an empty catalog.
func (n *Normalizer) CatalogFromInputs(inputs []model.QuestionInput) survey.Catalog {
	records, err := n.Normalize(inputs)
	if err != nil {
		return survey.Catalog{}
	}
	return n.Catalog(records)
}

func cleanOptions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func showIfOf(in model.QuestionInput) *model.ShowIfLogic {
	if s := in.ShowIf; s != nil && strings.TrimSpace(s.QuestionID) != "" {
		return &model.ShowIfLogic{
			QuestionID:  strings.TrimSpace(s.QuestionID),
			AnswerValue: strings.TrimSpace(s.Value),
			Expression:  strings.TrimSpace(s.Expression),
		}
	}
	if s := in.ShowIf; s != nil && strings.TrimSpace(s.Expression) != "" {
		return &model.ShowIfLogic{Expression: strings.TrimSpace(s.Expression)}
	}
	if strings.TrimSpace(in.ShowIfQuestionID) != "" && strings.TrimSpace(in.ShowIfValue) != "" {
		return &model.ShowIfLogic{
			QuestionID:  strings.TrimSpace(in.ShowIfQuestionID),
			AnswerValue: strings.TrimSpace(in.ShowIfValue),
		}
	}
	return nil
}

func otherInputOf(spec *model.OtherInputSpec) *model.OtherInputConfig {
	if spec == nil {
		return nil
	}
	cfg := &model.OtherInputConfig{
		Enabled:     spec.Enabled,
		Label:       strings.TrimSpace(spec.Label),
		Placeholder: strings.TrimSpace(spec.Placeholder),
		Required:    boolOr(spec.Required, true),
	}
	if cfg.Label == "" {
		cfg.Label = DefaultOtherLabel
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = DefaultOtherPlaceholder
	}
	return cfg
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
