package service

import (
	"context"
	"errors"
	"log/slog"
	"mattressfit/internal/cache"
	"mattressfit/internal/fault"
	"mattressfit/internal/metrics"
	"mattressfit/internal/model"
	"mattressfit/internal/survey"
	"time"

	"github.com/google/uuid"
)

// ErrSessionBusy is returned when another request is already changing the session
var ErrSessionBusy = errors.New("session is being updated")

// Session lock holders
const (
	lockSubmit = "submit"
	lockEdit   = "edit"
)

// QuestionView is the question currently shown in a session
type QuestionView struct {
	ID         string             `json:"id"`
	Text       string             `json:"question"`
	Type       survey.AnswerType  `json:"type"`
	Required   bool               `json:"required"`
	Options    []string           `json:"options"`
	Value      string             `json:"value"`
	IsOther    bool               `json:"isOther"`
	OtherText  string             `json:"otherText,omitempty"`
	OtherInput *survey.OtherInput `json:"otherInput,omitempty"`
}

// SessionView is what the survey dialog renders
type SessionView struct {
	ID         string         `json:"id"`
	Phase      survey.Phase   `json:"phase"`
	Question   *QuestionView  `json:"question,omitempty"`
	Position   int            `json:"position"`
	Total      int            `json:"total"`
	Progress   float64        `json:"progress"`
	CanAdvance bool           `json:"canAdvance"`
	CanRetreat bool           `json:"canRetreat"`
	Contact    survey.Contact `json:"contact"`
}

func newSessionView(id string, sess *survey.Session) *SessionView {
	pos, total := sess.Position()
	v := &SessionView{
		ID:         id,
		Phase:      sess.Phase(),
		Position:   pos,
		Total:      total,
		Progress:   sess.Progress(),
		CanAdvance: sess.CanAdvance(),
		CanRetreat: sess.CanRetreat(),
		Contact:    sess.Contact(),
	}
	if q, ok := sess.Current(); ok {
		value := sess.Answers()[q.ID]
		options := sess.CurrentOptions()
		if options == nil {
			options = []string{}
		}
		v.Question = &QuestionView{
			ID:         q.ID,
			Text:       q.Text,
			Type:       q.Type,
			Required:   q.Required,
			Options:    options,
			Value:      value,
			IsOther:    value == survey.OtherValue,
			OtherText:  sess.OtherText(q.ID),
			OtherInput: q.OtherInput,
		}
	}
	return v
}

// SurveyService drives open survey dialogs. Each session is kept in Redis together
// with the catalog it was opened with.
type SurveyService struct {
	sessions cache.SessionCache
	catalog  *CatalogService
	leads    *LeadService
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewSurveyService creates a new survey session service
func NewSurveyService(sessions cache.SessionCache, catalog *CatalogService, leads *LeadService, m *metrics.Collector, logger *slog.Logger) *SurveyService {
	return &SurveyService{
		sessions: sessions,
		catalog:  catalog,
		leads:    leads,
		metrics:  m,
		logger:   logger.With("component", "survey"),
	}
}

// Open starts a session over the current catalog
func (s *SurveyService) Open(ctx context.Context, userAgent, referer string) (*SessionView, error) {
	records, err := s.catalog.Records(ctx)
	if err != nil {
		s.logger.Error("catalog unavailable, opening empty session", "error", err)
		records = nil
	}
	sess := survey.NewSession(s.catalog.Normalizer().Catalog(records))

	now := time.Now()
	snap := &model.SurveySnapshot{
		ID:        uuid.New().String(),
		Catalog:   records,
		State:     sess.State(),
		UserAgent: userAgent,
		Referer:   referer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Set(ctx, snap); err != nil {
		return nil, fault.NewInternalError("failed to store session", err)
	}

	s.metrics.SessionOpened()
	s.metrics.PhaseEntered(string(survey.PhaseSurvey))
	s.logger.Debug("session opened", "session_id", snap.ID, "questions", len(records))
	return newSessionView(snap.ID, sess), nil
}

// Get returns the current view of a session
func (s *SurveyService) Get(ctx context.Context, id string) (*SessionView, error) {
	_, sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return newSessionView(id, sess), nil
}

// Answer records value for the current question
func (s *SurveyService) Answer(ctx context.Context, id, questionID, value string) (*SessionView, error) {
	return s.mutate(ctx, id, func(sess *survey.Session) error {
		return sess.Answer(questionID, value)
	})
}

// AnswerOther records the custom text for the current question
func (s *SurveyService) AnswerOther(ctx context.Context, id, questionID, text string) (*SessionView, error) {
	return s.mutate(ctx, id, func(sess *survey.Session) error {
		return sess.AnswerOther(questionID, text)
	})
}

// Next advances to the next visible question or the contact step
func (s *SurveyService) Next(ctx context.Context, id string) (*SessionView, error) {
	return s.mutate(ctx, id, func(sess *survey.Session) error {
		return sess.Advance()
	})
}

// Prev goes back one visible question
func (s *SurveyService) Prev(ctx context.Context, id string) (*SessionView, error) {
	return s.mutate(ctx, id, func(sess *survey.Session) error {
		return sess.Retreat()
	})
}

// SetContact stores the contact fields typed so far
func (s *SurveyService) SetContact(ctx context.Context, id string, c survey.Contact) (*SessionView, error) {
	return s.mutate(ctx, id, func(sess *survey.Session) error {
		return sess.SetContact(c)
	})
}

// Submit delivers the finished survey. While it runs the session rejects every
// other change.
func (s *SurveyService) Submit(ctx context.Context, id string) (*SessionView, error) {
	return s.mutateSnapshot(ctx, id, lockSubmit, func(snap *model.SurveySnapshot, sess *survey.Session) error {
		meta := model.LeadMeta{UserAgent: snap.UserAgent, Referer: snap.Referer, SessionID: snap.ID}
		_, err := sess.Submit(ctx, s.leads.Submitter(meta, ChannelSession))
		return err
	})
}

// Close discards a session. A session cannot be closed while it is submitting.
func (s *SurveyService) Close(ctx context.Context, id string) error {
	unlock, err := s.lock(ctx, id, lockEdit)
	if err != nil {
		return err
	}
	defer unlock()

	snap, err := s.sessions.Get(ctx, id)
	if err != nil {
		return fault.NewInternalError("failed to load session", err)
	}
	if snap == nil {
		return fault.NewNotFoundError("session not found", fault.ErrNotFound)
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fault.NewInternalError("failed to delete session", err)
	}
	return nil
}

func (s *SurveyService) load(ctx context.Context, id string) (*model.SurveySnapshot, *survey.Session, error) {
	snap, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, fault.NewInternalError("failed to load session", err)
	}
	if snap == nil {
		return nil, nil, fault.NewNotFoundError("session not found", fault.ErrNotFound)
	}
	sess := survey.RestoreSession(s.catalog.Normalizer().Catalog(snap.Catalog), snap.State)
	return snap, sess, nil
}

func (s *SurveyService) mutate(ctx context.Context, id string, fn func(*survey.Session) error) (*SessionView, error) {
	return s.mutateSnapshot(ctx, id, lockEdit, func(_ *model.SurveySnapshot, sess *survey.Session) error {
		return fn(sess)
	})
}

// mutateSnapshot applies fn under the session's write lock and stores the
// resulting state. State is stored even when fn fails, since a failed submit
// still leaves a valid contact-phase session.
func (s *SurveyService) mutateSnapshot(ctx context.Context, id, holder string, fn func(*model.SurveySnapshot, *survey.Session) error) (*SessionView, error) {
	unlock, err := s.lock(ctx, id, holder)
	if err != nil {
		return nil, err
	}
	defer unlock()

	snap, sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	before := sess.Phase()
	opErr := fn(snap, sess)

	snap.State = sess.State()
	snap.UpdatedAt = time.Now()
	if err := s.sessions.Set(ctx, snap); err != nil {
		return nil, fault.NewInternalError("failed to store session", err)
	}
	if after := sess.Phase(); after != before {
		s.metrics.PhaseEntered(string(after))
	}
	if opErr != nil {
		return nil, sessionFault(opErr)
	}
	return newSessionView(id, sess), nil
}

// lock takes the session's write lock; a held lock is a conflict.
func (s *SurveyService) lock(ctx context.Context, id, holder string) (func(), error) {
	ok, current, err := s.sessions.AcquireLock(ctx, id, holder)
	if err != nil {
		return nil, fault.NewInternalError("failed to lock session", err)
	}
	if !ok {
		if current == lockSubmit {
			return nil, fault.NewConflictError("Заявка вже надсилається", survey.ErrSubmitInFlight)
		}
		return nil, fault.NewConflictError("Сесія вже оновлюється, спробуйте ще раз", ErrSessionBusy)
	}
	return func() {
		if err := s.sessions.ReleaseLock(context.WithoutCancel(ctx), id); err != nil {
			s.logger.Warn("session lock not released", "session_id", id, "error", err)
		}
	}, nil
}

func sessionFault(err error) error {
	var ce *survey.ContactError
	var se *survey.SubmitError
	switch {
	case errors.As(err, &ce):
		return fault.NewFieldError(ce.Field, ce.Message, err)
	case errors.As(err, &se):
		return fault.NewUpstreamError("Не вдалося надіслати заявку", se.Reason, err)
	case errors.Is(err, survey.ErrWrongPhase), errors.Is(err, survey.ErrSubmitInFlight):
		return fault.NewConflictError(err.Error(), err)
	case errors.Is(err, survey.ErrUnknownOption):
		return fault.NewFieldError("value", err.Error(), err)
	case errors.Is(err, survey.ErrNoQuestion),
		errors.Is(err, survey.ErrNotCurrentQuestion),
		errors.Is(err, survey.ErrNotOtherAnswer),
		errors.Is(err, survey.ErrAnswerRequired):
		return fault.NewClientError(err.Error(), err)
	}
	return fault.NewInternalError("survey operation failed", err)
}
