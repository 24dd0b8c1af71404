package service

import (
	"context"
	"errors"
	"log/slog"
	"mattressfit/internal/fault"
	"mattressfit/internal/metrics"
	"mattressfit/internal/model"
	"mattressfit/internal/repository"
	"mattressfit/internal/survey"
	"time"

	"github.com/google/uuid"
)

// Submission channels, used as the metrics label
const (
	ChannelSession = "session"
	ChannelDirect  = "direct"
)

// LeadService persists finished surveys and hands them to the notifier
type LeadService struct {
	repo        repository.LeadRepo
	notifier    Notifier
	catalog     *CatalogService
	metrics     *metrics.Collector
	broadcaster Broadcaster
	logger      *slog.Logger
}

// NewLeadService creates a new lead service
func NewLeadService(repo repository.LeadRepo, notifier Notifier, catalog *CatalogService, m *metrics.Collector, logger *slog.Logger) *LeadService {
	return &LeadService{
		repo:        repo,
		notifier:    notifier,
		catalog:     catalog,
		metrics:     m,
		broadcaster: noopBroadcaster{},
		logger:      logger.With("component", "leads"),
	}
}

// SetBroadcaster sets the WebSocket broadcaster
func (s *LeadService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Deliver stores the lead and notifies the consultants. A storage failure is
// returned as an error; a notification failure is a rejected result.
func (s *LeadService) Deliver(ctx context.Context, lead survey.Lead, meta model.LeadMeta, channel string) (survey.SubmitResult, error) {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.SubmittedAt.IsZero() {
		lead.SubmittedAt = time.Now()
	}

	record := model.NewLeadRecord(lead, meta)
	if err := s.repo.Create(ctx, record); err != nil {
		s.metrics.LeadSubmitted(channel, false)
		s.logger.Error("lead not stored", "lead_id", lead.ID, "error", err)
		return survey.SubmitResult{}, err
	}

	start := time.Now()
	err := s.notifier.NotifyLead(ctx, lead)
	s.metrics.ObserveNotify(time.Since(start))
	if err != nil {
		s.metrics.LeadSubmitted(channel, false)
		s.logger.Warn("lead stored but notification failed", "lead_id", lead.ID, "error", err)
		return survey.SubmitResult{OK: false, Reason: err.Error()}, nil
	}

	s.metrics.LeadSubmitted(channel, true)
	s.logger.Info("lead submitted", "lead_id", lead.ID, "channel", channel, "answers", len(lead.ResolvedAnswers))
	s.broadcaster.BroadcastToAdmins(EventLeadSubmitted, map[string]interface{}{
		"id":        lead.ID,
		"city":      lead.Contact.City,
		"answers":   len(lead.ResolvedAnswers),
		"createdAt": record.CreatedAt,
	})
	return survey.SubmitResult{OK: true}, nil
}

// Submitter binds request metadata to the service so a session can submit through it
func (s *LeadService) Submitter(meta model.LeadMeta, channel string) survey.LeadSubmitter {
	return &leadSubmitter{svc: s, meta: meta, channel: channel}
}

type leadSubmitter struct {
	svc     *LeadService
	meta    model.LeadMeta
	channel string
}

func (l *leadSubmitter) SubmitLead(ctx context.Context, lead survey.Lead) (survey.SubmitResult, error) {
	return l.svc.Deliver(ctx, lead, l.meta, l.channel)
}

// SubmitDirect accepts a survey finished on the client. The resolved answers are
// recomputed against the current catalog.
func (s *LeadService) SubmitDirect(ctx context.Context, req model.DirectSubmitRequest, meta model.LeadMeta) (*survey.Lead, error) {
	contact := req.UserData.Normalized()
	if err := survey.ValidateContact(contact); err != nil {
		var ce *survey.ContactError
		if errors.As(err, &ce) {
			return nil, fault.NewFieldError(ce.Field, ce.Message, err)
		}
		return nil, fault.NewClientError(err.Error(), err)
	}

	answers := survey.Answers(req.Answers)
	if answers == nil {
		answers = survey.Answers{}
	}
	c := s.catalog.Catalog(ctx)
	lead := survey.Lead{
		ID:              uuid.New().String(),
		Contact:         contact,
		RawAnswers:      answers,
		OtherAnswers:    req.OtherAnswers,
		ResolvedAnswers: survey.Project(c, answers, req.OtherAnswers),
		SubmittedAt:     time.Now(),
	}

	res, err := s.Deliver(ctx, lead, meta, ChannelDirect)
	if err != nil {
		return nil, fault.NewUpstreamError("Не вдалося зберегти заявку", "storage error", err)
	}
	if !res.OK {
		return nil, fault.NewUpstreamError("Не вдалося надіслати заявку", res.Reason, nil)
	}
	return &lead, nil
}

// List returns one page of stored leads, newest first
func (s *LeadService) List(ctx context.Context, page, limit int) (*model.PaginatedResponse[*model.LeadRecord], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	leads, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, fault.NewInternalError("failed to list leads", err)
	}
	return model.NewPage(leads, page, limit, total), nil
}

// Count returns the number of stored leads
func (s *LeadService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
