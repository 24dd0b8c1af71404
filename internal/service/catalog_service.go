package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mattressfit/internal/catalog"
	"mattressfit/internal/fault"
	"mattressfit/internal/model"
	"mattressfit/internal/repository"
	"mattressfit/internal/survey"
)

// CatalogService owns the stored question catalog
type CatalogService struct {
	repo        repository.QuestionRepo
	normalizer  *catalog.Normalizer
	broadcaster Broadcaster
	logger      *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo repository.QuestionRepo, normalizer *catalog.Normalizer, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:        repo,
		normalizer:  normalizer,
		broadcaster: noopBroadcaster{},
		logger:      logger.With("component", "catalog"),
	}
}

// SetBroadcaster sets the WebSocket broadcaster
func (s *CatalogService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Normalizer returns the load-boundary normalizer sessions build catalogs with
func (s *CatalogService) Normalizer() *catalog.Normalizer {
	return s.normalizer
}

// Records returns the stored catalog. An empty store is seeded with the defaults;
// a failing store yields the defaults without persisting them.
func (s *CatalogService) Records(ctx context.Context) ([]model.QuestionRecord, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Warn("question store unavailable, serving defaults", "error", err)
		return s.defaultRecords()
	}
	if len(records) > 0 {
		return records, nil
	}

	defaults, err := s.defaultRecords()
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceAll(ctx, defaults); err != nil {
		s.logger.Warn("seeding default catalog failed", "error", err)
	} else {
		s.logger.Info("seeded default catalog", "questions", len(defaults))
	}
	return defaults, nil
}

func (s *CatalogService) defaultRecords() ([]model.QuestionRecord, error) {
	return s.normalizer.Normalize(catalog.DefaultQuestions())
}

// Questions returns the catalog in the editor shape
func (s *CatalogService) Questions(ctx context.Context) ([]model.QuestionInput, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, fault.NewInternalError("failed to load questions", err)
	}
	return s.normalizer.Inputs(records), nil
}

// Catalog loads the engine catalog, degrading to an empty one on failure
func (s *CatalogService) Catalog(ctx context.Context) survey.Catalog {
	records, err := s.Records(ctx)
	if err != nil {
		s.logger.Error("catalog unavailable", "error", err)
		return survey.Catalog{}
	}
	return s.normalizer.Catalog(records)
}

// Defaults returns the built-in catalog in the editor shape
func (s *CatalogService) Defaults() []model.QuestionInput {
	return catalog.DefaultQuestions()
}

// Replace normalizes inputs and swaps the stored catalog. Open sessions keep
// the catalog they started with.
func (s *CatalogService) Replace(ctx context.Context, inputs []model.QuestionInput) ([]model.QuestionInput, error) {
	records, err := s.normalizer.Normalize(inputs)
	if errors.Is(err, catalog.ErrNoValidQuestions) {
		return nil, fault.NewClientError("Немає валідних питань для збереження", err)
	}
	if err != nil {
		return nil, fault.NewInternalError("failed to normalize questions", err)
	}
	if err := s.repo.ReplaceAll(ctx, records); err != nil {
		return nil, fault.NewInternalError("failed to save questions", err)
	}

	s.logger.Info("catalog replaced", "questions", len(records), "dropped", len(inputs)-len(records))
	s.broadcaster.BroadcastToAdmins(EventCatalogReplaced, map[string]interface{}{
		"count": len(records),
	})
	return s.normalizer.Inputs(records), nil
}

// Move shifts one question up or down and stores the new order
func (s *CatalogService) Move(ctx context.Context, id string, dir catalog.Direction) ([]model.QuestionInput, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, fault.NewInternalError("failed to load questions", err)
	}
	editor := catalog.NewEditor(s.normalizer.Inputs(records))
	switch err := editor.Move(id, dir); {
	case errors.Is(err, catalog.ErrQuestionNotFound):
		return nil, fault.NewNotFoundError(fmt.Sprintf("question %q not found", id), err)
	case err != nil:
		return nil, fault.NewClientError(err.Error(), err)
	}
	return s.Replace(ctx, editor.Inputs())
}

// Count returns the number of stored questions
func (s *CatalogService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
