package service

import (
	"context"
	"mattressfit/internal/fault"
	"mattressfit/internal/model"
	"time"
)

// StatsService summarizes the stores for the admin dashboard
type StatsService struct {
	content *ContentService
	catalog *CatalogService
	leads   *LeadService
}

// NewStatsService creates a new stats service
func NewStatsService(content *ContentService, catalog *CatalogService, leads *LeadService) *StatsService {
	return &StatsService{content: content, catalog: catalog, leads: leads}
}

// Get counts content keys, questions and leads
func (s *StatsService) Get(ctx context.Context) (*model.Stats, error) {
	contentItems, err := s.content.Count(ctx)
	if err != nil {
		return nil, fault.NewInternalError("failed to count content", err)
	}
	questions, err := s.catalog.Count(ctx)
	if err != nil {
		return nil, fault.NewInternalError("failed to count questions", err)
	}
	leads, err := s.leads.Count(ctx)
	if err != nil {
		return nil, fault.NewInternalError("failed to count leads", err)
	}
	return &model.Stats{
		ContentItems:    contentItems,
		SurveyQuestions: questions,
		SurveyResponses: leads,
		LastUpdated:     time.Now(),
	}, nil
}
