package service

import (
	"context"
	_ "embed"
	"log/slog"
	"mattressfit/internal/cache"
	"mattressfit/internal/fault"
	"mattressfit/internal/repository"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content_defaults.yaml
var contentDefaultsYAML []byte

// DefaultContent returns a fresh copy of the built-in site content
func DefaultContent() (map[string]any, error) {
	var content map[string]any
	if err := yaml.Unmarshal(contentDefaultsYAML, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// ContentService serves editable site content over the built-in defaults
type ContentService struct {
	repo        repository.ContentRepo
	cache       cache.ContentCache
	broadcaster Broadcaster
	logger      *slog.Logger
}

// NewContentService creates a new content service
func NewContentService(repo repository.ContentRepo, contentCache cache.ContentCache, logger *slog.Logger) *ContentService {
	return &ContentService{
		repo:        repo,
		cache:       contentCache,
		broadcaster: noopBroadcaster{},
		logger:      logger.With("component", "content"),
	}
}

// SetBroadcaster sets the WebSocket broadcaster
func (s *ContentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// GetAll returns the defaults with every stored key replacing its default.
// A failing store yields the defaults alone.
func (s *ContentService) GetAll(ctx context.Context) (map[string]any, error) {
	if cached, err := s.cache.Get(ctx); err != nil {
		s.logger.Warn("content cache read failed", "error", err)
	} else if cached != nil {
		return cached, nil
	}

	content, err := DefaultContent()
	if err != nil {
		return nil, fault.NewInternalError("failed to load default content", err)
	}

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Warn("content store unavailable, serving defaults", "error", err)
		return content, nil
	}
	for _, item := range items {
		content[item.Key] = item.Value
	}

	if err := s.cache.Set(ctx, content); err != nil {
		s.logger.Warn("content cache write failed", "error", err)
	}
	return content, nil
}

// Set stores one content key
func (s *ContentService) Set(ctx context.Context, key string, value any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fault.NewFieldError("key", "key is required", nil)
	}
	if err := s.repo.Set(ctx, key, value); err != nil {
		return fault.NewInternalError("failed to save content", err)
	}
	s.changed(ctx, []string{key})
	return nil
}

// SetMany stores every key of values
func (s *ContentService) SetMany(ctx context.Context, values map[string]any) error {
	if len(values) == 0 {
		return fault.NewClientError("no content to save", nil)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		if strings.TrimSpace(k) == "" {
			return fault.NewFieldError("key", "key is required", nil)
		}
		keys = append(keys, k)
	}
	if err := s.repo.SetMany(ctx, values); err != nil {
		return fault.NewInternalError("failed to save content", err)
	}
	s.changed(ctx, keys)
	return nil
}

func (s *ContentService) changed(ctx context.Context, keys []string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("content cache invalidation failed", "error", err)
	}
	s.logger.Info("content updated", "keys", keys)
	s.broadcaster.BroadcastToAdmins(EventContentUpdated, map[string]interface{}{
		"keys": keys,
	})
}

// Count returns the number of stored content keys
func (s *ContentService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
