package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sundialhq/sundial/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrPreferenceValueEmpty   = errors.New("value is required")
	ErrSimilarityQueryEmpty   = errors.New("query is required")
	ErrEmbeddingsNotAvailable = errors.New("embedding provider is not configured")
)

// DefaultSimilarLimit caps similarity searches when the caller passes no limit.
const DefaultSimilarLimit = 5

// PreferenceService owns the write path for raw preference statements.
// Scope-date detection at write time uses the same calendar semantics the
// interpreter applies at read time, so a statement stored as "tomorrow"
// and re-read later still binds to the date it was uttered about.
type PreferenceService struct {
	store    domain.PreferenceStore
	embedder domain.EmbeddingClient
	logger   *zap.Logger
	now      func() time.Time
}

func NewPreferenceService(store domain.PreferenceStore, embedder domain.EmbeddingClient, logger *zap.Logger) *PreferenceService {
	return &PreferenceService{
		store:    store,
		embedder: embedder,
		logger:   logger,
		now:      time.Now,
	}
}

// Store persists a raw preference statement. The text is kept verbatim;
// only the scope date is derived here. An embedding is attached
// best-effort for similarity search — its absence never blocks storage.
func (s *PreferenceService) Store(ctx context.Context, userID uuid.UUID, value string, source domain.PreferenceSource) (*domain.Preference, error) {
	if strings.TrimSpace(value) == "" {
		return nil, ErrPreferenceValueEmpty
	}
	if source == "" {
		source = domain.SourceAPI
	}

	p := &domain.Preference{
		UserID:    userID,
		Value:     value,
		ScopeDate: s.detectScopeDate(value),
		Source:    source,
	}

	if s.embedder != nil {
		emb, err := s.embedder.Embed(ctx, value)
		if err != nil {
			s.logger.Warn("embedding generation failed", zap.Error(err))
		} else {
			p.Embedding = emb
		}
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// detectScopeDate mirrors the interpreter's "today"/"tomorrow" handling.
func (s *PreferenceService) detectScopeDate(value string) *time.Time {
	lower := strings.ToLower(value)
	switch {
	case strings.Contains(lower, "tomorrow"):
		d := dateOnly(s.now().AddDate(0, 0, 1))
		return &d
	case strings.Contains(lower, "today"):
		d := dateOnly(s.now())
		return &d
	}
	return nil
}

// List returns the user's stored preferences, newest first.
func (s *PreferenceService) List(ctx context.Context, userID uuid.UUID) ([]domain.Preference, error) {
	return s.store.ListByUser(ctx, userID)
}

// Clear deletes all stored preferences for the user and reports how many
// were removed.
func (s *PreferenceService) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.store.DeleteByUser(ctx, userID)
}

func (s *PreferenceService) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.store.CountByUser(ctx, userID)
}

// SearchSimilar embeds the query and returns the nearest stored
// preferences by cosine similarity.
func (s *PreferenceService) SearchSimilar(ctx context.Context, userID uuid.UUID, query string, limit int) ([]domain.PreferenceWithScore, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrSimilarityQueryEmpty
	}
	if s.embedder == nil {
		return nil, ErrEmbeddingsNotAvailable
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.store.SearchSimilar(ctx, userID, emb, limit)
}
