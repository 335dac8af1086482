package services

import (
	"context"

	"restaurant-delivery-lab/internal/cache"
	"restaurant-delivery-lab/internal/queries"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RecommendationService answers dashboard queries over the historical store,
// consulting the cache before hitting SQLite.
type RecommendationService struct {
	queries *queries.HistoryQueries
	cache   *cache.RecommendationCache
}

// NewRecommendationService creates the service over an open recommender store
func NewRecommendationService(db *gorm.DB, c *cache.RecommendationCache) *RecommendationService {
	return &RecommendationService{
		queries: queries.NewHistoryQueries(db),
		cache:   c,
	}
}

// Recommend returns the ranked restaurants for one preference and filter set
func (s *RecommendationService) Recommend(ctx context.Context, pref queries.Preference, f queries.Filters) ([]queries.RecommendationRow, error) {
	key := cache.Key(pref, f)

	if rows, err := s.cache.Get(ctx, key); err == nil {
		log.Debug().Str("key", key).Msg("Recommendation served from cache")
		return rows, nil
	}

	rows, err := s.queries.Recommend(pref, f)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, rows); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache recommendation")
	}
	return rows, nil
}

// WarmPresets refreshes the cache for the unfiltered ranking of every
// preference. Used by the periodic warm job; failures only log.
func (s *RecommendationService) WarmPresets(ctx context.Context) {
	for _, pref := range []queries.Preference{queries.PreferenceFastest, queries.PreferenceValue, queries.PreferencePopular} {
		f := queries.Filters{Cuisine: queries.CuisineAll, Limit: queries.DefaultLimit}
		rows, err := s.queries.Recommend(pref, f)
		if err != nil {
			log.Error().Err(err).Str("preference", string(pref)).Msg("Failed to warm recommendation preset")
			continue
		}
		if err := s.cache.Set(ctx, cache.Key(pref, f), rows); err != nil {
			log.Warn().Err(err).Str("preference", string(pref)).Msg("Failed to cache warmed preset")
		}
	}
}
