package stores

import (
	"YouthHealth/models"
	"context"

	"github.com/sirupsen/logrus"
)

// DefaultEngagementDays is the window of the engagement series.
const DefaultEngagementDays = 30

type AnalyticsAPI interface {
	HealthGameStats(ctx context.Context) (models.HealthGameStats, error)
	Engagement(ctx context.Context, days int) ([]models.EngagementPoint, error)
}

// AnalyticsStore holds health game statistics and the engagement series.
type AnalyticsStore struct {
	base
	api AnalyticsAPI

	games      models.HealthGameStats
	engagement []models.EngagementPoint
}

func NewAnalyticsStore(api AnalyticsAPI, logger *logrus.Logger) *AnalyticsStore {
	s := &AnalyticsStore{api: api}
	s.init("analytics", logger)
	return s
}

func (s *AnalyticsStore) HealthGameStats() models.HealthGameStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := s.games
	games.TopGames = cloneSlice(s.games.TopGames)
	return games
}

func (s *AnalyticsStore) Engagement() []models.EngagementPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.engagement)
}

func (s *AnalyticsStore) FetchHealthGameStats(ctx context.Context) error {
	return fetch(ctx, &s.base, "games", s.api.HealthGameStats, func(stats models.HealthGameStats) {
		s.games = stats
	})
}

func (s *AnalyticsStore) FetchEngagement(ctx context.Context, days int) error {
	if days <= 0 {
		days = DefaultEngagementDays
	}
	load := func(ctx context.Context) ([]models.EngagementPoint, error) {
		return s.api.Engagement(ctx, days)
	}
	return fetch(ctx, &s.base, "engagement", load, func(points []models.EngagementPoint) {
		s.engagement = points
	})
}
