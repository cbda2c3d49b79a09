package repositories

import (
	"YouthHealth/cache"
	"YouthHealth/models"
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	StatsCacheExpiry = 30 * time.Second
	statsCacheKey    = "stats_cache"
)

type StatsRepository interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	HealthGameStats(ctx context.Context) (*models.HealthGameStats, error)
	Engagement(ctx context.Context, days int) ([]models.EngagementPoint, error)
}

type statsRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewStatsRepository(db *gorm.DB, cache *cache.Cache) StatsRepository {
	return &statsRepository{db: db, cache: cache}
}

const dashboardStatsQuery = `
SELECT
	(SELECT COUNT(*) FROM users WHERE role = 'user') AS total_users,
	(SELECT COUNT(*) FROM users WHERE role = 'user' AND last_active >= NOW() - INTERVAL '24 hours') AS active_users,
	(SELECT COUNT(*) FROM consultation) AS total_consultations,
	(SELECT COUNT(*) FROM consultation WHERE status = 'in-progress') AS active_consultations,
	(SELECT COUNT(*) FROM consultation WHERE status = 'completed' AND completed_at >= CURRENT_DATE) AS completed_today,
	(SELECT COUNT(*) FROM consultation WHERE status = 'scheduled') AS pending_consultations,
	(SELECT COUNT(*) FROM doctor WHERE availability = 'available') AS available_doctors,
	(SELECT COUNT(*) FROM doctor) AS total_doctors,
	(SELECT COUNT(*) FROM users WHERE mental_health_risk = 'high') AS mental_health_alerts,
	(SELECT COALESCE(AVG(rating), 0) FROM doctor) AS average_rating,
	(SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (started_at - created_at)) / 60), 0)
		FROM consultation WHERE started_at IS NOT NULL) AS average_response_minutes
`

func (r *statsRepository) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := statsCacheKey + ":dashboard"
	var stats models.DashboardStats
	if r.cache.GetJSON(ctx, cacheKey, &stats) {
		return &stats, nil
	}

	if err := r.db.WithContext(ctx).Raw(dashboardStatsQuery).Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}

	r.cache.SetJSON(ctx, cacheKey, stats, StatsCacheExpiry)
	return &stats, nil
}

const gameTotalsQuery = `
SELECT
	COUNT(*) AS total_plays,
	COUNT(DISTINCT user_id) AS unique_players,
	COALESCE(AVG(score), 0) AS average_score,
	COALESCE(AVG(CASE WHEN completed THEN 100.0 ELSE 0 END), 0) AS completion_rate,
	(SELECT COUNT(*) FROM activity WHERE type = 'achievement') AS achievements_unlocked
FROM game_play
`

func (r *statsRepository) HealthGameStats(ctx context.Context) (*models.HealthGameStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := statsCacheKey + ":games"
	var stats models.HealthGameStats
	if r.cache.GetJSON(ctx, cacheKey, &stats) {
		return &stats, nil
	}

	if err := r.db.WithContext(ctx).Raw(gameTotalsQuery).Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to compute game stats: %w", err)
	}
	err := r.db.WithContext(ctx).Model(&models.GamePlay{}).
		Select("game AS name, COUNT(*) AS plays").
		Group("game").
		Order("plays DESC").
		Limit(5).
		Scan(&stats.TopGames).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute top games: %w", err)
	}

	r.cache.SetJSON(ctx, cacheKey, stats, StatsCacheExpiry)
	return &stats, nil
}

const engagementQuery = `
SELECT
	to_char(d.day, 'YYYY-MM-DD') AS date,
	(SELECT COUNT(DISTINCT a.user_id) FROM activity a
		WHERE a.user_id IS NOT NULL AND a.timestamp::date = d.day::date) AS active_users,
	(SELECT COUNT(*) FROM consultation c WHERE c.created_at::date = d.day::date) AS consultations,
	(SELECT COUNT(*) FROM message m WHERE m.sent_at::date = d.day::date) AS messages
FROM generate_series(CURRENT_DATE - (? - 1) * INTERVAL '1 day', CURRENT_DATE, INTERVAL '1 day') AS d(day)
ORDER BY d.day
`

func (r *statsRepository) Engagement(ctx context.Context, days int) ([]models.EngagementPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := fmt.Sprintf("%s:engagement:%d", statsCacheKey, days)
	var points []models.EngagementPoint
	if r.cache.GetJSON(ctx, cacheKey, &points) {
		return points, nil
	}

	if err := r.db.WithContext(ctx).Raw(engagementQuery, days).Scan(&points).Error; err != nil {
		return nil, fmt.Errorf("failed to compute engagement: %w", err)
	}

	r.cache.SetJSON(ctx, cacheKey, points, StatsCacheExpiry)
	return points, nil
}
