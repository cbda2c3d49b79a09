package services

import (
	"YouthHealth/models"
	"YouthHealth/repositories"
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxActivityLimit  = 100
	MaxEngagementDays = 365
)

type AnalyticsService interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	RecentActivity(ctx context.Context, limit int) ([]models.Activity, error)
	RecordAchievement(ctx context.Context, userID string, achievement models.Achievement) (*models.Activity, error)
	HealthGameStats(ctx context.Context) (*models.HealthGameStats, error)
	Engagement(ctx context.Context, days int) ([]models.EngagementPoint, error)
}

type analyticsService struct {
	stats    repositories.StatsRepository
	activity repositories.ActivityRepository
	users    repositories.UserRepository
	deps     Deps
}

func NewAnalyticsService(stats repositories.StatsRepository, activity repositories.ActivityRepository, users repositories.UserRepository, deps Deps) AnalyticsService {
	return &analyticsService{stats: stats, activity: activity, users: users, deps: deps.withDefaults()}
}

func (s *analyticsService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	return s.stats.DashboardStats(ctx)
}

func (s *analyticsService) RecentActivity(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 || limit > MaxActivityLimit {
		return nil, validation.Errors{"limit": fmt.Errorf("must be between 1 and %d", MaxActivityLimit)}
	}
	return s.activity.Recent(ctx, limit)
}

func (s *analyticsService) RecordAchievement(ctx context.Context, userID string, achievement models.Achievement) (*models.Activity, error) {
	achievement.UserID = userID
	err := validation.ValidateStruct(&achievement,
		validation.Field(&achievement.Game, validation.Required, validation.Length(1, 100)),
		validation.Field(&achievement.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&achievement.Score, validation.Min(0)),
	)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	play := &models.GamePlay{
		UserID:    userID,
		Game:      achievement.Game,
		Score:     achievement.Score,
		Completed: true,
	}
	activity := &models.Activity{
		Type:        models.ActivityAchievement,
		Description: fmt.Sprintf("%s unlocked %q in %s", user.Name, achievement.Title, achievement.Game),
		UserID:      &user.ID,
	}
	if err := s.activity.RecordAchievement(ctx, play, activity); err != nil {
		return nil, err
	}

	s.deps.publish(ctx, models.EventGameAchievement, models.AchievementUnlocked{
		ID:       activity.ID,
		UserID:   user.ID,
		UserName: user.Name,
		Game:     achievement.Game,
		Title:    achievement.Title,
	})
	return activity, nil
}

func (s *analyticsService) HealthGameStats(ctx context.Context) (*models.HealthGameStats, error) {
	return s.stats.HealthGameStats(ctx)
}

func (s *analyticsService) Engagement(ctx context.Context, days int) ([]models.EngagementPoint, error) {
	if days <= 0 || days > MaxEngagementDays {
		return nil, validation.Errors{"days": fmt.Errorf("must be between 1 and %d", MaxEngagementDays)}
	}
	return s.stats.Engagement(ctx, days)
}
