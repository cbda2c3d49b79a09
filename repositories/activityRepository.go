package repositories

import (
	"YouthHealth/cache"
	"YouthHealth/models"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActivityCacheExpiry = time.Minute
	activityCacheKey    = "activity_cache"
)

type ActivityRepository interface {
	Record(ctx context.Context, activity *models.Activity) error
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
	RecordAchievement(ctx context.Context, play *models.GamePlay, activity *models.Activity) error
}

type activityRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewActivityRepository(db *gorm.DB, cache *cache.Cache) ActivityRepository {
	return &activityRepository{db: db, cache: cache}
}

func (r *activityRepository) Record(ctx context.Context, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return r.cache.DeleteAll(ctx, activityCacheKey+"*")
}

func (r *activityRepository) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := fmt.Sprintf("%s:%d", activityCacheKey, limit)
	var activities []models.Activity
	if r.cache.GetJSON(ctx, cacheKey, &activities) {
		return activities, nil
	}

	if err := r.db.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent activity: %w", err)
	}

	r.cache.SetJSON(ctx, cacheKey, activities, ActivityCacheExpiry)
	return activities, nil
}

// RecordAchievement stores a finished game play together with its
// achievement feed entry and bumps the player's counters.
func (r *activityRepository) RecordAchievement(ctx context.Context, play *models.GamePlay, activity *models.Activity) error {
	if play.ID == "" {
		play.ID = uuid.New().String()
	}
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(play).Error; err != nil {
			return fmt.Errorf("failed to record game play: %w", err)
		}
		if err := tx.Create(activity).Error; err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
		err := tx.Model(&models.User{}).Where("id = ?", play.UserID).
			Updates(map[string]interface{}{
				"games_played":      gorm.Expr("games_played + 1"),
				"achievement_count": gorm.Expr("achievement_count + 1"),
				"last_active":       time.Now(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update user counters: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, "user_cache:"+play.UserID, usersCacheKey); err != nil {
		return fmt.Errorf("failed to delete user cache: %w", err)
	}
	if err := r.cache.DeleteAll(ctx, activityCacheKey+"*"); err != nil {
		return fmt.Errorf("failed to delete activity cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, statsCacheKey+"*")
}
