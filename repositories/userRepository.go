package repositories

import (
	"YouthHealth/cache"
	"YouthHealth/models"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	UserCacheExpiry = 7 * 24 * time.Hour
	usersCacheKey   = "users_cache"
)

type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	// GetByEmail bypasses the cache since it returns the password hash.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	TouchLastActive(ctx context.Context, id string) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewUserRepository(db *gorm.DB, cache *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: cache}
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	return r.cache.WithLock(ctx, "user_lock:"+user.Email, cache.DefaultLockOptions, func() error {
		exists, err := r.EmailExists(ctx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("email already registered: %w", ErrConflict)
		}
		if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := r.cache.Delete(ctx, usersCacheKey); err != nil {
			return fmt.Errorf("failed to delete users cache: %w", err)
		}
		return r.cache.DeleteAll(ctx, statsCacheKey+"*")
	})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getUserCacheKey(id)
	var user models.User
	if r.cache.GetJSON(ctx, cacheKey, &user) {
		return &user, nil
	}

	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	r.cache.SetJSON(ctx, cacheKey, user, UserCacheExpiry)
	return &user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var users []models.User
	if r.cache.GetJSON(ctx, usersCacheKey, &users) {
		return users, nil
	}

	if err := r.db.WithContext(ctx).Where("role = ?", models.RoleUser).Order("joined_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}

	r.cache.SetJSON(ctx, usersCacheKey, users, UserCacheExpiry)
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	var updated models.User
	err := r.cache.WithLock(ctx, "user_lock:"+id, cache.DefaultLockOptions, func() error {
		var current models.User
		if err := r.db.WithContext(ctx).First(&current, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}
		updated = patch.Apply(current)
		if err := r.db.WithContext(ctx).Save(&updated).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if err := r.cache.Delete(ctx, r.getUserCacheKey(id), usersCacheKey); err != nil {
			return fmt.Errorf("failed to delete user cache: %w", err)
		}
		if patch.MentalHealthRisk != nil {
			return r.cache.DeleteAll(ctx, statsCacheKey+"*")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *userRepository) TouchLastActive(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_active", time.Now()).Error
	if err != nil {
		return fmt.Errorf("failed to update last active: %w", err)
	}
	return r.cache.Delete(ctx, r.getUserCacheKey(id))
}

func (r *userRepository) getUserCacheKey(id string) string {
	return fmt.Sprintf("user_cache:%s", id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
