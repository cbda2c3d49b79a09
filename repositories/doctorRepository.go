package repositories

import (
	"YouthHealth/cache"
	"YouthHealth/models"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	DoctorCacheExpiry = 7 * 24 * time.Hour
	doctorsCacheKey   = "doctors_cache"
)

type DoctorRepository interface {
	GetAll(ctx context.Context) ([]models.Doctor, error)
	GetByID(ctx context.Context, id string) (*models.Doctor, error)
	SetAvailability(ctx context.Context, id, availability string) (*models.Doctor, error)
}

type doctorRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewDoctorRepository(db *gorm.DB, cache *cache.Cache) DoctorRepository {
	return &doctorRepository{db: db, cache: cache}
}

func (r *doctorRepository) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getDoctorCacheKey(id)
	var doctor models.Doctor
	if r.cache.GetJSON(ctx, cacheKey, &doctor) {
		return &doctor, nil
	}

	if err := r.db.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	r.cache.SetJSON(ctx, cacheKey, doctor, DoctorCacheExpiry)
	return &doctor, nil
}

func (r *doctorRepository) GetAll(ctx context.Context) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doctors []models.Doctor
	if r.cache.GetJSON(ctx, doctorsCacheKey, &doctors) {
		return doctors, nil
	}

	if err := r.db.WithContext(ctx).Order("name ASC").Find(&doctors).Error; err != nil {
		return nil, fmt.Errorf("failed to get all doctors: %w", err)
	}

	r.cache.SetJSON(ctx, doctorsCacheKey, doctors, DoctorCacheExpiry)
	return doctors, nil
}

func (r *doctorRepository) SetAvailability(ctx context.Context, id, availability string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.cache.WithLock(ctx, "doctor_lock:"+id, cache.DefaultLockOptions, func() error {
		res := r.db.WithContext(ctx).Model(&models.Doctor{}).Where("id = ?", id).Update("availability", availability)
		if res.Error != nil {
			return fmt.Errorf("failed to update doctor availability: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := r.db.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to reload doctor: %w", err)
		}
		if err := r.cache.Delete(ctx, r.getDoctorCacheKey(id), doctorsCacheKey); err != nil {
			return fmt.Errorf("failed to delete doctor cache: %w", err)
		}
		return r.cache.DeleteAll(ctx, statsCacheKey+"*")
	})
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) getDoctorCacheKey(id string) string {
	return fmt.Sprintf("doctor_cache:%s", id)
}
