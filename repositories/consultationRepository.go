package repositories

import (
	"YouthHealth/cache"
	"YouthHealth/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ConsultationCacheExpiry = 5 * time.Minute
	consultationsCacheKey   = "consultations_cache"
)

type ConsultationRepository interface {
	List(ctx context.Context, filters models.ConsultationFilters) ([]models.Consultation, error)
	GetByID(ctx context.Context, id string) (*models.Consultation, error)
	Create(ctx context.Context, consultation *models.Consultation) error
	Update(ctx context.Context, id string, patch models.ConsultationPatch) (*models.Consultation, error)
}

type consultationRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewConsultationRepository(db *gorm.DB, cache *cache.Cache) ConsultationRepository {
	return &consultationRepository{db: db, cache: cache}
}

func (r *consultationRepository) List(ctx context.Context, filters models.ConsultationFilters) ([]models.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.listCacheKey(filters)
	var consultations []models.Consultation
	if r.cache.GetJSON(ctx, cacheKey, &consultations) {
		return consultations, nil
	}

	query := r.db.WithContext(ctx).Model(&models.Consultation{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Priority != "" {
		query = query.Where("priority = ?", filters.Priority)
	}
	if filters.Topic != "" {
		query = query.Where("topic = ?", filters.Topic)
	}
	if filters.DoctorID != "" {
		query = query.Where("doctor_id = ?", filters.DoctorID)
	}
	if filters.From != nil {
		query = query.Where("scheduled_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("scheduled_at <= ?", *filters.To)
	}

	if err := query.Order("scheduled_at DESC").Find(&consultations).Error; err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}

	r.cache.SetJSON(ctx, cacheKey, consultations, ConsultationCacheExpiry)
	return consultations, nil
}

func (r *consultationRepository) GetByID(ctx context.Context, id string) (*models.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var consultation models.Consultation
	if err := r.db.WithContext(ctx).First(&consultation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	return &consultation, nil
}

func (r *consultationRepository) Create(ctx context.Context, consultation *models.Consultation) error {
	lockKey := fmt.Sprintf("consultation_lock:%s:%s", consultation.DoctorID, consultation.ScheduledAt.UTC().Format(time.RFC3339))
	return r.cache.WithLock(ctx, lockKey, cache.DefaultLockOptions, func() error {
		var count int64
		err := r.db.WithContext(ctx).Model(&models.Consultation{}).
			Where("doctor_id = ? AND scheduled_at = ? AND status IN ?", consultation.DoctorID, consultation.ScheduledAt,
				[]string{models.StatusScheduled, models.StatusInProgress}).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check doctor schedule: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("doctor already booked at that time: %w", ErrConflict)
		}

		if consultation.ID == "" {
			consultation.ID = uuid.New().String()
		}
		if err := r.db.WithContext(ctx).Create(consultation).Error; err != nil {
			return fmt.Errorf("failed to create consultation: %w", err)
		}
		return r.invalidate(ctx)
	})
}

func (r *consultationRepository) Update(ctx context.Context, id string, patch models.ConsultationPatch) (*models.Consultation, error) {
	var updated models.Consultation
	err := r.cache.WithLock(ctx, "consultation_lock:"+id, cache.DefaultLockOptions, func() error {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated = patch.Apply(*current)
		if err := updated.Validate(); err != nil {
			return err
		}
		if err := r.db.WithContext(ctx).Save(&updated).Error; err != nil {
			return fmt.Errorf("failed to update consultation: %w", err)
		}
		return r.invalidate(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *consultationRepository) invalidate(ctx context.Context) error {
	if err := r.cache.DeleteAll(ctx, consultationsCacheKey+"*"); err != nil {
		return fmt.Errorf("failed to delete consultations cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, statsCacheKey+"*")
}

func (r *consultationRepository) listCacheKey(filters models.ConsultationFilters) string {
	if filters.IsZero() {
		return consultationsCacheKey
	}
	return consultationsCacheKey + ":" + filters.Query().Encode()
}
