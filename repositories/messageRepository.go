package repositories

import (
	"YouthHealth/models"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create stores the message after checking that its consultation exists.
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	var consultation models.Consultation
	if err := r.db.WithContext(ctx).Select("id").First(&consultation, "id = ?", message.ConsultationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check consultation: %w", err)
	}

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}
