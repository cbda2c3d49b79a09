package services

import (
	"YouthHealth/models"
	"YouthHealth/repositories"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type ConsultationService interface {
	List(ctx context.Context, filters models.ConsultationFilters) ([]models.Consultation, error)
	Book(ctx context.Context, userID string, req models.BookingRequest) (*models.Consultation, error)
	Update(ctx context.Context, id string, patch models.ConsultationPatch) (*models.Consultation, error)
}

type consultationService struct {
	consultations repositories.ConsultationRepository
	users         repositories.UserRepository
	doctors       repositories.DoctorRepository
	activity      repositories.ActivityRepository
	deps          Deps
}

func NewConsultationService(
	consultations repositories.ConsultationRepository,
	users repositories.UserRepository,
	doctors repositories.DoctorRepository,
	activity repositories.ActivityRepository,
	deps Deps,
) ConsultationService {
	return &consultationService{
		consultations: consultations,
		users:         users,
		doctors:       doctors,
		activity:      activity,
		deps:          deps.withDefaults(),
	}
}

func (s *consultationService) List(ctx context.Context, filters models.ConsultationFilters) ([]models.Consultation, error) {
	return s.consultations.List(ctx, filters)
}

func (s *consultationService) Book(ctx context.Context, userID string, req models.BookingRequest) (*models.Consultation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	doctor, err := s.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load doctor: %w", err)
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
		if req.Type == models.ConsultationTypeUrgent {
			priority = models.PriorityUrgent
		}
	}

	consultation := &models.Consultation{
		UserID:      user.ID,
		DoctorID:    doctor.ID,
		UserName:    user.Name,
		DoctorName:  doctor.Name,
		UserAge:     user.Age,
		Type:        req.Type,
		Topic:       req.Topic,
		Status:      models.StatusScheduled,
		Priority:    priority,
		ScheduledAt: req.ScheduledAt.UTC(),
	}
	if req.Notes != "" {
		notes := req.Notes
		consultation.Notes = &notes
	}
	if err := consultation.Validate(); err != nil {
		return nil, err
	}
	if err := s.consultations.Create(ctx, consultation); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, consultation, fmt.Sprintf("%s booked a %s consultation with %s", user.Name, consultation.Type, doctor.Name))
	s.deps.publish(ctx, models.EventConsultationNew, consultation)
	return consultation, nil
}

func (s *consultationService) Update(ctx context.Context, id string, patch models.ConsultationPatch) (*models.Consultation, error) {
	now := time.Now().UTC()
	if patch.Status != nil {
		switch *patch.Status {
		case models.StatusInProgress:
			if patch.StartedAt == nil {
				patch.StartedAt = &now
			}
		case models.StatusCompleted:
			if patch.CompletedAt == nil {
				patch.CompletedAt = &now
			}
		}
	}

	updated, err := s.consultations.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && *patch.Status == models.StatusCompleted {
		s.recordActivity(ctx, updated, fmt.Sprintf("%s completed a consultation with %s", updated.UserName, updated.DoctorName))
	}
	s.deps.publish(ctx, models.EventConsultationUpdated, models.ConsultationUpdate{
		ID:       updated.ID,
		Status:   updated.Status,
		Priority: updated.Priority,
	})
	return updated, nil
}

func (s *consultationService) recordActivity(ctx context.Context, c *models.Consultation, description string) {
	userID := c.UserID
	priority := c.Priority
	activity := &models.Activity{
		Type:        models.ActivityConsultation,
		Description: description,
		Priority:    &priority,
		UserID:      &userID,
	}
	if err := s.activity.Record(ctx, activity); err != nil {
		s.deps.Logger.WithFields(logrus.Fields{"consultationID": c.ID, "error": err}).Warn("failed to record consultation activity")
	}
}
