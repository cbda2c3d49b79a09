package services

import (
	"YouthHealth/models"
	"YouthHealth/repositories"
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"
)

type UserService interface {
	GetAll(ctx context.Context) ([]models.User, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error)
	SetRisk(ctx context.Context, userID, risk, note string) (*models.User, error)
}

type userService struct {
	users    repositories.UserRepository
	activity repositories.ActivityRepository
	deps     Deps
}

func NewUserService(users repositories.UserRepository, activity repositories.ActivityRepository, deps Deps) UserService {
	return &userService{users: users, activity: activity, deps: deps.withDefaults()}
}

func (s *userService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.users.GetAll(ctx)
}

func (s *userService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies a self-service edit. The risk level is staff-owned
// and cannot be changed here.
func (s *userService) UpdateProfile(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	patch.MentalHealthRisk = nil
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.users.Update(ctx, userID, patch)
}

// SetRisk records a staff assessment. Raising a user to high risk alerts
// every connected dashboard.
func (s *userService) SetRisk(ctx context.Context, userID, risk, note string) (*models.User, error) {
	err := validation.Validate(risk, validation.Required, validation.In(models.RiskLevels...))
	if err != nil {
		return nil, validation.Errors{"mentalHealthRisk": err}
	}

	previous, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.Update(ctx, userID, models.UserPatch{MentalHealthRisk: &risk})
	if err != nil {
		return nil, err
	}

	wasHigh := previous.MentalHealthRisk != nil && *previous.MentalHealthRisk == models.RiskHigh
	if risk != models.RiskHigh || wasHigh {
		return updated, nil
	}

	message := note
	if message == "" {
		message = fmt.Sprintf("%s was assessed as high risk", updated.Name)
	}
	priority := models.PriorityUrgent
	id := updated.ID
	activity := &models.Activity{
		Type:        models.ActivityAlert,
		Description: message,
		Priority:    &priority,
		UserID:      &id,
	}
	if err := s.activity.Record(ctx, activity); err != nil {
		s.deps.Logger.WithFields(logrus.Fields{"userID": userID, "error": err}).Warn("failed to record alert activity")
	}

	s.deps.publish(ctx, models.EventMentalHealthAlert, models.MentalHealthAlert{
		ID:        activity.ID,
		UserID:    updated.ID,
		UserName:  updated.Name,
		RiskLevel: risk,
		Message:   message,
	})
	return updated, nil
}
