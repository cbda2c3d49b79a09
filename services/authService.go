package services

import (
	"YouthHealth/models"
	"YouthHealth/repositories"
	"YouthHealth/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (*models.Session, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
}

type authService struct {
	users    repositories.UserRepository
	activity repositories.ActivityRepository
	tokens   *utils.TokenMaker
	deps     Deps
}

func NewAuthService(users repositories.UserRepository, activity repositories.ActivityRepository, tokens *utils.TokenMaker, deps Deps) AuthService {
	return &authService{users: users, activity: activity, tokens: tokens, deps: deps.withDefaults()}
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	user, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(user.Password, creds.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.users.TouchLastActive(ctx, user.ID); err != nil {
		s.deps.Logger.WithFields(logrus.Fields{"userID": user.ID, "error": err}).Warn("failed to record login")
	}
	return &models.Session{Token: token, User: *user}, nil
}

func (s *authService) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:         uuid.New().String(),
		Name:       reg.Name,
		Email:      reg.Email,
		Phone:      reg.Phone,
		Age:        reg.Age,
		Role:       models.RoleUser,
		Password:   hashedPassword,
		JoinedAt:   now,
		LastActive: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	userID := user.ID
	activity := &models.Activity{
		Type:        models.ActivityRegistration,
		Timestamp:   now,
		Description: fmt.Sprintf("%s joined the platform", user.Name),
		UserID:      &userID,
	}
	if err := s.activity.Record(ctx, activity); err != nil {
		s.deps.Logger.WithFields(logrus.Fields{"userID": user.ID, "error": err}).Warn("failed to record registration activity")
	}

	s.deps.publish(ctx, models.EventUserRegistered, models.UserRegistration{ID: user.ID, Name: user.Name})
	return user, nil
}
