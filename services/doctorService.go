package services

import (
	"YouthHealth/models"
	"YouthHealth/repositories"
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type DoctorService interface {
	GetAll(ctx context.Context) ([]models.Doctor, error)
	SetAvailability(ctx context.Context, id, availability string) (*models.Doctor, error)
}

type doctorService struct {
	repository repositories.DoctorRepository
	deps       Deps
}

func NewDoctorService(repository repositories.DoctorRepository, deps Deps) DoctorService {
	return &doctorService{repository: repository, deps: deps.withDefaults()}
}

func (s *doctorService) GetAll(ctx context.Context) ([]models.Doctor, error) {
	return s.repository.GetAll(ctx)
}

func (s *doctorService) SetAvailability(ctx context.Context, id, availability string) (*models.Doctor, error) {
	err := validation.Validate(availability, validation.Required, validation.In(models.Availabilities...))
	if err != nil {
		return nil, validation.Errors{"availability": err}
	}

	doctor, err := s.repository.SetAvailability(ctx, id, availability)
	if err != nil {
		return nil, err
	}

	s.deps.publish(ctx, models.EventDoctorAvailability, models.AvailabilityChange{
		ID:           doctor.ID,
		DoctorName:   doctor.Name,
		Availability: doctor.Availability,
	})
	return doctor, nil
}
