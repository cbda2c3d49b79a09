package stores

import (
	"YouthHealth/models"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ConsultationAPI is the subset of the REST client used for booking.
type ConsultationAPI interface {
	Consultations(ctx context.Context, filters models.ConsultationFilters) ([]models.Consultation, error)
	BookConsultation(ctx context.Context, req models.BookingRequest) (models.Consultation, error)
	UpdateConsultation(ctx context.Context, id string, patch models.ConsultationPatch) (models.Consultation, error)
}

// ConsultationStore holds the consultations of the booking flow and the
// one currently selected.
type ConsultationStore struct {
	base
	api ConsultationAPI

	consultations []models.Consultation
	selectedID    string
}

func NewConsultationStore(api ConsultationAPI, logger *logrus.Logger) *ConsultationStore {
	s := &ConsultationStore{api: api}
	s.init("consultation", logger)
	return s
}

func (s *ConsultationStore) Consultations() []models.Consultation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.consultations)
}

// Selected returns the selected consultation, if it is still in the snapshot.
func (s *ConsultationStore) Selected() (models.Consultation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.consultations {
		if c.ID == s.selectedID {
			return c, true
		}
	}
	return models.Consultation{}, false
}

func (s *ConsultationStore) FetchConsultations(ctx context.Context, filters models.ConsultationFilters) error {
	load := func(ctx context.Context) ([]models.Consultation, error) {
		return s.api.Consultations(ctx, filters)
	}
	return fetch(ctx, &s.base, "consultations", load, func(consultations []models.Consultation) {
		s.consultations = filters.Apply(consultations)
	})
}

// BookConsultation creates a consultation and puts it at the head of the
// snapshot.
func (s *ConsultationStore) BookConsultation(ctx context.Context, req models.BookingRequest) (models.Consultation, error) {
	if err := req.Validate(); err != nil {
		return models.Consultation{}, fmt.Errorf("invalid booking: %w", err)
	}
	load := func(ctx context.Context) (models.Consultation, error) {
		return s.api.BookConsultation(ctx, req)
	}
	return mutate(ctx, &s.base, "book", load, func(c models.Consultation) {
		next := make([]models.Consultation, 0, len(s.consultations)+1)
		next = append(next, c)
		s.consultations = append(next, s.consultations...)
		s.selectedID = c.ID
	}, "consultations")
}

// CancelConsultation marks the consultation cancelled on the server and
// merges the returned status locally.
func (s *ConsultationStore) CancelConsultation(ctx context.Context, id string) error {
	status := models.StatusCancelled
	patch := models.ConsultationPatch{Status: &status}
	load := func(ctx context.Context) (models.Consultation, error) {
		return s.api.UpdateConsultation(ctx, id, patch)
	}
	_, err := mutate(ctx, &s.base, "cancel", load, func(c models.Consultation) {
		s.consultations, _ = updateByID(s.consultations, id, consultationID, func(models.Consultation) models.Consultation {
			return c
		})
	}, "consultations")
	return err
}

func (s *ConsultationStore) UpdateConsultation(id string, patch models.ConsultationPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found bool
	s.consultations, found = updateByID(s.consultations, id, consultationID, patch.Apply)
	return found
}

func (s *ConsultationStore) RemoveConsultation(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found bool
	s.consultations, found = removeByID(s.consultations, id, consultationID)
	if found && s.selectedID == id {
		s.selectedID = ""
	}
	return found
}

// SelectConsultation marks id as the current consultation. Unknown ids are
// ignored.
func (s *ConsultationStore) SelectConsultation(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.consultations {
		if c.ID == id {
			s.selectedID = id
			return true
		}
	}
	return false
}
