package realtime

import (
	"YouthHealth/models"
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Event is a parsed real-time event. Each event name has its own type.
type Event interface {
	EventName() string
}

type Connected struct{}

type Disconnected struct {
	Reason string `json:"reason"`
}

// ConsultationCreated carries the booked consultation. Only the identity and
// the user name are required.
type ConsultationCreated struct {
	models.Consultation
}

type ConsultationUpdated struct {
	models.ConsultationUpdate
}

type MentalHealthAlerted struct {
	models.MentalHealthAlert
}

type UserRegistered struct {
	models.UserRegistration
}

type DoctorAvailabilityChanged struct {
	models.AvailabilityChange
}

type MessageReceived struct {
	models.Message
}

type AchievementUnlocked struct {
	models.AchievementUnlocked
}

func (Connected) EventName() string { return models.EventConnect }
func (Disconnected) EventName() string { return models.EventDisconnect }
func (ConsultationCreated) EventName() string { return models.EventConsultationNew }
func (ConsultationUpdated) EventName() string { return models.EventConsultationUpdated }
func (MentalHealthAlerted) EventName() string { return models.EventMentalHealthAlert }
func (UserRegistered) EventName() string { return models.EventUserRegistered }
func (DoctorAvailabilityChanged) EventName() string { return models.EventDoctorAvailability }
func (MessageReceived) EventName() string { return models.EventMessageNew }
func (AchievementUnlocked) EventName() string { return models.EventGameAchievement }

// UnknownEventError is returned by ParseEvent for names it has no type for.
type UnknownEventError struct {
	EventName string
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown realtime event %q", e.EventName)
}

// ParseEvent decodes and validates the payload of a named event.
func ParseEvent(eventName string, payload json.RawMessage) (Event, error) {
	switch eventName {
	case models.EventConnect:
		return Connected{}, nil

	case models.EventDisconnect:
		var e Disconnected
		if len(payload) > 0 {
			_ = json.Unmarshal(payload, &e)
		}
		return e, nil

	case models.EventConsultationNew:
		var e ConsultationCreated
		if err := decode(payload, &e.Consultation); err != nil {
			return nil, err
		}
		c := &e.Consultation
		err := validation.ValidateStruct(c,
			validation.Field(&c.ID, validation.Required),
			validation.Field(&c.UserName, validation.Required),
			validation.Field(&c.Status, validation.In(models.ConsultationStatuses...)),
			validation.Field(&c.Priority, validation.In(models.Priorities...)),
		)
		return e, wrapInvalid(eventName, err)

	case models.EventConsultationUpdated:
		var e ConsultationUpdated
		if err := decode(payload, &e.ConsultationUpdate); err != nil {
			return nil, err
		}
		u := &e.ConsultationUpdate
		err := validation.ValidateStruct(u,
			validation.Field(&u.ID, validation.Required),
			validation.Field(&u.Status, validation.In(models.ConsultationStatuses...)),
			validation.Field(&u.Priority, validation.In(models.Priorities...)),
		)
		return e, wrapInvalid(eventName, err)

	case models.EventMentalHealthAlert:
		var e MentalHealthAlerted
		if err := decode(payload, &e.MentalHealthAlert); err != nil {
			return nil, err
		}
		a := &e.MentalHealthAlert
		err := validation.ValidateStruct(a,
			validation.Field(&a.UserID, validation.Required),
			validation.Field(&a.RiskLevel, validation.Required, validation.In(models.RiskLevels...)),
		)
		return e, wrapInvalid(eventName, err)

	case models.EventUserRegistered:
		var e UserRegistered
		if err := decode(payload, &e.UserRegistration); err != nil {
			return nil, err
		}
		r := &e.UserRegistration
		err := validation.ValidateStruct(r,
			validation.Field(&r.ID, validation.Required),
		)
		return e, wrapInvalid(eventName, err)

	case models.EventDoctorAvailability:
		var e DoctorAvailabilityChanged
		if err := decode(payload, &e.AvailabilityChange); err != nil {
			return nil, err
		}
		a := &e.AvailabilityChange
		err := validation.ValidateStruct(a,
			validation.Field(&a.ID, validation.Required),
			validation.Field(&a.Availability, validation.Required, validation.In(models.Availabilities...)),
		)
		return e, wrapInvalid(eventName, err)

	case models.EventMessageNew:
		var e MessageReceived
		if err := decode(payload, &e.Message); err != nil {
			return nil, err
		}
		m := &e.Message
		err := validation.ValidateStruct(m,
			validation.Field(&m.ID, validation.Required),
			validation.Field(&m.Priority, validation.In(models.Priorities...)),
		)
		return e, wrapInvalid(eventName, err)

	case models.EventGameAchievement:
		var e AchievementUnlocked
		if err := decode(payload, &e.AchievementUnlocked); err != nil {
			return nil, err
		}
		a := &e.AchievementUnlocked
		err := validation.ValidateStruct(a,
			validation.Field(&a.UserID, validation.Required),
			validation.Field(&a.Game, validation.Required),
		)
		return e, wrapInvalid(eventName, err)
	}
	return nil, &UnknownEventError{EventName: eventName}
}

func decode(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 || string(payload) == "null" {
		return fmt.Errorf("empty payload")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

func wrapInvalid(eventName string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("invalid %s payload: %w", eventName, err)
}
