package models

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Consultation types
const (
	ConsultationTypeVideo  = "video"
	ConsultationTypeChat   = "chat"
	ConsultationTypeUrgent = "urgent"
)

// Consultation statuses
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Priorities shared by consultations, activities and messages
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var (
	ConsultationTypes    = []interface{}{ConsultationTypeVideo, ConsultationTypeChat, ConsultationTypeUrgent}
	ConsultationStatuses = []interface{}{StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled}
	ConsultationTopics   = []interface{}{"anxiety", "depression", "stress", "relationships", "sexual-health", "substance-use", "general"}
	Priorities           = []interface{}{PriorityNormal, PriorityHigh, PriorityUrgent}
)

var (
	ErrCompletedAtWithoutCompletion = errors.New("completedAt requires status completed")
	ErrStartedAtBeforeStart         = errors.New("startedAt requires status in-progress or completed")
)

// Consultation model
type Consultation struct {
	ID          string     `gorm:"primaryKey;column:id" json:"id"`
	UserID      string     `gorm:"column:user_id;not null;index" json:"userId"`
	DoctorID    string     `gorm:"column:doctor_id;not null;index" json:"doctorId"`
	UserName    string     `gorm:"column:user_name" json:"userName"`
	DoctorName  string     `gorm:"column:doctor_name" json:"doctorName"`
	UserAge     int        `gorm:"column:user_age" json:"userAge,omitempty"`
	Type        string     `gorm:"column:type;check:type IN ('video', 'chat', 'urgent');not null" json:"type"`
	Topic       string     `gorm:"column:topic;not null;index" json:"topic"`
	Status      string     `gorm:"column:status;check:status IN ('scheduled', 'in-progress', 'completed', 'cancelled');not null;index" json:"status"`
	Priority    string     `gorm:"column:priority;check:priority IN ('normal', 'high', 'urgent');not null" json:"priority"`
	ScheduledAt time.Time  `gorm:"column:scheduled_at;not null;index" json:"scheduledAt"`
	StartedAt   *time.Time `gorm:"column:started_at" json:"startedAt,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`
	Duration    *int       `gorm:"column:duration" json:"duration,omitempty"`
	Notes       *string    `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Consultation) TableName() string {
	return "consultation"
}

// Validate checks enum fields and the lifecycle timestamps against the status.
func (c Consultation) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.UserID, validation.Required),
		validation.Field(&c.DoctorID, validation.Required),
		validation.Field(&c.Type, validation.Required, validation.In(ConsultationTypes...)),
		validation.Field(&c.Topic, validation.Required, validation.In(ConsultationTopics...)),
		validation.Field(&c.Status, validation.Required, validation.In(ConsultationStatuses...)),
		validation.Field(&c.Priority, validation.Required, validation.In(Priorities...)),
		validation.Field(&c.ScheduledAt, validation.Required),
	)
	if err != nil {
		return err
	}
	if c.CompletedAt != nil && c.Status != StatusCompleted {
		return ErrCompletedAtWithoutCompletion
	}
	if c.StartedAt != nil && c.Status != StatusInProgress && c.Status != StatusCompleted {
		return ErrStartedAtBeforeStart
	}
	return nil
}

// ConsultationPatch carries the fields of a partial consultation update.
// Nil fields are left untouched.
type ConsultationPatch struct {
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DoctorID    *string    `json:"doctorId,omitempty"`
	DoctorName  *string    `json:"doctorName,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Duration    *int       `json:"duration,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// Apply returns a copy of c with every non-nil patch field merged in.
func (p ConsultationPatch) Apply(c Consultation) Consultation {
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Priority != nil {
		c.Priority = *p.Priority
	}
	if p.DoctorID != nil {
		c.DoctorID = *p.DoctorID
	}
	if p.DoctorName != nil {
		c.DoctorName = *p.DoctorName
	}
	if p.ScheduledAt != nil {
		c.ScheduledAt = *p.ScheduledAt
	}
	if p.StartedAt != nil {
		c.StartedAt = p.StartedAt
	}
	if p.CompletedAt != nil {
		c.CompletedAt = p.CompletedAt
	}
	if p.Duration != nil {
		c.Duration = p.Duration
	}
	if p.Notes != nil {
		c.Notes = p.Notes
	}
	return c
}

// BookingRequest is the payload for booking a new consultation.
type BookingRequest struct {
	DoctorID    string    `json:"doctorId"`
	Type        string    `json:"type"`
	Topic       string    `json:"topic"`
	Priority    string    `json:"priority"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Notes       string    `json:"notes,omitempty"`
}

func (r BookingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DoctorID, validation.Required),
		validation.Field(&r.Type, validation.Required, validation.In(ConsultationTypes...)),
		validation.Field(&r.Topic, validation.Required, validation.In(ConsultationTopics...)),
		validation.Field(&r.Priority, validation.In(Priorities...)),
		validation.Field(&r.ScheduledAt, validation.Required),
	)
}
