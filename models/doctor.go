package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Doctor availability states
const (
	AvailabilityAvailable = "available"
	AvailabilityBusy      = "busy"
	AvailabilityOffline   = "offline"
)

var Availabilities = []interface{}{AvailabilityAvailable, AvailabilityBusy, AvailabilityOffline}

// Doctor model
type Doctor struct {
	ID                   string    `gorm:"primaryKey;column:id" json:"id"`
	Name                 string    `gorm:"column:name;not null;index" json:"name"`
	Specialization       string    `gorm:"column:specialization;not null" json:"specialization"`
	Email                string    `gorm:"column:email;unique" json:"email"`
	Phone                string    `gorm:"column:phone" json:"phone,omitempty"`
	Avatar               string    `gorm:"column:avatar" json:"avatar,omitempty"`
	Availability         string    `gorm:"column:availability;check:availability IN ('available', 'busy', 'offline');not null" json:"availability"`
	Rating               float64   `gorm:"column:rating;check:rating >= 0 AND rating <= 5" json:"rating"`
	ReviewCount          int       `gorm:"column:review_count;check:review_count >= 0" json:"reviewCount"`
	CurrentConsultations int       `gorm:"column:current_consultations;check:current_consultations >= 0" json:"currentConsultations"`
	TotalConsultations   int       `gorm:"column:total_consultations;check:total_consultations >= 0" json:"totalConsultations"`
	JoinedAt             time.Time `gorm:"column:joined_at;autoCreateTime" json:"joinedAt"`
}

func (Doctor) TableName() string {
	return "doctor"
}

func (d Doctor) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&d.Availability, validation.Required, validation.In(Availabilities...)),
		validation.Field(&d.Rating, validation.Min(0.0), validation.Max(5.0)),
		validation.Field(&d.ReviewCount, validation.Min(0)),
		validation.Field(&d.CurrentConsultations, validation.Min(0)),
		validation.Field(&d.TotalConsultations, validation.Min(0)),
	)
}

// DoctorPatch carries the fields of a partial doctor update.
type DoctorPatch struct {
	Availability         *string  `json:"availability,omitempty"`
	Rating               *float64 `json:"rating,omitempty"`
	ReviewCount          *int     `json:"reviewCount,omitempty"`
	CurrentConsultations *int     `json:"currentConsultations,omitempty"`
	TotalConsultations   *int     `json:"totalConsultations,omitempty"`
	Specialization       *string  `json:"specialization,omitempty"`
}

func (p DoctorPatch) Apply(d Doctor) Doctor {
	if p.Availability != nil {
		d.Availability = *p.Availability
	}
	if p.Rating != nil {
		d.Rating = *p.Rating
	}
	if p.ReviewCount != nil {
		d.ReviewCount = *p.ReviewCount
	}
	if p.CurrentConsultations != nil {
		d.CurrentConsultations = *p.CurrentConsultations
	}
	if p.TotalConsultations != nil {
		d.TotalConsultations = *p.TotalConsultations
	}
	if p.Specialization != nil {
		d.Specialization = *p.Specialization
	}
	return d
}
