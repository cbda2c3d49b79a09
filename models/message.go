package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Message is a chat message exchanged inside a consultation
type Message struct {
	ID             string    `gorm:"primaryKey;column:id" json:"id"`
	ConsultationID string    `gorm:"column:consultation_id;not null;index" json:"consultationId"`
	SenderID       string    `gorm:"column:sender_id;not null" json:"senderId"`
	SenderName     string    `gorm:"column:sender_name" json:"senderName"`
	Content        string    `gorm:"column:content;type:text;not null" json:"content"`
	Priority       string    `gorm:"column:priority;not null;default:normal" json:"priority"`
	SentAt         time.Time `gorm:"column:sent_at;autoCreateTime;index" json:"sentAt"`
}

func (Message) TableName() string {
	return "message"
}

// OutgoingMessage is the payload for POST /messages.
type OutgoingMessage struct {
	ConsultationID string `json:"consultationId"`
	Content        string `json:"content"`
	Priority       string `json:"priority,omitempty"`
}

func (m OutgoingMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ConsultationID, validation.Required),
		validation.Field(&m.Content, validation.Required, validation.Length(1, 4000)),
		validation.Field(&m.Priority, validation.In(PriorityNormal, PriorityUrgent)),
	)
}

// ContactRequest is the payload for POST /getInTouch.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

func (r ContactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Message, validation.Required, validation.Length(1, 2000)),
	)
}
