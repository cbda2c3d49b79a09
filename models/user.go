package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// User roles
const (
	RoleUser   = "user"
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

// Mental health risk levels
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

var RiskLevels = []interface{}{RiskLow, RiskMedium, RiskHigh}

// User represents a registered member of the platform
type User struct {
	ID                string    `gorm:"primaryKey;column:id" json:"id"`
	Name              string    `gorm:"column:name;not null" json:"name"`
	Email             string    `gorm:"size:255;column:email;not null;unique;index" json:"email"`
	Phone             string    `gorm:"column:phone" json:"phone,omitempty"`
	Age               int       `gorm:"column:age" json:"age"`
	Role              string    `gorm:"column:role;not null;default:user" json:"role"`
	Password          string    `gorm:"size:255;column:password;not null" json:"-"`
	JoinedAt          time.Time `gorm:"column:joined_at;autoCreateTime" json:"joinedAt"`
	LastActive        time.Time `gorm:"column:last_active" json:"lastActive"`
	ConsultationCount int       `gorm:"column:consultation_count" json:"consultationCount"`
	GamesPlayed       int       `gorm:"column:games_played" json:"gamesPlayed"`
	AchievementCount  int       `gorm:"column:achievement_count" json:"achievementCount"`
	MentalHealthRisk  *string   `gorm:"column:mental_health_risk" json:"mentalHealthRisk,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserPatch carries the fields of a partial profile update.
type UserPatch struct {
	Name             *string `json:"name,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Age              *int    `json:"age,omitempty"`
	MentalHealthRisk *string `json:"mentalHealthRisk,omitempty"`
}

func (p UserPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(2, 50)),
		validation.Field(&p.Phone, validation.NilOrNotEmpty),
		validation.Field(&p.Age, validation.Min(13), validation.Max(25)),
		validation.Field(&p.MentalHealthRisk, validation.In(RiskLevels...)),
	)
}

func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.MentalHealthRisk != nil {
		risk := *p.MentalHealthRisk
		u.MentalHealthRisk = &risk
	}
	return u
}

// Registration is the payload for creating a new user account.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Age      int    `json:"age"`
	Password string `json:"password"`
}

func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Age, validation.Required, validation.Min(13), validation.Max(25)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 0)),
	)
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by a successful login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
