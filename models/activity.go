package models

import "time"

// Activity kinds
const (
	ActivityConsultation = "consultation"
	ActivityRegistration = "registration"
	ActivityAlert        = "alert"
	ActivityAchievement  = "achievement"
	ActivityMessage      = "message"
)

var ActivityTypes = []interface{}{ActivityConsultation, ActivityRegistration, ActivityAlert, ActivityAchievement, ActivityMessage}

// Activity is a single entry of the admin activity feed
type Activity struct {
	ID          string    `gorm:"primaryKey;column:id" json:"id"`
	Type        string    `gorm:"column:type;check:type IN ('consultation', 'registration', 'alert', 'achievement', 'message');not null;index" json:"type"`
	Timestamp   time.Time `gorm:"column:timestamp;not null;index" json:"timestamp"`
	Description string    `gorm:"column:description;type:text;not null" json:"description"`
	Priority    *string   `gorm:"column:priority" json:"priority,omitempty"`
	UserID      *string   `gorm:"column:user_id;index" json:"userId,omitempty"`
}

func (Activity) TableName() string {
	return "activity"
}

// Achievement is the payload recorded when a user unlocks a health game achievement.
type Achievement struct {
	UserID string `json:"userId"`
	Game   string `json:"game"`
	Title  string `json:"title"`
	Score  int    `json:"score"`
}

// GamePlay is one finished health game session
type GamePlay struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;index" json:"userId"`
	Game      string    `gorm:"column:game;not null;index" json:"game"`
	Score     int       `gorm:"column:score" json:"score"`
	Completed bool      `gorm:"column:completed" json:"completed"`
	PlayedAt  time.Time `gorm:"column:played_at;autoCreateTime;index" json:"playedAt"`
}

func (GamePlay) TableName() string {
	return "game_play"
}
