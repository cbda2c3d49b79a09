package models

// Real-time event names pushed to the admin dashboard.
const (
	EventConnect             = "connect"
	EventDisconnect          = "disconnect"
	EventConsultationNew     = "consultation:new"
	EventConsultationUpdated = "consultation:updated"
	EventMentalHealthAlert   = "alert:mental-health"
	EventUserRegistered      = "user:registered"
	EventDoctorAvailability  = "doctor:availability"
	EventMessageNew          = "message:new"
	EventGameAchievement     = "game:achievement"
)

// ConsultationUpdate is the payload of consultation:updated.
type ConsultationUpdate struct {
	ID       string `json:"id"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// MentalHealthAlert is the payload of alert:mental-health.
type MentalHealthAlert struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	RiskLevel string `json:"riskLevel"`
	Message   string `json:"message,omitempty"`
}

// UserRegistration is the payload of user:registered.
type UserRegistration struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AvailabilityChange is the payload of doctor:availability.
type AvailabilityChange struct {
	ID           string `json:"id"`
	DoctorName   string `json:"doctorName,omitempty"`
	Availability string `json:"availability"`
}

// AchievementUnlocked is the payload of game:achievement.
type AchievementUnlocked struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Game     string `json:"game"`
	Title    string `json:"title"`
}
