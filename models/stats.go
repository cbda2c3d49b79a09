package models

// DashboardStats is the aggregate snapshot shown on the admin dashboard.
type DashboardStats struct {
	TotalUsers             int64   `json:"totalUsers"`
	ActiveUsers            int64   `json:"activeUsers"`
	TotalConsultations     int64   `json:"totalConsultations"`
	ActiveConsultations    int64   `json:"activeConsultations"`
	CompletedToday         int64   `json:"completedToday"`
	PendingConsultations   int64   `json:"pendingConsultations"`
	AvailableDoctors       int64   `json:"availableDoctors"`
	TotalDoctors           int64   `json:"totalDoctors"`
	MentalHealthAlerts     int64   `json:"mentalHealthAlerts"`
	AverageRating          float64 `json:"averageRating"`
	AverageResponseMinutes float64 `json:"averageResponseMinutes"`
}

// GamePopularity is one row of the most played games list.
type GamePopularity struct {
	Name  string `json:"name"`
	Plays int64  `json:"plays"`
}

// HealthGameStats aggregates health game usage.
type HealthGameStats struct {
	TotalPlays           int64            `json:"totalPlays"`
	UniquePlayers        int64            `json:"uniquePlayers"`
	AverageScore         float64          `json:"averageScore"`
	CompletionRate       float64          `json:"completionRate"`
	AchievementsUnlocked int64            `json:"achievementsUnlocked"`
	TopGames             []GamePopularity `json:"topGames"`
}

// EngagementPoint is one day of the engagement series.
type EngagementPoint struct {
	Date          string `json:"date"`
	ActiveUsers   int64  `json:"activeUsers"`
	Consultations int64  `json:"consultations"`
	Messages      int64  `json:"messages"`
}
