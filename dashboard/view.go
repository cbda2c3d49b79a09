package dashboard

import (
	"YouthHealth/models"
	"YouthHealth/utils"
	"fmt"
)

// ConsultationRow is a display-ready consultation.
type ConsultationRow struct {
	ID            string
	Title         string
	ScheduledAt   string
	Status        string
	StatusClass   string
	Priority      string
	PriorityClass string
	Duration      string
}

// DoctorRow is a display-ready doctor.
type DoctorRow struct {
	ID                string
	Name              string
	Availability      string
	AvailabilityClass string
	Rating            string
	Consultations     string
}

// ActivityRow is a display-ready feed entry.
type ActivityRow struct {
	ID            string
	Description   string
	When          string
	PriorityClass string
}

func consultationRow(c models.Consultation) ConsultationRow {
	row := ConsultationRow{
		ID:            c.ID,
		Title:         fmt.Sprintf("%s with %s (%s, %s)", c.UserName, c.DoctorName, c.Type, c.Topic),
		ScheduledAt:   utils.FormatDate(c.ScheduledAt),
		Status:        c.Status,
		StatusClass:   utils.GetStatusColor(c.Status),
		Priority:      c.Priority,
		PriorityClass: utils.GetPriorityColor(c.Priority),
	}
	if c.Duration != nil {
		row.Duration = utils.FormatDuration(*c.Duration)
	}
	return row
}

// ConsultationRows renders the admin store's consultations.
func (d *Dashboard) ConsultationRows() []ConsultationRow {
	consultations := d.admin.Consultations()
	rows := make([]ConsultationRow, 0, len(consultations))
	for _, c := range consultations {
		rows = append(rows, consultationRow(c))
	}
	return rows
}

// DoctorRows renders the admin store's doctors.
func (d *Dashboard) DoctorRows() []DoctorRow {
	doctors := d.admin.Doctors()
	rows := make([]DoctorRow, 0, len(doctors))
	for _, doc := range doctors {
		rows = append(rows, DoctorRow{
			ID:                doc.ID,
			Name:              doc.Name,
			Availability:      doc.Availability,
			AvailabilityClass: utils.GetAvailabilityColor(doc.Availability),
			Rating:            fmt.Sprintf("%.1f (%s reviews)", doc.Rating, utils.FormatNumber(int64(doc.ReviewCount))),
			Consultations:     fmt.Sprintf("%d active, %s total", doc.CurrentConsultations, utils.FormatNumber(int64(doc.TotalConsultations))),
		})
	}
	return rows
}

// ActivityRows renders the recent activity feed.
func (d *Dashboard) ActivityRows() []ActivityRow {
	activity := d.admin.RecentActivity()
	rows := make([]ActivityRow, 0, len(activity))
	for _, a := range activity {
		row := ActivityRow{
			ID:          a.ID,
			Description: a.Description,
			When:        utils.FormatRelativeTime(a.Timestamp),
		}
		if a.Priority != nil {
			row.PriorityClass = utils.GetPriorityColor(*a.Priority)
		}
		rows = append(rows, row)
	}
	return rows
}

// Summary renders the headline numbers, one line each.
func (d *Dashboard) Summary() []string {
	s := d.admin.Stats()
	lines := []string{
		fmt.Sprintf("Users: %s total, %s active", utils.FormatNumber(s.TotalUsers), utils.FormatNumber(s.ActiveUsers)),
		fmt.Sprintf("Consultations: %s total, %s active, %s pending, %s completed today",
			utils.FormatNumber(s.TotalConsultations), utils.FormatNumber(s.ActiveConsultations),
			utils.FormatNumber(s.PendingConsultations), utils.FormatNumber(s.CompletedToday)),
		fmt.Sprintf("Doctors: %d of %d available, average rating %.1f", s.AvailableDoctors, s.TotalDoctors, s.AverageRating),
		fmt.Sprintf("Average response: %s", utils.FormatDuration(int(s.AverageResponseMinutes+0.5))),
		fmt.Sprintf("Mental health alerts: %s", utils.FormatNumber(s.MentalHealthAlerts)),
	}
	if d.analytics != nil {
		g := d.analytics.HealthGameStats()
		lines = append(lines, fmt.Sprintf("Health games: %s plays by %s players, %.0f%% completed",
			utils.FormatNumber(g.TotalPlays), utils.FormatNumber(g.UniquePlayers), g.CompletionRate))
	}
	if msg := d.admin.Error(); msg != "" {
		lines = append(lines, "Last refresh failed: "+msg)
	}
	return lines
}
