package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiltersApplyAllCriteria(t *testing.T) {
	day := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	consultations := []Consultation{
		{ID: "1", Status: StatusScheduled, Type: ConsultationTypeVideo, Priority: PriorityNormal, ScheduledAt: day},
		{ID: "2", Status: StatusScheduled, Type: ConsultationTypeChat, Priority: PriorityNormal, ScheduledAt: day},
		{ID: "3", Status: StatusCompleted, Type: ConsultationTypeVideo, Priority: PriorityUrgent, ScheduledAt: day.Add(48 * time.Hour)},
		{ID: "4", Status: StatusScheduled, Type: ConsultationTypeVideo, Priority: PriorityHigh, ScheduledAt: day.Add(24 * time.Hour)},
	}

	got := ConsultationFilters{Status: StatusScheduled, Type: ConsultationTypeVideo}.Apply(consultations)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "4", got[1].ID)

	to := day.Add(24 * time.Hour)
	got = ConsultationFilters{From: &day, To: &to}.Apply(consultations)
	assert.Len(t, got, 3)

	assert.Len(t, ConsultationFilters{}.Apply(consultations), 4)
	assert.Empty(t, ConsultationFilters{Status: StatusCancelled}.Apply(consultations))
}

func TestFiltersQueryRoundTrip(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f := ConsultationFilters{Status: StatusInProgress, Topic: "stress", DoctorID: "d1", From: &from}
	assert.False(t, f.IsZero())
	assert.True(t, ConsultationFilters{}.IsZero())

	q := f.Query()
	assert.Equal(t, "in-progress", q.Get("status"))
	assert.Empty(t, q.Get("type"))

	parsed, err := ParseConsultationFilters(q)
	require.NoError(t, err)
	assert.Equal(t, f.Status, parsed.Status)
	assert.Equal(t, f.DoctorID, parsed.DoctorID)
	require.NotNil(t, parsed.From)
	assert.True(t, from.Equal(*parsed.From))
	assert.Nil(t, parsed.To)

	q.Set("to", "yesterday")
	_, err = ParseConsultationFilters(q)
	assert.Error(t, err)
}

func TestConsultationValidate(t *testing.T) {
	c := Consultation{
		UserID: "u", DoctorID: "d", Type: ConsultationTypeChat, Topic: "stress",
		Status: StatusScheduled, Priority: PriorityNormal, ScheduledAt: time.Now(),
	}
	require.NoError(t, c.Validate())

	now := time.Now()
	withCompletion := c
	withCompletion.CompletedAt = &now
	assert.ErrorIs(t, withCompletion.Validate(), ErrCompletedAtWithoutCompletion)

	withStart := c
	withStart.StartedAt = &now
	assert.ErrorIs(t, withStart.Validate(), ErrStartedAtBeforeStart)

	bad := c
	bad.Topic = "gossip"
	assert.Error(t, bad.Validate())
}

func TestConsultationPatchApply(t *testing.T) {
	c := Consultation{ID: "1", Status: StatusScheduled, Priority: PriorityNormal, Topic: "stress"}
	status := StatusInProgress
	got := ConsultationPatch{Status: &status}.Apply(c)
	assert.Equal(t, StatusInProgress, got.Status)
	assert.Equal(t, PriorityNormal, got.Priority)
	assert.Equal(t, "stress", got.Topic)
	assert.Equal(t, StatusScheduled, c.Status)
}
