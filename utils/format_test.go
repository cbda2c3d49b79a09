package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		0:         "0",
		999:       "999",
		1000:      "1.0K",
		1500:      "1.5K",
		2500000:   "2.5M",
		999999999: "1000.0M",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in), "FormatNumber(%d)", in)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 mins", FormatDuration(45))
	assert.Equal(t, "1h 30m", FormatDuration(90))
	assert.Equal(t, "2h", FormatDuration(120))
	assert.Equal(t, "0 mins", FormatDuration(0))
}

func TestFormatRelativeTime(t *testing.T) {
	fixed := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	orig := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = orig })

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{-time.Minute, "just now"},
		{0, "just now"},
		{time.Second, "1 second ago"},
		{59 * time.Second, "59 seconds ago"},
		{60 * time.Second, "1 minute ago"},
		{59 * time.Minute, "59 minutes ago"},
		{time.Hour, "1 hour ago"},
		{23 * time.Hour, "23 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRelativeTime(fixed.Add(-tt.ago)), "ago=%s", tt.ago)
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, 1, 5, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "Jan 5, 2024, 3:04 PM", FormatDate(ts))
	assert.Equal(t, FormatDate(ts.Local()), FormatTimestamp(ts.UnixMilli()))
}

func TestColorLookups(t *testing.T) {
	assert.Equal(t, "text-red-600 bg-red-100", GetPriorityColor("urgent"))
	assert.Equal(t, "text-yellow-600 bg-yellow-100", GetStatusColor("in-progress"))
	assert.Equal(t, "text-green-600 bg-green-100", GetAvailabilityColor("available"))

	assert.Equal(t, defaultColor, GetPriorityColor("whatever"))
	assert.Equal(t, defaultColor, GetStatusColor(""))
	assert.Equal(t, defaultColor, GetAvailabilityColor("offline"))
}
