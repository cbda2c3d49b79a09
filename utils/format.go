package utils

import (
	"fmt"
	"time"
)

const (
	dateLayout = "Jan 2, 2006, 3:04 PM"

	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
)

// now is swapped out in tests.
var now = time.Now

// FormatDate renders t as a human readable date and time in t's location.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatTimestamp renders a unix millisecond timestamp in the local zone.
func FormatTimestamp(unixMillis int64) string {
	return FormatDate(time.UnixMilli(unixMillis).Local())
}

// FormatRelativeTime describes how long ago t was, bucketed into seconds,
// minutes, hours or days. Future times are reported as "just now".
func FormatRelativeTime(t time.Time) string {
	elapsed := int64(now().Sub(t) / time.Second)
	switch {
	case elapsed <= 0:
		return "just now"
	case elapsed < secondsPerMinute:
		return plural(elapsed, "second") + " ago"
	case elapsed < secondsPerHour:
		return plural(elapsed/secondsPerMinute, "minute") + " ago"
	case elapsed < secondsPerDay:
		return plural(elapsed/secondsPerHour, "hour") + " ago"
	default:
		return plural(elapsed/secondsPerDay, "day") + " ago"
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatDuration renders a duration in minutes as "45 mins", "2h" or "1h 30m".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d mins", minutes)
	}
	hours, rest := minutes/60, minutes%60
	if rest == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, rest)
}

// FormatNumber abbreviates large counters: 1500 -> "1.5K", 2500000 -> "2.5M".
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

const defaultColor = "text-gray-600 bg-gray-100"

var priorityColors = map[string]string{
	"urgent": "text-red-600 bg-red-100",
	"high":   "text-orange-600 bg-orange-100",
	"normal": "text-green-600 bg-green-100",
}

var statusColors = map[string]string{
	"scheduled":   "text-blue-600 bg-blue-100",
	"in-progress": "text-yellow-600 bg-yellow-100",
	"completed":   "text-green-600 bg-green-100",
	"cancelled":   "text-red-600 bg-red-100",
}

var availabilityColors = map[string]string{
	"available": "text-green-600 bg-green-100",
	"busy":      "text-yellow-600 bg-yellow-100",
	"offline":   defaultColor,
}

func GetPriorityColor(priority string) string {
	return lookupColor(priorityColors, priority)
}

func GetStatusColor(status string) string {
	return lookupColor(statusColors, status)
}

func GetAvailabilityColor(availability string) string {
	return lookupColor(availabilityColors, availability)
}

func lookupColor(colors map[string]string, key string) string {
	if c, ok := colors[key]; ok {
		return c
	}
	return defaultColor
}
