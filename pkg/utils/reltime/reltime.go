// Package reltime renders the elapsed time between two instants as a coarse
// phrase without "ago"/"in" framing, e.g. "a day", "3 months", "2 years".
//
// The ladder is observable in every badge served, so its thresholds and
// rounding must stay fixed:
//
//	elapsed            rendered as
//	< 45 seconds       "a few seconds"
//	<= 1 minute        "a minute"
//	< 45 minutes       "N minutes"
//	<= 1 hour          "an hour"
//	< 22 hours         "N hours"
//	<= 1 day           "a day"
//	< 26 days          "N days"
//	<= 1 month         "a month"
//	< 11 months        "N months"
//	<= 1 year          "a year"
//	otherwise          "N years"
//
// Each unit value is rounded half up before comparison. Whole calendar
// months between the instants are converted to days with the mean
// Gregorian month length (146097/4800 days) and the remainder is kept as an
// exact duration.
package reltime

import (
	"fmt"
	"math"
	"time"
)

const (
	thresholdSeconds = 45
	thresholdMinutes = 45
	thresholdHours   = 22
	thresholdDays    = 26
	thresholdMonths  = 11

	daysPer400Years   = 146097.0
	monthsPer400Years = 4800.0

	msPerSecond = 1e3
	msPerMinute = 6e4
	msPerHour   = 36e5
	msPerDay    = 864e5
)

// Since renders the time elapsed from then to now. A then after now is
// treated as no elapsed time.
func Since(then, now time.Time) string {
	if then.After(now) {
		return Humanize(0, 0)
	}

	months, remainder := monthsDiff(then.UTC(), now.UTC())
	return Humanize(months, remainder)
}

// Humanize renders a duration expressed as whole calendar months plus an
// exact remainder.
func Humanize(months int, remainder time.Duration) string {
	ms := float64(remainder.Milliseconds())
	days := math.Floor(monthsToDays(float64(months)) + 0.5)

	seconds := round(days*86400 + ms/msPerSecond)
	minutes := round(days*1440 + ms/msPerMinute)
	hours := round(days*24 + ms/msPerHour)
	wholeDays := round(days + ms/msPerDay)
	rawMonths := float64(months) + daysToMonths(ms/msPerDay)
	wholeMonths := round(rawMonths)
	years := round(rawMonths / 12)

	switch {
	case seconds < thresholdSeconds:
		return "a few seconds"
	case minutes <= 1:
		return "a minute"
	case minutes < thresholdMinutes:
		return fmt.Sprintf("%d minutes", minutes)
	case hours <= 1:
		return "an hour"
	case hours < thresholdHours:
		return fmt.Sprintf("%d hours", hours)
	case wholeDays <= 1:
		return "a day"
	case wholeDays < thresholdDays:
		return fmt.Sprintf("%d days", wholeDays)
	case wholeMonths <= 1:
		return "a month"
	case wholeMonths < thresholdMonths:
		return fmt.Sprintf("%d months", wholeMonths)
	case years <= 1:
		return "a year"
	default:
		return fmt.Sprintf("%d years", years)
	}
}

// monthsDiff returns the number of whole calendar months from base to other
// (base <= other) and the remaining duration.
func monthsDiff(base, other time.Time) (int, time.Duration) {
	months := int(other.Month()-base.Month()) + (other.Year()-base.Year())*12
	if addMonths(base, months).After(other) {
		months--
	}

	return months, other.Sub(addMonths(base, months))
}

// addMonths adds n calendar months to t, clamping the day of month to the
// last day of the resulting month (Jan 31 + 1 month = Feb 28).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}

	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func monthsToDays(months float64) float64 {
	return months * daysPer400Years / monthsPer400Years
}

func daysToMonths(days float64) float64 {
	return days * monthsPer400Years / daysPer400Years
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
