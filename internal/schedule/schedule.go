// Package schedule holds the pure eligibility rules shared by the two
// dispatch engines: the calendar-offset gate of the date-driven stage engine
// and the operating-hours/cooldown gates of the recurring reminder scheduler.
package schedule

import (
	"math"
	"time"
	_ "time/tzdata"
)

// All operating-hours decisions are made in Israeli civil time regardless of
// where the process runs.
var jerusalem *time.Location

func init() {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		loc = time.FixedZone("IST", 2*60*60)
	}
	jerusalem = loc
}

// midnight truncates t to local midnight, keeping its location.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the whole-day difference between the event date and now,
// both truncated to midnight. Negative means the event already happened.
func DaysUntil(eventDate, now time.Time) int {
	diff := midnight(eventDate).Sub(midnight(now))
	return int(math.Floor(diff.Hours() / 24))
}

// StageDue applies the date gate for a stage: past events are skipped unless
// forced, and a stage is due from days_before down through the event date.
// The window never re-closes once open; log-based dedup, not this check, is
// what makes repeat runs idempotent.
func StageDue(diffDays, daysBefore int, force bool) bool {
	if diffDays < 0 && !force {
		return false
	}
	return diffDays <= daysBefore
}

// WithinOperatingHours reports whether outbound sends are allowed at t:
//
//	Sun-Thu:  09:00-20:59
//	Friday:   09:00-13:59 (Erev Shabbat cut-off at 14:00)
//	Saturday: 20:00-20:59 (post-Shabbat window only)
func WithinOperatingHours(t time.Time) bool {
	local := t.In(jerusalem)
	hour := local.Hour()

	switch local.Weekday() {
	case time.Saturday:
		return hour == 20
	case time.Friday:
		return hour >= 9 && hour <= 13
	default:
		return hour >= 9 && hour <= 20
	}
}

// CooledDown reports whether enough days have passed since the last send.
// A never-messaged invitation is always eligible.
func CooledDown(lastSentAt *time.Time, daysBetween int, now time.Time) bool {
	if lastSentAt == nil {
		return true
	}
	cooldown := time.Duration(daysBetween) * 24 * time.Hour
	return !now.Before(lastSentAt.Add(cooldown))
}

// HoursUntilEligible returns how many hours remain on an active cooldown,
// rounded up. Only meaningful when CooledDown returned false.
func HoursUntilEligible(lastSentAt time.Time, daysBetween int, now time.Time) int {
	cooldown := time.Duration(daysBetween) * 24 * time.Hour
	remaining := lastSentAt.Add(cooldown).Sub(now)
	return int(math.Ceil(remaining.Hours()))
}
