package schedule

import (
	"testing"
	"time"
)

func jt(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, jerusalem)
}

func TestWithinOperatingHours(t *testing.T) {
	// 2026-01-10 is a Saturday.
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"saturday afternoon blocked", jt(2026, time.January, 10, 15, 0), false},
		{"saturday 19:59 still blocked", jt(2026, time.January, 10, 19, 59), false},
		{"saturday 20:30 allowed", jt(2026, time.January, 10, 20, 30), true},
		{"saturday 21:00 blocked again", jt(2026, time.January, 10, 21, 0), false},
		{"friday morning allowed", jt(2026, time.January, 9, 9, 0), true},
		{"friday 13:59 allowed", jt(2026, time.January, 9, 13, 59), true},
		{"friday 14:00 blocked", jt(2026, time.January, 9, 14, 0), false},
		{"sunday 08:59 too early", jt(2026, time.January, 11, 8, 59), false},
		{"sunday 09:00 opens", jt(2026, time.January, 11, 9, 0), true},
		{"thursday 20:59 still open", jt(2026, time.January, 8, 20, 59), true},
		{"thursday 21:00 closes", jt(2026, time.January, 8, 21, 0), false},
		{"monday midnight blocked", jt(2026, time.January, 12, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinOperatingHours(tt.at); got != tt.want {
				t.Errorf("WithinOperatingHours(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestWithinOperatingHoursConvertsZone(t *testing.T) {
	// 13:00 UTC on a January Saturday is 15:00 in Jerusalem: blocked.
	utc := time.Date(2026, time.January, 10, 13, 0, 0, 0, time.UTC)
	if WithinOperatingHours(utc) {
		t.Error("UTC time was not converted to Jerusalem before the check")
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, time.March, 10, 17, 45, 0, 0, time.UTC)

	tests := []struct {
		name      string
		eventDate time.Time
		want      int
	}{
		{"same day", time.Date(2026, time.March, 10, 1, 0, 0, 0, time.UTC), 0},
		{"tomorrow early morning", time.Date(2026, time.March, 11, 0, 30, 0, 0, time.UTC), 1},
		{"yesterday", time.Date(2026, time.March, 9, 23, 0, 0, 0, time.UTC), -1},
		{"a week out", time.Date(2026, time.March, 17, 12, 0, 0, 0, time.UTC), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntil(tt.eventDate, now); got != tt.want {
				t.Errorf("DaysUntil = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStageDue(t *testing.T) {
	tests := []struct {
		name       string
		diffDays   int
		daysBefore int
		force      bool
		want       bool
	}{
		{"window not yet reached", 10, 7, false, false},
		{"window opens at threshold", 7, 7, false, true},
		{"stays due below threshold", 3, 7, false, true},
		{"due on event day", 0, 7, false, true},
		{"past event skipped", -1, 7, false, false},
		{"past event forced", -1, 7, true, true},
	}

	// The window never re-closes once reached; only the message-log dedup
	// keeps repeat runs from re-sending.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StageDue(tt.diffDays, tt.daysBefore, tt.force); got != tt.want {
				t.Errorf("StageDue(%d, %d, %v) = %v, want %v", tt.diffDays, tt.daysBefore, tt.force, got, tt.want)
			}
		})
	}
}

func TestCooledDown(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	twoDaysAgo := now.Add(-48 * time.Hour)
	threeDaysAgo := now.Add(-72 * time.Hour)
	fourDaysAgo := now.Add(-96 * time.Hour)

	tests := []struct {
		name     string
		lastSent *time.Time
		want     bool
	}{
		{"never messaged", nil, true},
		{"two days into a three day cooldown", &twoDaysAgo, false},
		{"exactly three days", &threeDaysAgo, true},
		{"four days", &fourDaysAgo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CooledDown(tt.lastSent, 3, now); got != tt.want {
				t.Errorf("CooledDown = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHoursUntilEligible(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	lastSent := now.Add(-48 * time.Hour)

	if got := HoursUntilEligible(lastSent, 3, now); got != 24 {
		t.Errorf("HoursUntilEligible = %d, want 24", got)
	}
}

func TestMidnight(t *testing.T) {
	at := time.Date(2026, time.March, 10, 23, 59, 59, 123, time.UTC)
	got := midnight(at)
	want := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("midnight = %v, want %v", got, want)
	}
}
