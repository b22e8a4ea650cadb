package domain

// SkipReason tags a whole run that was gated off before doing any work.
// Per-invitation skips are plain counters in the summaries.
type SkipReason string

const SkipOutsideHours SkipReason = "outside_operating_hours"

// StageResult is the terminal outcome of one stage in a date-driven run. A
// stage that blew up carries Error and zero counters; sibling stages are
// unaffected.
type StageResult struct {
	Stage   string `json:"stage"`
	EventID string `json:"event_id"`
	Queued  int    `json:"queued"`
	Skipped int    `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

// AutomationSummary is the date-driven engine's run report.
type AutomationSummary struct {
	Processed   int           `json:"processed"`
	TotalQueued int           `json:"total_queued"`
	Stages      []StageResult `json:"stages"`
}

// EventSummary is the per-event tally of a cooldown-scheduler run.
type EventSummary struct {
	Dispatched int `json:"dispatched"`
	Skipped    int `json:"skipped"`
	Errors     int `json:"errors"`
}

// ReminderSummary is the cooldown scheduler's run report, keyed by event slug.
// Skipped is set (and Summary empty) when the whole run was gated off.
type ReminderSummary struct {
	Success bool                    `json:"success"`
	Skipped SkipReason              `json:"skipped,omitempty"`
	Summary map[string]EventSummary `json:"summary,omitempty"`
}
