package dto

// RunRequest triggers the date-driven stage engine. force_run bypasses the
// past-events guard.
type RunRequest struct {
	ForceRun bool `json:"force_run"`
}

// ReminderRunRequest triggers the cooldown scheduler. force_run bypasses the
// operating-hours gate and cooldowns; event_id narrows the run.
type ReminderRunRequest struct {
	ForceRun bool   `json:"force_run"`
	EventID  string `json:"event_id"`
}

type JobResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
