package domain

import "time"

type LogStatus string

const (
	LogPending LogStatus = "pending"
	LogSent    LogStatus = "sent"
	LogFailed  LogStatus = "failed"
)

// MessageLog is one dispatch attempt for one invitation×phone×stage. Rows are
// append-only from the engine's point of view; the log is the sole source of
// truth for duplicate suppression in the date-driven engine.
type MessageLog struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	InvitationID string    `json:"invitation_id"`
	Phone        string    `json:"phone"`
	MessageType  string    `json:"message_type"`
	Content      string    `json:"content"`
	Status       LogStatus `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// LogKey is the dedup key preventing a stage from reaching the same
// recipient twice.
type LogKey struct {
	InvitationID string
	Phone        string
}

func (m MessageLog) Key() LogKey {
	return LogKey{InvitationID: m.InvitationID, Phone: m.Phone}
}
