package domain

import "time"

type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPAttending RSVPStatus = "attending"
	RSVPDeclined  RSVPStatus = "declined"
)

// Invitation covers a guest party (one or more people, one or more phones).
type Invitation struct {
	ID           string     `json:"id"`
	EventID      string     `json:"event_id"`
	GroupName    string     `json:"group_name"`
	PhoneNumbers []string   `json:"phone_numbers"`
	InvitedPax   int        `json:"invited_pax"`
	RSVPStatus   RSVPStatus `json:"rsvp_status"`
	IsAutomated  bool       `json:"is_automated"`

	// MessagesSentCount is NULL on fresh rows; use SentCount for reads.
	MessagesSentCount *int       `json:"messages_sent_count"`
	LastMessageSentAt *time.Time `json:"last_message_sent_at"`

	CreatedAt time.Time `json:"created_at"`
}

// SentCount treats a NULL counter as zero.
func (i Invitation) SentCount() int {
	if i.MessagesSentCount == nil {
		return 0
	}
	return *i.MessagesSentCount
}

// RSVPSubmission is a guest-facing RSVP form payload.
type RSVPSubmission struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Attending    bool   `json:"attending"`
	GuestsCount  int    `json:"guests_count"`
	NeedsParking bool   `json:"needs_parking"`
}
