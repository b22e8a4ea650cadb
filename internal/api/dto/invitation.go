package dto

import (
	"time"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
)

type CreateInvitationRequest struct {
	GroupName    string   `json:"group_name" binding:"required"`
	PhoneNumbers []string `json:"phone_numbers" binding:"required,min=1"`
	InvitedPax   int      `json:"invited_pax" binding:"required,min=1"`
	IsAutomated  *bool    `json:"is_automated"`
}

type UpdateInvitationRequest struct {
	GroupName    string   `json:"group_name" binding:"required"`
	PhoneNumbers []string `json:"phone_numbers" binding:"required,min=1"`
	InvitedPax   int      `json:"invited_pax" binding:"required,min=1"`
	RSVPStatus   string   `json:"rsvp_status" binding:"required,oneof=pending attending declined"`
	IsAutomated  bool     `json:"is_automated"`
}

type RSVPRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Attending    *bool  `json:"attending" binding:"required"`
	GuestsCount  int    `json:"guests_count" binding:"min=0"`
	NeedsParking bool   `json:"needs_parking"`
}

type InvitationResponse struct {
	ID                string     `json:"id"`
	EventID           string     `json:"event_id"`
	GroupName         string     `json:"group_name"`
	PhoneNumbers      []string   `json:"phone_numbers"`
	InvitedPax        int        `json:"invited_pax"`
	RSVPStatus        string     `json:"rsvp_status"`
	IsAutomated       bool       `json:"is_automated"`
	MessagesSentCount int        `json:"messages_sent_count"`
	LastMessageSentAt *time.Time `json:"last_message_sent_at,omitempty"`
}

type InvitationsResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
	Total       int                  `json:"total"`
}

func ToInvitationResponse(inv domain.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:                inv.ID,
		EventID:           inv.EventID,
		GroupName:         inv.GroupName,
		PhoneNumbers:      inv.PhoneNumbers,
		InvitedPax:        inv.InvitedPax,
		RSVPStatus:        string(inv.RSVPStatus),
		IsAutomated:       inv.IsAutomated,
		MessagesSentCount: inv.SentCount(),
		LastMessageSentAt: inv.LastMessageSentAt,
	}
}

func ToInvitationResponseList(invitations []domain.Invitation) InvitationsResponse {
	responseList := make([]InvitationResponse, len(invitations))
	for i, inv := range invitations {
		responseList[i] = ToInvitationResponse(inv)
	}
	return InvitationsResponse{Invitations: responseList, Total: len(responseList)}
}
