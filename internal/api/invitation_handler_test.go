package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eyalfuks51/wedding-Eyal/internal/api/dto"
	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
)

type fakeInvitationService struct {
	updated *domain.Invitation
}

func (f *fakeInvitationService) ListForEvent(_ context.Context, _ string) ([]domain.Invitation, error) {
	return nil, nil
}

func (f *fakeInvitationService) Create(_ context.Context, _ string, _ *domain.Invitation) error {
	return nil
}

// Update refreshes the counter fields the way the store's RETURNING clause
// does for a row that already received reminders.
func (f *fakeInvitationService) Update(_ context.Context, inv *domain.Invitation) error {
	count := 2
	sentAt := time.Date(2026, time.January, 8, 18, 0, 0, 0, time.UTC)
	inv.MessagesSentCount = &count
	inv.LastMessageSentAt = &sentAt
	f.updated = inv
	return nil
}

func (f *fakeInvitationService) Delete(_ context.Context, _ string) error { return nil }

func TestUpdateInvitationResponseCarriesCounters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeInvitationService{}
	h := &Handler{invitationService: svc}
	r := gin.New()
	r.PATCH("/api/invitations/:id", h.updateInvitationHandler)

	body := `{"group_name":"Cohen Family","phone_numbers":["0541111111"],"invited_pax":2,"rsvp_status":"pending","is_automated":true}`
	req := httptest.NewRequest(http.MethodPatch, "/api/invitations/inv1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if svc.updated == nil || svc.updated.ID != "inv1" {
		t.Fatalf("service did not receive the invitation update")
	}

	var res dto.InvitationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.MessagesSentCount != 2 {
		t.Errorf("messages_sent_count = %d, want the stored value 2", res.MessagesSentCount)
	}
	if res.LastMessageSentAt == nil {
		t.Error("last_message_sent_at missing from the response")
	}
}
