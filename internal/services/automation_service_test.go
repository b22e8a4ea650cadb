package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testContent() domain.ContentConfig {
	return domain.ContentConfig{
		CoupleNames: "Anat & David",
		WazeLink:    "https://waze.com/ul/venue",
		WhatsappTemplates: map[string]domain.TemplateVariant{
			"icebreaker": {
				Singular: "Hi {{name}}, {{couple_names}} invite you! {{link}}",
				Plural:   "Hi {{name}}, you are all invited by {{couple_names}}! {{link}}",
			},
		},
	}
}

func testStage(eventID string, daysBefore int, eventDate time.Time) domain.StageConfig {
	return domain.StageConfig{
		ID:           "setting-" + eventID,
		EventID:      eventID,
		StageName:    "icebreaker",
		DaysBefore:   daysBefore,
		TargetStatus: domain.RSVPPending,
		EventDate:    eventDate,
		EventSlug:    "anat-david",
		Content:      testContent(),
	}
}

func newAutomationFixture(stages []domain.StageConfig, invitations map[string][]domain.Invitation) (*automationService, *fakeInvitationRepo, *fakeLogRepo) {
	invRepo := &fakeInvitationRepo{byEvent: invitations, errByEvent: map[string]error{}}
	logRepo := newFakeLogRepo()
	svc := NewAutomationService(&fakeSettingRepo{stages: stages}, invRepo, logRepo, "https://invites.example").(*automationService)
	return svc, invRepo, logRepo
}

func TestAutomationRunQueuesDueStage(t *testing.T) {
	now := time.Date(2026, time.March, 10, 11, 30, 0, 0, time.UTC)
	eventDate := now.AddDate(0, 0, 5)

	invitations := map[string][]domain.Invitation{
		"ev1": {
			{ID: "inv1", EventID: "ev1", GroupName: "Cohen Family", PhoneNumbers: []string{"0541111111", "0542222222"}, InvitedPax: 3, RSVPStatus: domain.RSVPPending, IsAutomated: true},
			{ID: "inv2", EventID: "ev1", GroupName: "Dana", PhoneNumbers: []string{"0543333333"}, InvitedPax: 1, RSVPStatus: domain.RSVPPending, IsAutomated: true},
		},
	}

	svc, _, logRepo := newAutomationFixture([]domain.StageConfig{testStage("ev1", 7, eventDate)}, invitations)
	svc.now = fixedClock(now)

	summary, err := svc.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if summary.Processed != 1 || summary.TotalQueued != 3 {
		t.Fatalf("expected processed=1 total_queued=3, got %d/%d", summary.Processed, summary.TotalQueued)
	}
	if len(logRepo.inserted) != 3 {
		t.Fatalf("expected 3 inserted rows, got %d", len(logRepo.inserted))
	}

	for _, row := range logRepo.inserted {
		if row.Status != domain.LogPending {
			t.Errorf("row for %s inserted with status %q, want pending", row.Phone, row.Status)
		}
		if row.MessageType != "icebreaker" {
			t.Errorf("row message_type = %q, want icebreaker", row.MessageType)
		}
	}

	// invited_pax drives the template variant; the link comes from base URL + slug.
	first := logRepo.inserted[0]
	want := "Hi Cohen Family, you are all invited by Anat & David! https://invites.example/anat-david"
	if first.Content != want {
		t.Errorf("plural content = %q, want %q", first.Content, want)
	}
	last := logRepo.inserted[2]
	if last.InvitationID != "inv2" {
		t.Fatalf("expected third row for inv2, got %s", last.InvitationID)
	}
	wantSingular := "Hi Dana, Anat & David invite you! https://invites.example/anat-david"
	if last.Content != wantSingular {
		t.Errorf("singular content = %q, want %q", last.Content, wantSingular)
	}
}

func TestAutomationSecondRunInsertsNothing(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	eventDate := now.AddDate(0, 0, 2)

	invitations := map[string][]domain.Invitation{
		"ev1": {
			{ID: "inv1", EventID: "ev1", GroupName: "Cohen Family", PhoneNumbers: []string{"0541111111", "0542222222"}, InvitedPax: 2, RSVPStatus: domain.RSVPPending, IsAutomated: true},
		},
	}

	svc, _, logRepo := newAutomationFixture([]domain.StageConfig{testStage("ev1", 7, eventDate)}, invitations)
	svc.now = fixedClock(now)

	first, err := svc.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.TotalQueued != 2 {
		t.Fatalf("first run queued %d, want 2", first.TotalQueued)
	}

	second, err := svc.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.TotalQueued != 0 {
		t.Fatalf("second run queued %d, want 0", second.TotalQueued)
	}
	if got := second.Stages[0].Skipped; got != 2 {
		t.Errorf("second run skipped %d recipients, want 2", got)
	}
	if len(logRepo.inserted) != 2 {
		t.Errorf("log has %d rows after two runs, want 2", len(logRepo.inserted))
	}
}

func TestAutomationSkipsPastEvent(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	invitations := map[string][]domain.Invitation{
		"ev1": {
			{ID: "inv1", EventID: "ev1", GroupName: "Cohen Family", PhoneNumbers: []string{"0541111111"}, InvitedPax: 2, RSVPStatus: domain.RSVPPending, IsAutomated: true},
		},
	}

	svc, invRepo, logRepo := newAutomationFixture([]domain.StageConfig{testStage("ev1", 7, yesterday)}, invitations)
	svc.now = fixedClock(now)

	summary, err := svc.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	result := summary.Stages[0]
	if result.Queued != 0 || result.Skipped != 0 || result.Error != "" {
		t.Fatalf("past event stage result = %+v, want zero counters and no error", result)
	}
	if invRepo.stageCalls != 0 {
		t.Errorf("candidates were fetched for a past event")
	}
	if len(logRepo.inserted) != 0 {
		t.Errorf("store was mutated for a past event")
	}
}

func TestAutomationForceRunProcessesPastEvent(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	invitations := map[string][]domain.Invitation{
		"ev1": {
			{ID: "inv1", EventID: "ev1", GroupName: "Cohen Family", PhoneNumbers: []string{"0541111111"}, InvitedPax: 2, RSVPStatus: domain.RSVPPending, IsAutomated: true},
		},
	}

	svc, _, logRepo := newAutomationFixture([]domain.StageConfig{testStage("ev1", 7, yesterday)}, invitations)
	svc.now = fixedClock(now)

	summary, err := svc.Run(context.Background(), true)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.TotalQueued != 1 || len(logRepo.inserted) != 1 {
		t.Fatalf("force run queued %d rows, want 1", summary.TotalQueued)
	}
}

func TestAutomationWindowNotYetOpen(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	eventDate := now.AddDate(0, 0, 30)

	invitations := map[string][]domain.Invitation{
		"ev1": {
			{ID: "inv1", EventID: "ev1", GroupName: "Cohen Family", PhoneNumbers: []string{"0541111111"}, InvitedPax: 2, RSVPStatus: domain.RSVPPending, IsAutomated: true},
		},
	}

	svc, invRepo, _ := newAutomationFixture([]domain.StageConfig{testStage("ev1", 7, eventDate)}, invitations)
	svc.now = fixedClock(now)

	summary, err := svc.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.TotalQueued != 0 || invRepo.stageCalls != 0 {
		t.Fatalf("stage 30 days out should not be due at days_before=7")
	}
}

func TestAutomationMissingTemplateSkipsInvitation(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	stage := testStage("ev1", 7, now.AddDate(0, 0, 3))
	stage.StageName = "nudge" // no template defined for this stage

	invitations := map[string][]domain.Invitation{
		"ev1": {
			{ID: "inv1", EventID: "ev1", GroupName: "Cohen Family", PhoneNumbers: []string{"0541111111", "0542222222"}, InvitedPax: 2, RSVPStatus: domain.RSVPPending, IsAutomated: true},
		},
	}

	svc, _, logRepo := newAutomationFixture([]domain.StageConfig{stage}, invitations)
	svc.now = fixedClock(now)

	summary, err := svc.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	result := summary.Stages[0]
	if result.Error != "" {
		t.Fatalf("missing template must be a soft skip, got error %q", result.Error)
	}
	if result.Queued != 0 || result.Skipped != 2 {
		t.Fatalf("stage result = %+v, want queued=0 skipped=2", result)
	}
	if len(logRepo.inserted) != 0 {
		t.Errorf("rows were inserted despite missing template")
	}
}

func TestAutomationStageFailureDoesNotBlockSiblings(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	eventDate := now.AddDate(0, 0, 3)

	stageA := testStage("broken", 7, eventDate)
	stageB := testStage("healthy", 7, eventDate)

	invitations := map[string][]domain.Invitation{
		"healthy": {
			{ID: "inv1", EventID: "healthy", GroupName: "Dana", PhoneNumbers: []string{"0543333333"}, InvitedPax: 1, RSVPStatus: domain.RSVPPending, IsAutomated: true},
		},
	}

	svc, invRepo, _ := newAutomationFixture([]domain.StageConfig{stageA, stageB}, invitations)
	invRepo.errByEvent["broken"] = errors.New("connection reset")
	svc.now = fixedClock(now)

	summary, err := svc.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if summary.Stages[0].Error == "" {
		t.Errorf("broken stage should carry its error")
	}
	if summary.Stages[1].Queued != 1 || summary.Stages[1].Error != "" {
		t.Errorf("healthy stage result = %+v, want queued=1 and no error", summary.Stages[1])
	}
}

func TestAutomationSettingsFetchErrorAbortsRun(t *testing.T) {
	invRepo := &fakeInvitationRepo{byEvent: map[string][]domain.Invitation{}, errByEvent: map[string]error{}}
	svc := NewAutomationService(&fakeSettingRepo{err: errors.New("timeout")}, invRepo, newFakeLogRepo(), "").(*automationService)

	if _, err := svc.Run(context.Background(), false); err == nil {
		t.Fatal("expected run to abort on settings fetch failure")
	}
}
