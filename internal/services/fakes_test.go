package services

import (
	"context"
	"strings"
	"time"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
)

// In-memory stand-ins for the pgx repositories and the Green API sender.

type fakeSettingRepo struct {
	stages []domain.StageConfig
	err    error
}

func (f *fakeSettingRepo) GetActiveStages(ctx context.Context) ([]domain.StageConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stages, nil
}

type reminderUpdate struct {
	id     string
	count  int
	sentAt time.Time
}

type fakeInvitationRepo struct {
	byEvent    map[string][]domain.Invitation
	errByEvent map[string]error

	stageCalls   int
	requestedCap int
	updates      []reminderUpdate
}

func (f *fakeInvitationRepo) GetStageCandidates(ctx context.Context, eventID string, target domain.RSVPStatus) ([]domain.Invitation, error) {
	f.stageCalls++
	if err := f.errByEvent[eventID]; err != nil {
		return nil, err
	}
	matches := make([]domain.Invitation, 0)
	for _, inv := range f.byEvent[eventID] {
		if inv.RSVPStatus == target && inv.IsAutomated {
			matches = append(matches, inv)
		}
	}
	return matches, nil
}

func (f *fakeInvitationRepo) GetReminderCandidates(ctx context.Context, eventID string, cap int) ([]domain.Invitation, error) {
	f.requestedCap = cap
	if err := f.errByEvent[eventID]; err != nil {
		return nil, err
	}
	matches := make([]domain.Invitation, 0)
	for _, inv := range f.byEvent[eventID] {
		if inv.RSVPStatus == domain.RSVPPending && inv.IsAutomated && inv.SentCount() < cap {
			matches = append(matches, inv)
		}
	}
	return matches, nil
}

func (f *fakeInvitationRepo) RecordReminderSent(ctx context.Context, id string, newCount int, sentAt time.Time) error {
	f.updates = append(f.updates, reminderUpdate{id: id, count: newCount, sentAt: sentAt})
	return nil
}

func (f *fakeInvitationRepo) List(ctx context.Context, eventID string) ([]domain.Invitation, error) {
	return f.byEvent[eventID], nil
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error { return nil }

func (f *fakeInvitationRepo) Update(ctx context.Context, inv *domain.Invitation) error { return nil }

func (f *fakeInvitationRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeInvitationRepo) UpsertRSVP(ctx context.Context, eventID string, status domain.RSVPStatus, sub domain.RSVPSubmission) (*domain.Invitation, error) {
	return &domain.Invitation{EventID: eventID, GroupName: sub.FullName, RSVPStatus: status}, nil
}

type logScope struct {
	eventID     string
	messageType string
}

type fakeLogRepo struct {
	keys     map[logScope]map[domain.LogKey]struct{}
	inserted []domain.MessageLog
	pending  []domain.MessageLog
	statuses map[string]domain.LogStatus

	keysErr   error
	insertErr error
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{
		keys:     make(map[logScope]map[domain.LogKey]struct{}),
		statuses: make(map[string]domain.LogStatus),
	}
}

func (f *fakeLogRepo) GetSentKeys(ctx context.Context, eventID, messageType string, invitationIDs []string) (map[domain.LogKey]struct{}, error) {
	if f.keysErr != nil {
		return nil, f.keysErr
	}
	existing := f.keys[logScope{eventID, messageType}]
	result := make(map[domain.LogKey]struct{}, len(existing))
	for key := range existing {
		result[key] = struct{}{}
	}
	return result, nil
}

func (f *fakeLogRepo) BulkInsert(ctx context.Context, logs []domain.MessageLog) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, log := range logs {
		scope := logScope{log.EventID, log.MessageType}
		if f.keys[scope] == nil {
			f.keys[scope] = make(map[domain.LogKey]struct{})
		}
		f.keys[scope][log.Key()] = struct{}{}
	}
	f.inserted = append(f.inserted, logs...)
	return nil
}

func (f *fakeLogRepo) GetPending(ctx context.Context, limit int) ([]domain.MessageLog, error) {
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	return f.pending[:limit], nil
}

func (f *fakeLogRepo) UpdateStatus(ctx context.Context, id string, status domain.LogStatus) error {
	f.statuses[id] = status
	return nil
}

type sentMessage struct {
	chatID  string
	message string
}

type fakeSender struct {
	sent       []sentMessage
	failChatID string
}

func (f *fakeSender) Send(ctx context.Context, chatID, message string) error {
	if f.failChatID != "" && strings.HasPrefix(chatID, f.failChatID) {
		return context.DeadlineExceeded
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, message: message})
	return nil
}

type fakeEventRepo struct {
	events  []domain.Event
	err     error
	fetches int
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	for i := range f.events {
		if f.events[i].Slug == slug {
			return &f.events[i], nil
		}
	}
	return nil, f.err
}

func (f *fakeEventRepo) GetPublicBySlug(ctx context.Context, slug string) (*domain.PublicEvent, error) {
	return nil, f.err
}

func (f *fakeEventRepo) GetRemindersEnabled(ctx context.Context, eventID string) ([]domain.Event, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	if eventID == "" {
		return f.events, nil
	}
	matches := make([]domain.Event, 0)
	for _, ev := range f.events {
		if ev.ID == eventID {
			matches = append(matches, ev)
		}
	}
	return matches, nil
}
