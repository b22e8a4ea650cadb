package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyalfuks51/wedding-Eyal/internal/cache"
	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
	"github.com/eyalfuks51/wedding-Eyal/internal/repository"
	"github.com/eyalfuks51/wedding-Eyal/internal/sheets"
)

const publicEventTTL = 5 * time.Minute

// EventService serves the guest-facing surface: the landing-page content
// lookup and the RSVP submission.
type EventService interface {
	PublicEvent(ctx context.Context, slug string) (*domain.PublicEvent, error)
	// SubmitRSVP applies a guest's response and mirrors the row to the
	// event's spreadsheet in the background.
	SubmitRSVP(ctx context.Context, slug string, sub domain.RSVPSubmission) (*domain.Invitation, error)
}

type eventService struct {
	events      repository.EventRepository
	invitations repository.InvitationRepository
	cache       cache.EventCache
	mirror      sheets.Mirror
	log         zerolog.Logger
}

func NewEventService(
	events repository.EventRepository,
	invitations repository.InvitationRepository,
	eventCache cache.EventCache,
	mirror sheets.Mirror,
) EventService {
	return &eventService{
		events:      events,
		invitations: invitations,
		cache:       eventCache,
		mirror:      mirror,
		log:         zerolog.New(os.Stdout).With().Timestamp().Str("component", "events").Logger(),
	}
}

func (s *eventService) PublicEvent(ctx context.Context, slug string) (*domain.PublicEvent, error) {
	if payload, err := s.cache.GetPublicEvent(ctx, slug); err == nil {
		var ev domain.PublicEvent
		if err := json.Unmarshal(payload, &ev); err == nil {
			return &ev, nil
		}
		// Unreadable cache entry: fall through to the store.
	}

	ev, err := s.events.GetPublicBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(ev); err == nil {
		if cerr := s.cache.SetPublicEvent(ctx, slug, payload, publicEventTTL); cerr != nil {
			s.log.Warn().Err(cerr).Str("slug", slug).Msg("failed to cache event")
		}
	}
	return ev, nil
}

func (s *eventService) SubmitRSVP(ctx context.Context, slug string, sub domain.RSVPSubmission) (*domain.Invitation, error) {
	event, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	status := domain.RSVPDeclined
	if sub.Attending {
		status = domain.RSVPAttending
	}

	inv, err := s.invitations.UpsertRSVP(ctx, event.ID, status, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to record rsvp: %w", err)
	}

	if event.GoogleSheetID != "" {
		// Mirroring must never delay or fail the guest's submission.
		go s.mirrorRSVP(event.GoogleSheetID, sub)
	}
	return inv, nil
}

func (s *eventService) mirrorRSVP(spreadsheetID string, sub domain.RSVPSubmission) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.mirror.MirrorRSVP(ctx, spreadsheetID, sub); err != nil {
		s.log.Error().Err(err).
			Str("spreadsheet_id", spreadsheetID).
			Str("phone", sub.Phone).
			Msg("failed to mirror rsvp to sheet")
	}
}
