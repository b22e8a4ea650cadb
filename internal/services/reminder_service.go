package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
	"github.com/eyalfuks51/wedding-Eyal/internal/repository"
	"github.com/eyalfuks51/wedding-Eyal/internal/schedule"
	"github.com/eyalfuks51/wedding-Eyal/internal/whatsapp"
)

// ReminderService is the cooldown-driven scheduler: it nudges pending
// invitations of reminder-enabled events, at most max_reminders times per
// invitation with days_between_reminders between sends, inside the Israeli
// operating-hours window.
type ReminderService interface {
	Run(ctx context.Context, opts ReminderRunOptions) (*domain.ReminderSummary, error)
}

type ReminderRunOptions struct {
	// ForceRun bypasses both the operating-hours gate and per-invitation
	// cooldowns.
	ForceRun bool
	// EventID narrows the run to one event when set.
	EventID string
}

type reminderService struct {
	events      repository.EventRepository
	invitations repository.InvitationRepository
	sender      whatsapp.Sender
	now         func() time.Time
	log         zerolog.Logger
}

func NewReminderService(
	events repository.EventRepository,
	invitations repository.InvitationRepository,
	sender whatsapp.Sender,
) ReminderService {
	return &reminderService{
		events:      events,
		invitations: invitations,
		sender:      sender,
		now:         time.Now,
		log:         zerolog.New(os.Stdout).With().Timestamp().Str("component", "whatsapp-scheduler").Logger(),
	}
}

func (s *reminderService) Run(ctx context.Context, opts ReminderRunOptions) (*domain.ReminderSummary, error) {
	if opts.ForceRun {
		s.log.Info().Msg("force_run=true, bypassing time and cooldown restrictions")
	} else if !schedule.WithinOperatingHours(s.now()) {
		s.log.Info().Msg("outside operating hours, sleeping")
		return &domain.ReminderSummary{Success: true, Skipped: domain.SkipOutsideHours}, nil
	}

	events, err := s.events.GetRemindersEnabled(ctx, opts.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	summary := &domain.ReminderSummary{
		Success: true,
		Summary: make(map[string]domain.EventSummary),
	}
	if len(events) == 0 {
		s.log.Info().Msg("no events with reminders enabled")
		return summary, nil
	}
	s.log.Info().Int("events", len(events)).Msg("events to process")

	// One event's failure never blocks its siblings.
	for _, event := range events {
		eventSummary := s.processEvent(ctx, event, opts.ForceRun)
		summary.Summary[event.Slug] = eventSummary
		s.log.Info().
			Str("event", event.Slug).
			Int("dispatched", eventSummary.Dispatched).
			Int("skipped", eventSummary.Skipped).
			Int("errors", eventSummary.Errors).
			Msg("event complete")
	}
	return summary, nil
}

func (s *reminderService) processEvent(ctx context.Context, event domain.Event, forceRun bool) domain.EventSummary {
	cap := event.Automation.Cap()
	cooldownDays := event.Automation.CooldownDays()
	messageTemplate := event.Automation.Template()

	s.log.Info().
		Str("event", event.Slug).
		Int("cap", cap).
		Int("cooldown_days", cooldownDays).
		Msg("processing event")

	invitations, err := s.invitations.GetReminderCandidates(ctx, event.ID, cap)
	if err != nil {
		s.log.Error().Err(err).Str("event_id", event.ID).Msg("error fetching invitations")
		return domain.EventSummary{Errors: 1}
	}
	s.log.Info().
		Str("event", event.Slug).
		Int("candidates", len(invitations)).
		Msg("invitations under the cap")

	var result domain.EventSummary
	now := s.now()

	for _, inv := range invitations {
		if !forceRun && !schedule.CooledDown(inv.LastMessageSentAt, cooldownDays, now) {
			hours := schedule.HoursUntilEligible(*inv.LastMessageSentAt, cooldownDays, now)
			s.log.Info().
				Str("invitation_id", inv.ID).
				Str("group", inv.GroupName).
				Int("hours_remaining", hours).
				Msg("skip, cooldown active")
			result.Skipped++
			continue
		}

		if len(inv.PhoneNumbers) == 0 {
			s.log.Warn().
				Str("invitation_id", inv.ID).
				Str("group", inv.GroupName).
				Msg("skip, phone_numbers is empty")
			result.Skipped++
			continue
		}

		message := strings.ReplaceAll(messageTemplate, "{group_name}", inv.GroupName)

		// Every number of the party gets the same message. If any send
		// fails the counters stay untouched, so the whole invitation is
		// retried next run. Phones that already succeeded will then get a
		// second copy: documented at-least-once behavior.
		dispatchFailed := false
		for _, phone := range inv.PhoneNumbers {
			if err := s.sender.Send(ctx, whatsapp.ChatID(phone), message); err != nil {
				s.log.Error().Err(err).
					Str("invitation_id", inv.ID).
					Str("phone", phone).
					Msg("dispatch error")
				dispatchFailed = true
			}
		}
		if dispatchFailed {
			result.Errors++
			continue
		}

		newCount := inv.SentCount() + 1
		if err := s.invitations.RecordReminderSent(ctx, inv.ID, newCount, s.now()); err != nil {
			s.log.Error().Err(err).
				Str("invitation_id", inv.ID).
				Msg("failed to update invitation")
			result.Errors++
			continue
		}

		s.log.Info().
			Str("invitation_id", inv.ID).
			Str("group", inv.GroupName).
			Int("messages_sent_count", newCount).
			Msg("reminder dispatched")
		result.Dispatched++
	}
	return result
}
