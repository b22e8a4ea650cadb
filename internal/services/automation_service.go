package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
	"github.com/eyalfuks51/wedding-Eyal/internal/repository"
	"github.com/eyalfuks51/wedding-Eyal/internal/schedule"
	"github.com/eyalfuks51/wedding-Eyal/internal/template"
)

// AutomationService is the date-driven stage engine: for every active stage
// whose calendar window is open, it queues one message-log row per eligible
// invitation×phone that has not been reached for that stage before.
type AutomationService interface {
	Run(ctx context.Context, forceRun bool) (*domain.AutomationSummary, error)
}

type automationService struct {
	settings    repository.SettingRepository
	invitations repository.InvitationRepository
	logs        repository.MessageLogRepository
	baseURL     string
	now         func() time.Time
	log         zerolog.Logger
}

func NewAutomationService(
	settings repository.SettingRepository,
	invitations repository.InvitationRepository,
	logs repository.MessageLogRepository,
	frontendBaseURL string,
) AutomationService {
	return &automationService{
		settings:    settings,
		invitations: invitations,
		logs:        logs,
		baseURL:     frontendBaseURL,
		now:         time.Now,
		log:         zerolog.New(os.Stdout).With().Timestamp().Str("component", "automation-engine").Logger(),
	}
}

// Run evaluates every active stage once. A settings fetch failure aborts the
// run; a failure inside one stage is recorded on that stage's result and the
// loop continues.
func (s *automationService) Run(ctx context.Context, forceRun bool) (*domain.AutomationSummary, error) {
	if forceRun {
		s.log.Info().Msg("force_run=true, past-events guard bypassed")
	}

	stages, err := s.settings.GetActiveStages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	s.log.Info().Int("stages", len(stages)).Msg("active stages found")

	now := s.now()
	summary := &domain.AutomationSummary{
		Processed: len(stages),
		Stages:    make([]domain.StageResult, 0, len(stages)),
	}

	for _, stage := range stages {
		result := s.runStage(ctx, stage, now, forceRun)
		summary.Stages = append(summary.Stages, result)
		summary.TotalQueued += result.Queued
	}

	s.log.Info().
		Int("processed", summary.Processed).
		Int("total_queued", summary.TotalQueued).
		Msg("run complete")
	return summary, nil
}

func (s *automationService) runStage(ctx context.Context, stage domain.StageConfig, now time.Time, forceRun bool) domain.StageResult {
	result := domain.StageResult{Stage: stage.StageName, EventID: stage.EventID}

	diffDays := schedule.DaysUntil(stage.EventDate, now)

	if !schedule.StageDue(diffDays, stage.DaysBefore, forceRun) {
		gated := s.log.Info().
			Str("stage", stage.StageName).
			Int("diff_days", diffDays)
		if diffDays < 0 {
			gated.Msg("skipping stage, event is in the past")
		} else {
			gated.Int("days_before", stage.DaysBefore).Msg("stage not yet due")
		}
		return result
	}

	s.log.Info().
		Str("stage", stage.StageName).
		Str("event_id", stage.EventID).
		Int("diff_days", diffDays).
		Msg("processing stage")

	queued, skipped, err := s.dispatchStage(ctx, stage)
	result.Queued = queued
	result.Skipped = skipped
	if err != nil {
		s.log.Error().Err(err).Str("stage", stage.StageName).Msg("stage failed")
		result.Error = err.Error()
	}
	return result
}

// dispatchStage queues log rows for one open stage. Errors returned here are
// isolated to the stage by the caller.
func (s *automationService) dispatchStage(ctx context.Context, stage domain.StageConfig) (queued, skipped int, err error) {
	invitations, err := s.invitations.GetStageCandidates(ctx, stage.EventID, stage.TargetStatus)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch invitations: %w", err)
	}
	s.log.Info().
		Str("stage", stage.StageName).
		Int("candidates", len(invitations)).
		Msg("eligible invitations")

	if len(invitations) == 0 {
		return 0, 0, nil
	}

	invitationIDs := make([]string, len(invitations))
	for i, inv := range invitations {
		invitationIDs[i] = inv.ID
	}

	sentKeys, err := s.logs.GetSentKeys(ctx, stage.EventID, stage.StageName, invitationIDs)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch existing logs: %w", err)
	}

	newRows := make([]domain.MessageLog, 0)
	for _, inv := range invitations {
		text, terr := template.Pick(stage.Content, stage.StageName, inv.InvitedPax)
		if errors.Is(terr, template.ErrTemplateMissing) {
			s.log.Warn().
				Str("stage", stage.StageName).
				Str("invitation_id", inv.ID).
				Msg("no template for stage, skipping invitation")
			skipped += len(inv.PhoneNumbers)
			continue
		}

		content := template.Interpolate(text, map[string]string{
			"name":         inv.GroupName,
			"couple_names": stage.Content.CoupleNames,
			"link":         fmt.Sprintf("%s/%s", s.baseURL, stage.EventSlug),
			"waze_link":    stage.Content.WazeLink,
		})

		for _, phone := range inv.PhoneNumbers {
			key := domain.LogKey{InvitationID: inv.ID, Phone: phone}
			if _, dup := sentKeys[key]; dup {
				s.log.Debug().
					Str("invitation_id", inv.ID).
					Str("phone", phone).
					Str("stage", stage.StageName).
					Msg("duplicate, skipping recipient")
				skipped++
				continue
			}

			newRows = append(newRows, domain.MessageLog{
				EventID:      stage.EventID,
				InvitationID: inv.ID,
				Phone:        phone,
				MessageType:  stage.StageName,
				Content:      content,
				Status:       domain.LogPending,
			})
		}
	}

	if len(newRows) > 0 {
		if err := s.logs.BulkInsert(ctx, newRows); err != nil {
			return 0, skipped, fmt.Errorf("failed to insert message_logs: %w", err)
		}
	}

	s.log.Info().
		Str("stage", stage.StageName).
		Int("queued", len(newRows)).
		Int("skipped", skipped).
		Msg("stage complete")
	return len(newRows), skipped, nil
}
