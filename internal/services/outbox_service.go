package services

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
	"github.com/eyalfuks51/wedding-Eyal/internal/repository"
	"github.com/eyalfuks51/wedding-Eyal/internal/whatsapp"
)

const defaultOutboxBatchSize = 100

// OutboxService delivers the message-log rows queued by the stage engine:
// pending rows are claimed oldest-first, sent through the outbound channel
// and flipped to sent or failed. A failed row stays failed; the stage
// engine's dedup set already contains its key, so it is never re-queued.
type OutboxService interface {
	// DeliverPending processes one bounded batch and reports how many rows
	// were sent and how many failed.
	DeliverPending(ctx context.Context) (delivered, failed int, err error)
}

type outboxService struct {
	logs      repository.MessageLogRepository
	sender    whatsapp.Sender
	batchSize int
	log       zerolog.Logger
}

func NewOutboxService(logs repository.MessageLogRepository, sender whatsapp.Sender, batchSize int) OutboxService {
	if batchSize <= 0 {
		batchSize = defaultOutboxBatchSize
	}
	return &outboxService{
		logs:      logs,
		sender:    sender,
		batchSize: batchSize,
		log:       zerolog.New(os.Stdout).With().Timestamp().Str("component", "outbox").Logger(),
	}
}

func (s *outboxService) DeliverPending(ctx context.Context) (int, int, error) {
	pending, err := s.logs.GetPending(ctx, s.batchSize)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch pending logs: %w", err)
	}
	if len(pending) == 0 {
		return 0, 0, nil
	}
	s.log.Info().Int("pending", len(pending)).Msg("delivering queued messages")

	var delivered, failed int
	for _, row := range pending {
		status := domain.LogSent
		if err := s.sender.Send(ctx, whatsapp.ChatID(row.Phone), row.Content); err != nil {
			s.log.Error().Err(err).
				Str("log_id", row.ID).
				Str("phone", row.Phone).
				Str("message_type", row.MessageType).
				Msg("send failed")
			status = domain.LogFailed
		}

		if err := s.logs.UpdateStatus(ctx, row.ID, status); err != nil {
			s.log.Error().Err(err).Str("log_id", row.ID).Msg("failed to update log status")
			failed++
			continue
		}
		if status == domain.LogSent {
			delivered++
		} else {
			failed++
		}
	}

	s.log.Info().Int("delivered", delivered).Int("failed", failed).Msg("outbox batch complete")
	return delivered, failed, nil
}
