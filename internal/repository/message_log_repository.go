package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
	"github.com/eyalfuks51/wedding-Eyal/internal/types"
)

type MessageLogRepository interface {
	// GetSentKeys returns the (invitation, phone) pairs already logged for a
	// stage of an event. This set is the idempotence guarantee of the
	// date-driven engine.
	GetSentKeys(ctx context.Context, eventID, messageType string, invitationIDs []string) (map[domain.LogKey]struct{}, error)
	// BulkInsert appends new log rows (status pending) in one round trip.
	BulkInsert(ctx context.Context, logs []domain.MessageLog) error
	// GetPending returns the oldest undelivered rows, bounded.
	GetPending(ctx context.Context, limit int) ([]domain.MessageLog, error)
	UpdateStatus(ctx context.Context, id string, status domain.LogStatus) error
}

type messageLogRepository struct {
	db *pgxpool.Pool
}

func NewMessageLogRepository(db *pgxpool.Pool) MessageLogRepository {
	return &messageLogRepository{db: db}
}

func (r *messageLogRepository) GetSentKeys(ctx context.Context, eventID, messageType string, invitationIDs []string) (map[domain.LogKey]struct{}, error) {
	keys := make(map[domain.LogKey]struct{})
	if len(invitationIDs) == 0 {
		return keys, nil
	}

	sql := `SELECT invitation_id::text, phone
	        FROM message_logs
	        WHERE event_id = $1 AND message_type = $2 AND invitation_id = ANY($3)`

	rows, err := r.db.Query(ctx, sql, eventID, messageType, invitationIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key domain.LogKey
		if err := rows.Scan(&key.InvitationID, &key.Phone); err != nil {
			return nil, err
		}
		keys[key] = struct{}{}
	}
	return keys, rows.Err()
}

func (r *messageLogRepository) BulkInsert(ctx context.Context, logs []domain.MessageLog) error {
	if len(logs) == 0 {
		return nil
	}

	sql := `INSERT INTO message_logs
	        (id, event_id, invitation_id, phone, message_type, content, status)
	        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	batch := &pgx.Batch{}
	for _, log := range logs {
		id := log.ID
		if id == "" {
			id = uuid.NewString()
		}
		batch.Queue(sql, id, log.EventID, log.InvitationID, log.Phone,
			log.MessageType, log.Content, log.Status)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range logs {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *messageLogRepository) GetPending(ctx context.Context, limit int) ([]domain.MessageLog, error) {
	sql := `SELECT id::text, event_id::text, invitation_id::text, phone,
	               message_type, content, status, created_at
	        FROM message_logs
	        WHERE status = $1
	        ORDER BY created_at ASC
	        LIMIT $2`

	rows, err := r.db.Query(ctx, sql, domain.LogPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.MessageLog, 0)
	for rows.Next() {
		var log domain.MessageLog
		if err := rows.Scan(&log.ID, &log.EventID, &log.InvitationID, &log.Phone,
			&log.MessageType, &log.Content, &log.Status, &log.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (r *messageLogRepository) UpdateStatus(ctx context.Context, id string, status domain.LogStatus) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE message_logs SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}
