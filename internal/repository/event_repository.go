package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
	"github.com/eyalfuks51/wedding-Eyal/internal/types"
)

type EventRepository interface {
	// GetBySlug returns the full event row, including automation config and
	// sheet target.
	GetBySlug(ctx context.Context, slug string) (*domain.Event, error)
	// GetPublicBySlug returns the guest-facing view with the raw
	// content_config document passed through untouched.
	GetPublicBySlug(ctx context.Context, slug string) (*domain.PublicEvent, error)
	// GetRemindersEnabled returns events whose automation_config has
	// reminders_enabled=true, optionally narrowed to one event id.
	GetRemindersEnabled(ctx context.Context, eventID string) ([]domain.Event, error)
}

type eventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	sql := `SELECT id::text, slug, event_date,
	               COALESCE(automation_config, '{}'::jsonb),
	               COALESCE(google_sheet_id, '')
	        FROM events
	        WHERE slug = $1`

	return r.scanEvent(r.db.QueryRow(ctx, sql, slug))
}

func (r *eventRepository) GetPublicBySlug(ctx context.Context, slug string) (*domain.PublicEvent, error) {
	sql := `SELECT id::text, slug, event_date, COALESCE(content_config, '{}'::jsonb)
	        FROM events
	        WHERE slug = $1`

	var ev domain.PublicEvent
	var content []byte
	err := r.db.QueryRow(ctx, sql, slug).Scan(&ev.ID, &ev.Slug, &ev.EventDate, &content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ev.Content = json.RawMessage(content)
	return &ev, nil
}

func (r *eventRepository) GetRemindersEnabled(ctx context.Context, eventID string) ([]domain.Event, error) {
	sql := `SELECT id::text, slug, event_date,
	               COALESCE(automation_config, '{}'::jsonb),
	               COALESCE(google_sheet_id, '')
	        FROM events
	        WHERE automation_config->>'reminders_enabled' = 'true'`

	args := []any{}
	if eventID != "" {
		sql += ` AND id = $1`
		args = append(args, eventID)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		var ev domain.Event
		var automation []byte
		if err := rows.Scan(&ev.ID, &ev.Slug, &ev.EventDate, &automation, &ev.GoogleSheetID); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(automation, &ev.Automation); err != nil {
			return nil, fmt.Errorf("decode automation_config for event %s: %w", ev.ID, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *eventRepository) scanEvent(row pgx.Row) (*domain.Event, error) {
	var ev domain.Event
	var automation []byte
	err := row.Scan(&ev.ID, &ev.Slug, &ev.EventDate, &automation, &ev.GoogleSheetID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(automation, &ev.Automation); err != nil {
		return nil, fmt.Errorf("decode automation_config for event %s: %w", ev.ID, err)
	}
	return &ev, nil
}
