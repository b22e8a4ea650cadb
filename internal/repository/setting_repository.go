package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
)

type SettingRepository interface {
	// GetActiveStages returns every active reminder stage joined with its
	// event's date, slug and content configuration.
	GetActiveStages(ctx context.Context) ([]domain.StageConfig, error)
}

type settingRepository struct {
	db *pgxpool.Pool
}

func NewSettingRepository(db *pgxpool.Pool) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) GetActiveStages(ctx context.Context) ([]domain.StageConfig, error) {
	sql := `SELECT s.id::text, s.event_id::text, s.stage_name, s.days_before, s.target_status,
	               e.event_date, e.slug, COALESCE(e.content_config, '{}'::jsonb)
	        FROM automation_settings s
	        JOIN events e ON e.id = s.event_id
	        WHERE s.is_active = true`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]domain.StageConfig, 0)
	for rows.Next() {
		var st domain.StageConfig
		var content []byte
		if err := rows.Scan(&st.ID, &st.EventID, &st.StageName, &st.DaysBefore,
			&st.TargetStatus, &st.EventDate, &st.EventSlug, &content); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(content, &st.Content); err != nil {
			return nil, fmt.Errorf("decode content_config for event %s: %w", st.EventID, err)
		}
		stages = append(stages, st)
	}
	return stages, rows.Err()
}
