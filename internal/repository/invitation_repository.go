package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
	"github.com/eyalfuks51/wedding-Eyal/internal/types"
)

const invitationColumns = `id::text, event_id::text, group_name, phone_numbers, invited_pax,
	rsvp_status, is_automated, messages_sent_count, last_message_sent_at, created_at`

type InvitationRepository interface {
	// GetStageCandidates returns automated invitations of an event currently
	// holding the stage's target RSVP status.
	GetStageCandidates(ctx context.Context, eventID string, target domain.RSVPStatus) ([]domain.Invitation, error)
	// GetReminderCandidates returns pending automated invitations still under
	// the reminder cap. A NULL messages_sent_count counts as zero.
	GetReminderCandidates(ctx context.Context, eventID string, cap int) ([]domain.Invitation, error)
	// RecordReminderSent bumps the counter and stamps the send time in a
	// single update. Called only after every phone of the invitation was
	// dispatched successfully.
	RecordReminderSent(ctx context.Context, id string, newCount int, sentAt time.Time) error

	List(ctx context.Context, eventID string) ([]domain.Invitation, error)
	Create(ctx context.Context, inv *domain.Invitation) error
	Update(ctx context.Context, inv *domain.Invitation) error
	Delete(ctx context.Context, id string) error

	// UpsertRSVP applies a guest-facing RSVP submission: the invitation is
	// matched by phone within the event, or created when the guest was not
	// pre-registered.
	UpsertRSVP(ctx context.Context, eventID string, status domain.RSVPStatus, sub domain.RSVPSubmission) (*domain.Invitation, error)
}

type invitationRepository struct {
	db *pgxpool.Pool
}

func NewInvitationRepository(db *pgxpool.Pool) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) GetStageCandidates(ctx context.Context, eventID string, target domain.RSVPStatus) ([]domain.Invitation, error) {
	sql := `SELECT ` + invitationColumns + `
	        FROM invitations
	        WHERE event_id = $1 AND rsvp_status = $2 AND is_automated = true`

	rows, err := r.db.Query(ctx, sql, eventID, target)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvitations(rows)
}

func (r *invitationRepository) GetReminderCandidates(ctx context.Context, eventID string, cap int) ([]domain.Invitation, error) {
	sql := `SELECT ` + invitationColumns + `
	        FROM invitations
	        WHERE event_id = $1
	          AND rsvp_status = $2
	          AND is_automated = true
	          AND (messages_sent_count IS NULL OR messages_sent_count < $3)`

	rows, err := r.db.Query(ctx, sql, eventID, domain.RSVPPending, cap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvitations(rows)
}

func (r *invitationRepository) RecordReminderSent(ctx context.Context, id string, newCount int, sentAt time.Time) error {
	sql := `UPDATE invitations
	        SET messages_sent_count = $1, last_message_sent_at = $2
	        WHERE id = $3`

	cmdTag, err := r.db.Exec(ctx, sql, newCount, sentAt, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *invitationRepository) List(ctx context.Context, eventID string) ([]domain.Invitation, error) {
	sql := `SELECT ` + invitationColumns + `
	        FROM invitations
	        WHERE event_id = $1
	        ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, sql, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvitations(rows)
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.RSVPStatus == "" {
		inv.RSVPStatus = domain.RSVPPending
	}

	sql := `INSERT INTO invitations
	        (id, event_id, group_name, phone_numbers, invited_pax, rsvp_status, is_automated)
	        VALUES ($1, $2, $3, $4, $5, $6, $7)
	        RETURNING created_at`

	return r.db.QueryRow(ctx, sql, inv.ID, inv.EventID, inv.GroupName,
		inv.PhoneNumbers, inv.InvitedPax, inv.RSVPStatus, inv.IsAutomated).Scan(&inv.CreatedAt)
}

func (r *invitationRepository) Update(ctx context.Context, inv *domain.Invitation) error {
	// RETURNING refreshes the counter fields the dashboard cannot set, so the
	// caller echoes the real row.
	sql := `UPDATE invitations
	        SET group_name = $1, phone_numbers = $2, invited_pax = $3,
	            rsvp_status = $4, is_automated = $5
	        WHERE id = $6
	        RETURNING ` + invitationColumns

	err := scanInvitation(r.db.QueryRow(ctx, sql, inv.GroupName, inv.PhoneNumbers,
		inv.InvitedPax, inv.RSVPStatus, inv.IsAutomated, inv.ID), inv)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.ErrNotFound
	}
	return err
}

func (r *invitationRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *invitationRepository) UpsertRSVP(ctx context.Context, eventID string, status domain.RSVPStatus, sub domain.RSVPSubmission) (*domain.Invitation, error) {
	updateSQL := `UPDATE invitations
	              SET rsvp_status = $1, invited_pax = $2
	              WHERE event_id = $3 AND $4 = ANY(phone_numbers)
	              RETURNING ` + invitationColumns

	var inv domain.Invitation
	err := scanInvitation(r.db.QueryRow(ctx, updateSQL, status, sub.GuestsCount, eventID, sub.Phone), &inv)
	if err == nil {
		return &inv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	insertSQL := `INSERT INTO invitations
	              (id, event_id, group_name, phone_numbers, invited_pax, rsvp_status, is_automated)
	              VALUES ($1, $2, $3, $4, $5, $6, true)
	              RETURNING ` + invitationColumns

	err = scanInvitation(r.db.QueryRow(ctx, insertSQL, uuid.NewString(), eventID,
		sub.FullName, []string{sub.Phone}, sub.GuestsCount, status), &inv)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func scanInvitation(row pgx.Row, inv *domain.Invitation) error {
	return row.Scan(&inv.ID, &inv.EventID, &inv.GroupName, &inv.PhoneNumbers,
		&inv.InvitedPax, &inv.RSVPStatus, &inv.IsAutomated,
		&inv.MessagesSentCount, &inv.LastMessageSentAt, &inv.CreatedAt)
}

func scanInvitations(rows pgx.Rows) ([]domain.Invitation, error) {
	invitations := make([]domain.Invitation, 0)
	for rows.Next() {
		var inv domain.Invitation
		if err := scanInvitation(rows, &inv); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}
