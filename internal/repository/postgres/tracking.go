// Package postgres implements the simulator's persistence contracts against
// PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/phishsim/internal/domain"
)

// TrackingRepo implements tracking.EventStore. The engagement_events table
// is a log: this repo only ever inserts and selects, never updates or
// deletes.
type TrackingRepo struct{ db *sql.DB }

// NewTrackingRepo creates a Postgres-backed engagement event log.
func NewTrackingRepo(db *sql.DB) *TrackingRepo { return &TrackingRepo{db: db} }

// AppendEvent inserts one engagement event. ID and CreatedAt are assigned
// here; OccurredAt defaults to now when the caller left it zero.
func (r *TrackingRepo) AppendEvent(ctx context.Context, ev *domain.EngagementEvent) error {
	ev.ID = uuid.New()
	ev.CreatedAt = time.Now().UTC()
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = ev.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO engagement_events (id, recipient_id, campaign_id, kind,
			submitted_email, submitted_pass, user_agent, ip_address, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, ev.ID, ev.RecipientID, ev.CampaignID, ev.Kind,
		ev.SubmittedEmail, ev.SubmittedPass, ev.UserAgent, ev.IPAddress,
		ev.OccurredAt, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("append engagement event: %w", err)
	}
	return nil
}

// ListEvents returns the most recent events, newest first.
func (r *TrackingRepo) ListEvents(ctx context.Context, limit int) ([]domain.EngagementEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, recipient_id, campaign_id, kind,
		       COALESCE(submitted_email,''), COALESCE(submitted_pass,''),
		       COALESCE(user_agent,''), COALESCE(ip_address,''),
		       occurred_at, created_at
		FROM engagement_events
		ORDER BY occurred_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list engagement events: %w", err)
	}
	defer rows.Close()

	var out []domain.EngagementEvent
	for rows.Next() {
		var ev domain.EngagementEvent
		if err := rows.Scan(
			&ev.ID, &ev.RecipientID, &ev.CampaignID, &ev.Kind,
			&ev.SubmittedEmail, &ev.SubmittedPass, &ev.UserAgent, &ev.IPAddress,
			&ev.OccurredAt, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan engagement event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
