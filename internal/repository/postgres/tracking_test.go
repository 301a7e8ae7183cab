package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/ignite/phishsim/internal/domain"
)

func TestAppendEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO engagement_events").
		WithArgs(sqlmock.AnyArg(), int64(42), int64(7), domain.EventOpened,
			"", "", "test-agent", "203.0.113.9", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewTrackingRepo(db)
	ev := &domain.EngagementEvent{
		RecipientID: 42,
		CampaignID:  7,
		Kind:        domain.EventOpened,
		UserAgent:   "test-agent",
		IPAddress:   "203.0.113.9",
	}
	if err := repo.AppendEvent(context.Background(), ev); err != nil {
		t.Fatalf("AppendEvent() error: %v", err)
	}

	if ev.ID == uuid.Nil {
		t.Error("AppendEvent should assign an event ID")
	}
	if ev.OccurredAt.IsZero() || ev.CreatedAt.IsZero() {
		t.Error("AppendEvent should stamp times")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "recipient_id", "campaign_id", "kind",
		"submitted_email", "submitted_pass", "user_agent", "ip_address",
		"occurred_at", "created_at",
	}).AddRow(uuid.New().String(), int64(42), int64(7), "compromised",
		"a@b.com", "x", "test-agent", "203.0.113.9", now, now)

	mock.ExpectQuery("SELECT (.+) FROM engagement_events").
		WithArgs(50).
		WillReturnRows(rows)

	repo := NewTrackingRepo(db)
	events, err := repo.ListEvents(context.Background(), 50)
	if err != nil {
		t.Fatalf("ListEvents() error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.RecipientID != 42 || ev.CampaignID != 7 || ev.Kind != domain.EventCompromised {
		t.Errorf("event = %+v", ev)
	}
	if ev.SubmittedEmail != "a@b.com" {
		t.Errorf("SubmittedEmail = %q, want a@b.com", ev.SubmittedEmail)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
