package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind enumerates recipient engagement with a campaign link.
type EventKind string

const (
	// EventOpened is recorded when the recipient opens the landing page.
	EventOpened EventKind = "opened"
	// EventCompromised is recorded when the recipient submits credentials
	// on the simulated login form.
	EventCompromised EventKind = "compromised"
)

// EngagementEvent is one append-only row in the engagement log. Events are
// never updated or deleted; repeat opens by the same recipient append new
// rows. SubmittedEmail and SubmittedPass are only set for compromised
// events and are kept verbatim for the training debrief.
type EngagementEvent struct {
	ID             uuid.UUID `json:"id" db:"id"`
	RecipientID    int64     `json:"recipient_id" db:"recipient_id"`
	CampaignID     int64     `json:"campaign_id" db:"campaign_id"`
	Kind           EventKind `json:"kind" db:"kind"`
	SubmittedEmail string    `json:"submitted_email,omitempty" db:"submitted_email"`
	SubmittedPass  string    `json:"submitted_pass,omitempty" db:"submitted_pass"`
	UserAgent      string    `json:"user_agent,omitempty" db:"user_agent"`
	IPAddress      string    `json:"ip_address,omitempty" db:"ip_address"`
	OccurredAt     time.Time `json:"occurred_at" db:"occurred_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
