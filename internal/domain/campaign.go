package domain

import "time"

// Campaign is one simulated phishing campaign. Message is the Liquid message
// template sent to every active recipient; it is read-only input to delivery.
type Campaign struct {
	ID        int64     `json:"campaign_id" db:"campaign_id"`
	Name      string    `json:"name" db:"name"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
