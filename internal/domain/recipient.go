package domain

import "time"

// Recipient is a person targeted by awareness campaigns. Records are owned
// by the directory; the simulator core only reads them.
type Recipient struct {
	ID        int64     `json:"recipient_id" db:"recipient_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Company   string    `json:"company_name" db:"company_name"`
	Active    bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
