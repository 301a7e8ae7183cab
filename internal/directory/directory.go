// Package directory defines the read-only view of recipients and campaigns
// the simulator consumes. Record management (CRUD, bulk import) lives in the
// admin tooling and is out of scope here; the core never mutates these.
package directory

import (
	"context"
	"errors"

	"github.com/ignite/phishsim/internal/domain"
)

// ErrNotFound is returned when a campaign id does not exist.
var ErrNotFound = errors.New("directory: not found")

// Directory is the read-only recipient/campaign store.
type Directory interface {
	// ListActiveRecipients returns the recipients eligible for delivery,
	// already filtered to active ones.
	ListActiveRecipients(ctx context.Context) ([]domain.Recipient, error)
	// GetCampaign returns the campaign with its message template, or
	// ErrNotFound.
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
}
