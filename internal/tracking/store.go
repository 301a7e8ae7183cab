package tracking

import (
	"context"

	"github.com/ignite/phishsim/internal/domain"
)

// EventStore is the append-only engagement log. Appends from concurrent
// requests are independent and commutative; no ordering is enforced across
// recipients, and events are never updated or deleted.
type EventStore interface {
	AppendEvent(ctx context.Context, ev *domain.EngagementEvent) error
	ListEvents(ctx context.Context, limit int) ([]domain.EngagementEvent, error)
}
