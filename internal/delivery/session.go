package delivery

import "context"

// Session is the single authenticated messaging session all sends go
// through. It is a stateful, non-substitutable resource: exactly one
// goroutine drives it, and callers own its lifecycle
// (open → authenticate → use → close).
type Session interface {
	// AuthPending reports whether the out-of-band login step (QR scan) is
	// still showing on the session surface.
	AuthPending(ctx context.Context) (bool, error)
	// OpenConversation opens a fresh conversation view for the phone
	// number with the message prefilled.
	OpenConversation(ctx context.Context, phone, message string) error
	// ComposeReady reports whether the compose surface is interactive.
	ComposeReady(ctx context.Context) (bool, error)
	// CommitSend commits the prefilled message in the open conversation.
	CommitSend(ctx context.Context) error
	// Close tears the session down. The browser profile survives, so the
	// next run reuses the authenticated state.
	Close() error
}

// State tracks the session lifecycle during a campaign run.
type State int

const (
	StateUnauthenticated State = iota
	StateAwaitingManualAuth
	StateReady
	StateSending
	StateDone
)

var stateNames = map[State]string{
	StateUnauthenticated:    "unauthenticated",
	StateAwaitingManualAuth: "awaiting_manual_auth",
	StateReady:              "ready",
	StateSending:            "sending",
	StateDone:               "done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
