// Package audit defines the best-effort diagnostic log the simulator emits
// decode failures and send failures to. Auditing must never take a request
// or a campaign run down with it, so Record returns nothing: implementations
// swallow their own failures after logging them.
package audit

import "context"

// Logger records diagnostic events, best-effort.
type Logger interface {
	Record(ctx context.Context, component, message, detail string)
}

// Nop discards all audit events. Used in tests and when no audit sink is
// configured.
type Nop struct{}

// Record implements Logger.
func (Nop) Record(context.Context, string, string, string) {}
