// Package delivery drives a bulk campaign send over one stateful messaging
// session. Sends are strictly sequential: the session is the shared
// resource, and parallel use would corrupt its authenticated state. The
// engine tolerates per-recipient failures (bounded retries, then skip) and
// paces sends to avoid tripping the channel's abuse detection.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/phishsim/internal/audit"
	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/logger"
	"github.com/ignite/phishsim/internal/token"
)

// errComposeTimeout marks an attempt where the compose surface never became
// interactive within the bounded poll window. It consumes a retry like any
// transport error.
var errComposeTimeout = errors.New("delivery: compose surface not ready")

// Options configures a campaign run.
type Options struct {
	// BaseURL is the landing URL; the bearer token is appended as
	// ?data=<token>.
	BaseURL string
	// CountryCode normalizes national-format phone numbers.
	CountryCode string
	// MaxRetries is the per-recipient attempt ceiling.
	MaxRetries int
	// Pacing is the fixed delay between recipients.
	Pacing time.Duration
	// AuthPollInterval is the wait between checks for the operator QR scan.
	AuthPollInterval time.Duration
	// ComposePollInterval and ComposePollLimit bound the per-attempt wait
	// for the compose surface.
	ComposePollInterval time.Duration
	ComposePollLimit    int
}

func (o *Options) applyDefaults() {
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.AuthPollInterval <= 0 {
		o.AuthPollInterval = 2 * time.Second
	}
	if o.ComposePollInterval <= 0 {
		o.ComposePollInterval = time.Second
	}
	if o.ComposePollLimit <= 0 {
		o.ComposePollLimit = 10
	}
}

// Attempt is the outcome for one recipient within a run. It is transient
// bookkeeping, not a durable record: a crash loses in-flight history.
type Attempt struct {
	RecipientID int64
	Phone       string
	Tries       int
	Sent        bool
	Error       string
}

// Report aggregates one campaign run. Individual failures never fail the
// run; they are counted here instead.
type Report struct {
	RunID      uuid.UUID
	CampaignID int64
	Attempted  int
	Sent       int
	Failed     int
	Attempts   []Attempt
}

// Engine owns the messaging session for the duration of one campaign run.
type Engine struct {
	session  Session
	codec    *token.Codec
	renderer *MessageRenderer
	audit    audit.Logger
	opts     Options

	// sleep is injectable so tests drive the poll and pacing loops with a
	// fake clock.
	sleep func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	state State
}

// NewEngine creates a delivery engine around an open session.
func NewEngine(session Session, codec *token.Codec, auditLog audit.Logger, opts Options) *Engine {
	opts.applyDefaults()
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	return &Engine{
		session:  session,
		codec:    codec,
		renderer: NewMessageRenderer(),
		audit:    auditLog,
		opts:     opts,
		sleep:    sleepContext,
		state:    StateUnauthenticated,
	}
}

// State returns the current session lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Run sends the campaign to every recipient in turn and reports aggregate
// counts. It blocks in the manual-auth wait until the operator completes
// the QR scan (no timeout; cancel via ctx). Cancellation is honored between
// recipients, never mid-send. The returned report is valid even when err is
// non-nil (cancelled runs report the work finished so far).
func (e *Engine) Run(ctx context.Context, campaign *domain.Campaign, recipients []domain.Recipient) (*Report, error) {
	report := &Report{RunID: uuid.New(), CampaignID: campaign.ID}

	logger.Info("campaign run starting", "run_id", report.RunID,
		"campaign_id", campaign.ID, "recipients", len(recipients))

	if err := e.waitForAuth(ctx); err != nil {
		e.setState(StateDone)
		return report, err
	}

	e.setState(StateSending)
	var runErr error
	for i, rec := range recipients {
		if i > 0 {
			if err := e.sleep(ctx, e.opts.Pacing); err != nil {
				runErr = err
				break
			}
		}
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		att := e.sendOne(ctx, campaign, rec)
		report.Attempts = append(report.Attempts, att)
		report.Attempted++
		if att.Sent {
			report.Sent++
		} else {
			report.Failed++
		}
		logger.Info("recipient processed", "run_id", report.RunID,
			"recipient_id", rec.ID, "phone", att.Phone,
			"sent", att.Sent, "tries", att.Tries,
			"progress", fmt.Sprintf("%d/%d", i+1, len(recipients)))
	}

	e.setState(StateDone)
	logger.Info("campaign run finished", "run_id", report.RunID,
		"attempted", report.Attempted, "sent", report.Sent, "failed", report.Failed)
	return report, runErr
}

// waitForAuth polls until the operator-completed login markers disappear
// from the session surface. Deliberately unbounded: the step is human-paced
// and only the context can abort it.
func (e *Engine) waitForAuth(ctx context.Context) error {
	e.setState(StateAwaitingManualAuth)
	for {
		pending, err := e.session.AuthPending(ctx)
		if err != nil {
			// Markers unreadable usually means the surface moved past the
			// login screen; proceed and let the first send tell the truth.
			logger.Warn("auth probe failed, assuming session is ready", "err", err)
			break
		}
		if !pending {
			break
		}
		logger.Debug("waiting for operator QR scan")
		if err := e.sleep(ctx, e.opts.AuthPollInterval); err != nil {
			return err
		}
	}
	e.setState(StateReady)
	return nil
}

// sendOne delivers the campaign message to a single recipient with bounded
// retries. Retry exhaustion is recorded and the run moves on.
func (e *Engine) sendOne(ctx context.Context, campaign *domain.Campaign, rec domain.Recipient) Attempt {
	att := Attempt{RecipientID: rec.ID, Phone: NormalizePhone(rec.Phone, e.opts.CountryCode)}

	tok, err := e.codec.Encode(rec.ID, campaign.ID)
	if err != nil {
		att.Error = err.Error()
		e.audit.Record(ctx, "delivery", "token encode failed", err.Error())
		return att
	}
	link := e.opts.BaseURL + "?data=" + tok
	message := e.renderer.Render(campaign.Message, rec, link)

	for try := 1; try <= e.opts.MaxRetries; try++ {
		att.Tries = try
		err := e.attemptSend(ctx, att.Phone, message)
		if err == nil {
			att.Sent = true
			att.Error = ""
			return att
		}
		att.Error = err.Error()
		logger.Warn("send attempt failed", "recipient_id", rec.ID,
			"phone", att.Phone, "try", try, "err", err)
		if ctx.Err() != nil {
			break
		}
	}

	e.audit.Record(ctx, "delivery", "recipient delivery failed",
		fmt.Sprintf("recipient %d failed after %d tries: %s", rec.ID, att.Tries, att.Error))
	return att
}

// attemptSend is one delivery attempt: open the conversation view, wait for
// the compose surface with a bounded poll, commit.
func (e *Engine) attemptSend(ctx context.Context, phone, message string) error {
	if err := e.session.OpenConversation(ctx, phone, message); err != nil {
		return fmt.Errorf("open conversation: %w", err)
	}

	ready := false
	for i := 0; i < e.opts.ComposePollLimit; i++ {
		ok, err := e.session.ComposeReady(ctx)
		if err == nil && ok {
			ready = true
			break
		}
		if err := e.sleep(ctx, e.opts.ComposePollInterval); err != nil {
			return err
		}
	}
	if !ready {
		return errComposeTimeout
	}

	if err := e.session.CommitSend(ctx); err != nil {
		return fmt.Errorf("commit send: %w", err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
