// Package whatsapp implements delivery.Session against WhatsApp Web using a
// Chrome instance driven over the DevTools protocol. The browser profile is
// persistent, so the operator scans the QR code once per profile; later runs
// find the session already authenticated.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/ignite/phishsim/internal/pkg/logger"
)

const webURL = "https://web.whatsapp.com/"

// WhatsApp Web markup shifts between releases; the compose box is looked up
// with the current selector first and a general fallback second.
const (
	qrCanvasSel        = `canvas[aria-label="Scan me!"]`
	continueAnchorSel  = `//a[contains(@href,"web.whatsapp.com/send")]`
	composePrimarySel  = `//div[@contenteditable="true"][@data-tab="10"]`
	composeFallbackSel = `//div[@contenteditable="true"]`
)

// Session is one authenticated WhatsApp Web browser session.
type Session struct {
	browserCtx   context.Context
	cancelTab    context.CancelFunc
	cancelAlloc  context.CancelFunc
	composeQuery string
}

// New launches Chrome with the persistent profile and opens WhatsApp Web.
// The returned session is in the unauthenticated or already-authenticated
// state; callers poll AuthPending to find out which.
func New(ctx context.Context, profileDir string) (*Session, error) {
	abs, err := filepath.Abs(profileDir)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: resolve profile dir: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(abs),
		// The operator has to see the window to scan the QR code.
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("start-maximized", true),
		chromedp.Flag("lang", "en"),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelTab := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx, chromedp.Navigate(webURL)); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("whatsapp: open %s: %w", webURL, err)
	}

	logger.Info("whatsapp web opened", "profile", abs)
	return &Session{
		browserCtx:  browserCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}, nil
}

// run executes chromedp actions against the browser tab with a bounded
// timeout, honoring the caller's context.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tabCtx, cancel := context.WithTimeout(s.browserCtx, timeout)
	defer cancel()
	return chromedp.Run(tabCtx, actions...)
}

// AuthPending reports whether the QR login canvas is still on screen.
func (s *Session) AuthPending(ctx context.Context) (bool, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, 5*time.Second,
		chromedp.Nodes(qrCanvasSel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return false, fmt.Errorf("whatsapp: probe QR canvas: %w", err)
	}
	return len(nodes) > 0, nil
}

// OpenConversation navigates to the wa.me deep link for the phone number
// with the message prefilled, and clicks through the interstitial when
// WhatsApp shows one.
func (s *Session) OpenConversation(ctx context.Context, phone, message string) error {
	s.composeQuery = ""

	deepLink := fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
	err := s.run(ctx, 30*time.Second,
		chromedp.Navigate(deepLink),
		chromedp.Sleep(4*time.Second),
	)
	if err != nil {
		return fmt.Errorf("whatsapp: open conversation: %w", err)
	}

	// Older flows land on a "Continue to Chat" page instead of the chat.
	var anchors []*cdp.Node
	err = s.run(ctx, 5*time.Second,
		chromedp.Nodes(continueAnchorSel, &anchors, chromedp.BySearch, chromedp.AtLeast(0)))
	if err == nil && len(anchors) > 0 {
		if err := s.run(ctx, 15*time.Second,
			chromedp.MouseClickNode(anchors[0]),
			chromedp.Sleep(4*time.Second),
		); err != nil {
			return fmt.Errorf("whatsapp: continue to chat: %w", err)
		}
	}
	return nil
}

// ComposeReady looks for the message compose box. The matched selector is
// remembered for CommitSend.
func (s *Session) ComposeReady(ctx context.Context) (bool, error) {
	for _, sel := range []string{composePrimarySel, composeFallbackSel} {
		var nodes []*cdp.Node
		err := s.run(ctx, 3*time.Second,
			chromedp.Nodes(sel, &nodes, chromedp.BySearch, chromedp.AtLeast(0)))
		if err != nil {
			return false, fmt.Errorf("whatsapp: probe compose box: %w", err)
		}
		if len(nodes) > 0 {
			s.composeQuery = sel
			return true, nil
		}
	}
	return false, nil
}

// CommitSend focuses the compose box and commits the prefilled message with
// Enter.
func (s *Session) CommitSend(ctx context.Context) error {
	if s.composeQuery == "" {
		return errors.New("whatsapp: compose box not located")
	}
	err := s.run(ctx, 15*time.Second,
		chromedp.Click(s.composeQuery, chromedp.BySearch),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.KeyEvent(kb.Enter),
		// Let the send land before the next navigation.
		chromedp.Sleep(1500*time.Millisecond),
	)
	if err != nil {
		return fmt.Errorf("whatsapp: commit send: %w", err)
	}
	return nil
}

// Close shuts the browser down. The user-data dir keeps the authenticated
// state for the next run.
func (s *Session) Close() error {
	s.cancelTab()
	s.cancelAlloc()
	return nil
}
