package delivery

import (
	"strings"

	"github.com/osteele/liquid"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/logger"
)

// MessageRenderer personalizes campaign message templates with Liquid.
// Rendering is lax: a template error falls back to the raw template text so
// a bad template degrades to an unpersonalized message instead of blocking
// the run.
type MessageRenderer struct {
	engine *liquid.Engine
}

// NewMessageRenderer creates a renderer with the standard Liquid filters.
func NewMessageRenderer() *MessageRenderer {
	return &MessageRenderer{engine: liquid.NewEngine()}
}

// Render produces the final outbound message for one recipient. Templates
// may reference first_name, last_name, email, company, and phishing_url.
// The personalized link is appended on its own line when the template did
// not place it itself.
func (m *MessageRenderer) Render(tmpl string, rec domain.Recipient, link string) string {
	bindings := liquid.Bindings{
		"first_name":   rec.FirstName,
		"last_name":    rec.LastName,
		"email":        rec.Email,
		"company":      rec.Company,
		"phishing_url": link,
	}

	out, err := m.engine.ParseAndRenderString(tmpl, bindings)
	if err != nil {
		logger.Warn("message template render failed, using raw template", "err", err)
		out = tmpl
	}

	if !strings.Contains(out, link) {
		out = strings.TrimRight(out, "\n") + "\n" + link
	}
	return out
}
