package delivery

import (
	"strings"
	"testing"

	"github.com/ignite/phishsim/internal/domain"
)

func TestRenderPersonalizes(t *testing.T) {
	r := NewMessageRenderer()
	rec := domain.Recipient{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Company: "Acme"}

	out := r.Render("Hi {{ first_name }}, your {{ company }} session expired.", rec, "http://x/redirect?data=abc")

	if !strings.Contains(out, "Hi Ada, your Acme session expired.") {
		t.Errorf("rendered = %q", out)
	}
	if !strings.HasSuffix(out, "\nhttp://x/redirect?data=abc") {
		t.Errorf("link not appended on its own line: %q", out)
	}
}

func TestRenderTemplateCanPlaceLink(t *testing.T) {
	r := NewMessageRenderer()

	out := r.Render("Click here: {{ phishing_url }} today.", domain.Recipient{}, "http://x/redirect?data=abc")

	if !strings.Contains(out, "Click here: http://x/redirect?data=abc today.") {
		t.Errorf("rendered = %q", out)
	}
	if strings.Count(out, "http://x/redirect?data=abc") != 1 {
		t.Errorf("link should appear exactly once: %q", out)
	}
}

// A broken template must not block the run: the raw text goes out with the
// link appended.
func TestRenderLaxFallback(t *testing.T) {
	r := NewMessageRenderer()

	out := r.Render("Hi {% broken", domain.Recipient{}, "http://x/redirect?data=abc")

	if !strings.Contains(out, "Hi {% broken") {
		t.Errorf("raw template not preserved: %q", out)
	}
	if !strings.Contains(out, "http://x/redirect?data=abc") {
		t.Errorf("link missing: %q", out)
	}
}

func TestRenderPlainTemplate(t *testing.T) {
	r := NewMessageRenderer()

	out := r.Render("Please verify your account.", domain.Recipient{FirstName: "Ada"}, "http://x/redirect?data=abc")

	if out != "Please verify your account.\nhttp://x/redirect?data=abc" {
		t.Errorf("rendered = %q", out)
	}
}
