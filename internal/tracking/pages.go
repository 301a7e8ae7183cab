package tracking

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/ignite/phishsim/internal/pkg/logger"
)

//go:embed templates/*.html
var pageFS embed.FS

var pages = template.Must(template.ParseFS(pageFS, "templates/*.html"))

// renderLogin renders the simulated credential-capture page with the
// recovered ids as hidden fields, so the submission can reference them
// without re-parsing the token.
func renderLogin(w http.ResponseWriter, recipientID, campaignID int64) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pages.ExecuteTemplate(w, "login.html", map[string]int64{
		"UserID":     recipientID,
		"CampaignID": campaignID,
	})
	if err != nil {
		logger.Error("render login page failed", "err", err)
	}
}

// renderAwareness renders the educational page shown after submission.
func renderAwareness(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, "awareness.html", nil); err != nil {
		logger.Error("render awareness page failed", "err", err)
	}
}
