// Package tracking serves the recipient-facing landing flow: the /redirect
// link from outbound messages and the /login form on the simulated capture
// page. Both write to the append-only engagement log. Recipients only ever
// see the capture page, the awareness page, or a generic invalid-link
// message; internals are never echoed back.
package tracking

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/phishsim/internal/audit"
	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/httputil"
	"github.com/ignite/phishsim/internal/pkg/logger"
	"github.com/ignite/phishsim/internal/token"
)

const invalidLinkMessage = "Invalid or expired link. Please contact your IT/security team."

// Handler wires the landing endpoints to the token codec and event store.
type Handler struct {
	codec *token.Codec
	store EventStore
	audit audit.Logger
}

// NewHandler creates the landing handler.
func NewHandler(codec *token.Codec, store EventStore, auditLog audit.Logger) *Handler {
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	return &Handler{codec: codec, store: store, audit: auditLog}
}

// Routes returns the HTTP routes for the awareness server.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleRoot)
	r.Get("/redirect", h.HandleRedirect)
	r.Post("/login", h.HandleLogin)
	r.Get("/health", h.HandleHealth)
	r.Get("/api/events", h.HandleEvents)
	return r
}

// HandleRoot is a plain liveness page.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("WPS Awareness Server is running!"))
}

// HandleRedirect resolves a campaign link click. A valid token appends an
// "opened" event (unconditionally: repeat opens each append a new event) and
// renders the simulated login page. Any decode failure gets the same generic
// 400 and is logged internally with detail.
func (h *Handler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("data")

	recipientID, campaignID, err := h.codec.Decode(raw)
	if err != nil {
		logger.Warn("token decode rejected", "err", err, "ip", realIP(r))
		h.audit.Record(r.Context(), "tracking", "token decode rejected", err.Error())
		http.Error(w, invalidLinkMessage, http.StatusBadRequest)
		return
	}

	ev := &domain.EngagementEvent{
		RecipientID: recipientID,
		CampaignID:  campaignID,
		Kind:        domain.EventOpened,
		UserAgent:   r.UserAgent(),
		IPAddress:   realIP(r),
		OccurredAt:  time.Now().UTC(),
	}
	if err := h.store.AppendEvent(r.Context(), ev); err != nil {
		// The teaching moment still happens even if the log write fails.
		logger.Error("append opened event failed", "err", err,
			"recipient_id", recipientID, "campaign_id", campaignID)
		h.audit.Record(r.Context(), "tracking", "append opened event failed", err.Error())
	}

	renderLogin(w, recipientID, campaignID)
}

// HandleLogin receives the simulated credential submission and renders the
// awareness page. It always answers 200: the goal is to complete the
// teaching moment, not to validate input. The recipient/campaign ids come
// from hidden form fields populated by HandleRedirect.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderAwareness(w)
		return
	}

	recipientID, errR := strconv.ParseInt(r.PostFormValue("user_id"), 10, 64)
	campaignID, errC := strconv.ParseInt(r.PostFormValue("campaign_id"), 10, 64)
	if errR != nil || errC != nil {
		logger.Warn("login submission with unparsable ids",
			"user_id", r.PostFormValue("user_id"), "campaign_id", r.PostFormValue("campaign_id"))
		h.audit.Record(r.Context(), "tracking", "login submission with unparsable ids", "")
		renderAwareness(w)
		return
	}

	ev := &domain.EngagementEvent{
		RecipientID:    recipientID,
		CampaignID:     campaignID,
		Kind:           domain.EventCompromised,
		SubmittedEmail: r.PostFormValue("submitted_email"),
		SubmittedPass:  r.PostFormValue("submitted_pass"),
		UserAgent:      r.UserAgent(),
		IPAddress:      realIP(r),
		OccurredAt:     time.Now().UTC(),
	}
	if err := h.store.AppendEvent(r.Context(), ev); err != nil {
		logger.Error("append compromised event failed", "err", err,
			"recipient_id", recipientID, "campaign_id", campaignID)
		h.audit.Record(r.Context(), "tracking", "append compromised event failed", err.Error())
	}

	logger.Info("credentials captured", "recipient_id", recipientID,
		"campaign_id", campaignID, "submitted_email", ev.SubmittedEmail)
	renderAwareness(w)
}

// HandleHealth reports liveness for deployment probes.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}

// HandleEvents returns recent engagement events for the operator debrief.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	events, err := h.store.ListEvents(r.Context(), limit)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, events)
}

func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
