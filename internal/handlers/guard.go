package handlers

import (
	"errors"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/session"
)

// requireSession fronts every protected handler. On failure it answers
// the request per the configured policy and reports ok=false; the
// handler must return without writing anything else.
func (h *PageHandler) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, err := h.service.RequireSession(r)
	if err == nil {
		return username, true
	}

	if !errors.Is(err, session.ErrNoSession) {
		logger.Error.Printf("Session lookup failed: %v", err)
	}

	switch h.service.Config.Auth.OnUnauthorized {
	case app.PolicyReject:
		http.Error(w, "Unauthorized", http.StatusForbidden)
	default:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
	return "", false
}
