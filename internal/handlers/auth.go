package handlers

import (
	"errors"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/metrics"
	"github.com/shrimpsizemoose/semla/internal/store"
)

func (h *PageHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, registerTmpl, authData{})
}

func (h *PageHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")

	_, err := h.service.Register(username, r.FormValue("password"))
	switch {
	case errors.Is(err, app.ErrEmptyCredentials):
		render(w, http.StatusBadRequest, registerTmpl, authData{Notice: "Username and password are required"})
		return
	case errors.Is(err, store.ErrUsernameTaken):
		render(w, http.StatusConflict, registerTmpl, authData{Notice: "Username is already taken"})
		return
	case err != nil:
		logger.Error.Printf("Failed to register %q: %v", username, err)
		render(w, http.StatusInternalServerError, registerTmpl, authData{Notice: "Something went wrong on the server"})
		return
	}

	logger.Info.Printf("Registered user %q", username)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *PageHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, loginTmpl, authData{})
}

func (h *PageHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")

	user, err := h.service.Authenticate(username, r.FormValue("password"))
	if err != nil {
		// the cause stays in the debug log; the page never says which
		// of the two it was
		switch {
		case errors.Is(err, app.ErrUnknownUser):
			logger.Debug.Printf("Login failed: unknown username %q", username)
		case errors.Is(err, app.ErrBadPassword):
			logger.Debug.Printf("Login failed: wrong password for %q", username)
		default:
			logger.Error.Printf("Login failed for %q: %v", username, err)
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
			render(w, http.StatusInternalServerError, loginTmpl, authData{Notice: "Something went wrong on the server"})
			return
		}
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		render(w, http.StatusUnauthorized, loginTmpl, authData{Notice: "Invalid username or password"})
		return
	}

	cookie, err := h.service.StartSession(r, user.Username)
	if err != nil {
		logger.Error.Printf("Failed to start session for %q: %v", user.Username, err)
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		render(w, http.StatusInternalServerError, loginTmpl, authData{Notice: "Something went wrong on the server"})
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	http.SetCookie(w, cookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.EndSession(r); err != nil {
		logger.Error.Printf("Failed to end session: %v", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:   h.service.Config.Sessions.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
