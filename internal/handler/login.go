package handler

import (
	"log/slog"
	"net/http"

	"github.com/samims/stillup/internal/gate"
	"github.com/samims/stillup/internal/identity"
	"github.com/samims/stillup/internal/session"
)

const signUpAlert = "Check your email for the confirmation link!"

type loginPage struct {
	Email string
	Alert string
}

type LoginHandler struct {
	auth          identity.Service
	secureCookies bool
	logger        *slog.Logger
}

func NewLoginHandler(auth identity.Service, secureCookies bool, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{
		auth:          auth,
		secureCookies: secureCookies,
		logger:        logger.With("layer", "handler", "component", "loginHandler"),
	}
}

func (h *LoginHandler) Show(w http.ResponseWriter, r *http.Request) {
	render(w, h.logger, loginTmpl, http.StatusOK, loginPage{})
}

// Submit handles both form buttons; the action field tells them apart.
func (h *LoginHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	if r.PostFormValue("action") == "signup" {
		h.signUp(w, r, email, password)
		return
	}
	h.signIn(w, r, email, password)
}

func (h *LoginHandler) signIn(w http.ResponseWriter, r *http.Request, email, password string) {
	sess, err := h.auth.SignIn(r.Context(), email, password)
	if err != nil {
		h.logger.Info("sign in failed", slog.String("email", email), slog.String("error", err.Error()))
		render(w, h.logger, loginTmpl, http.StatusOK, loginPage{Email: email, Alert: err.Error()})
		return
	}

	if err := session.Mirror(w, r, sess, h.secureCookies); err != nil {
		h.logger.Error("failed to mirror session", slog.Any("error", err))
		render(w, h.logger, loginTmpl, http.StatusOK, loginPage{Email: email, Alert: err.Error()})
		return
	}
	http.Redirect(w, r, gate.DashboardPath, http.StatusSeeOther)
}

func (h *LoginHandler) signUp(w http.ResponseWriter, r *http.Request, email, password string) {
	alert := signUpAlert
	if _, err := h.auth.SignUp(r.Context(), email, password); err != nil {
		h.logger.Info("sign up failed", slog.String("email", email), slog.String("error", err.Error()))
		alert = err.Error()
	}
	render(w, h.logger, loginTmpl, http.StatusOK, loginPage{Email: email, Alert: alert})
}
