package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mvanek/accountd/internal/domain"
	"github.com/mvanek/accountd/internal/service"
)

// The taxonomy of token failures and the existence of accounts is mapped
// to caller-visible messages here and nowhere deeper. In particular, an
// unknown token, an expired token, and an already-used token all produce
// invalidLinkMessage, and forgot-password always produces forgotMessage.
const (
	invalidLinkMessage   = "This link is invalid or has expired."
	forgotMessage        = "If an account exists for that login, a password reset link has been sent."
	internalErrorMessage = "An unexpected error occurred. Please try again."
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth         *service.AuthService
	sessions     *service.SessionManager
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionManager, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookieSecure: cookieSecure}
}

// HandleSignup processes a JSON signup request and dispatches an
// activation email.
// POST /api/auth/signup
// Request:  {"email":"...","login":"...","password":"...","confirmPassword":"...","firstName":"...","lastName":"..."}
// Response: {"user": {...}}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email           string `json:"email"`
		Login           string `json:"login"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		FirstName       string `json:"firstName"`
		LastName        string `json:"lastName"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.Signup(r.Context(), req.Email, req.Login, req.Password, req.ConfirmPassword, req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateLogin):
			writeError(w, http.StatusConflict, "An account with that login already exists.")
		case errors.Is(err, domain.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, "An account with that email already exists.")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.Error("signup user", "error", err)
			writeError(w, http.StatusInternalServerError, internalErrorMessage)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleActivate consumes an activation capability link.
// GET /api/auth/activate/{token}
// Response: {"user": {...}} or a generic invalid-link error.
func (h *AuthHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Activate(r.Context(), r.PathValue("token"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			writeError(w, http.StatusBadRequest, invalidLinkMessage)
			return
		}
		slog.Error("activate user", "error", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleLogin processes a JSON login request and sets the session cookie.
// POST /api/auth/login
// Request:  {"login":"...","password":"..."}
// Response: {"user": {...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid login or password.")
		case errors.Is(err, domain.ErrNotActivated):
			writeError(w, http.StatusForbidden, "Your account is not activated yet. Check your email for the activation link.")
		default:
			slog.Error("login user", "error", err)
			writeError(w, http.StatusInternalServerError, internalErrorMessage)
		}
		return
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		slog.Error("issue session", "error", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.TTL().Seconds()),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleLogout clears the session cookie.
// POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleForgot processes a forgot-password request. The response is
// identical whether or not the login exists.
// POST /api/auth/forgot
// Request:  {"login":"..."}
// Response: {"message":"..."}
func (h *AuthHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login string `json:"login"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), req.Login); err != nil {
		slog.Error("forgot password", "error", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": forgotMessage})
}

// HandleReset consumes a reset capability link and applies a new password.
// POST /api/auth/reset/{token}
// Request:  {"password":"...","confirmPassword":"..."}
// Response: {"user": {...}} or a generic invalid-link error.
func (h *AuthHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.ResetPassword(r.Context(), r.PathValue("token"), req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrInvalidToken):
			writeError(w, http.StatusBadRequest, invalidLinkMessage)
		default:
			slog.Error("reset password", "error", err)
			writeError(w, http.StatusInternalServerError, internalErrorMessage)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleChangePassword overwrites the password of the authenticated user.
// POST /api/auth/password (requires auth)
// Request:  {"password":"...","confirmPassword":"..."}
// Response: 204 No Content
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.auth.ChangePassword(r.Context(), user, req.Password, req.ConfirmPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("change password", "error", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the currently authenticated user.
// GET /api/auth/me (requires auth)
// Response: {"user": {...}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}
