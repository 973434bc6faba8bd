package handler

import (
	"net/http"

	"github.com/mvanek/accountd/internal/domain"
	"github.com/mvanek/accountd/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, sessions *service.SessionManager, users domain.UserRepository, cookieSecure bool) {
	authHandler := NewAuthHandler(auth, sessions, cookieSecure)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/signup", authHandler.HandleSignup)
	mux.HandleFunc("GET /api/auth/activate/{token}", authHandler.HandleActivate)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.HandleFunc("POST /api/auth/forgot", authHandler.HandleForgot)
	mux.HandleFunc("POST /api/auth/reset/{token}", authHandler.HandleReset)

	mux.Handle("POST /api/auth/password", RequireAuth(sessions, users, http.HandlerFunc(authHandler.HandleChangePassword)))
	mux.Handle("GET /api/auth/me", RequireAuth(sessions, users, http.HandlerFunc(authHandler.HandleMe)))
}
