package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mvanek/accountd/internal/domain"
	"github.com/mvanek/accountd/internal/handler"
	"github.com/mvanek/accountd/internal/notify"
	"github.com/mvanek/accountd/internal/password"
	"github.com/mvanek/accountd/internal/repository/sqlite"
	"github.com/mvanek/accountd/internal/service"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "accountd.db")
	baseURL := envOrDefault("BASE_URL", "http://localhost:"+port)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if len(jwtSecret) < 32 {
		slog.Error("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
		os.Exit(1)
	}

	// Default to secure cookies; disable only for local development.
	cookieSecure := os.Getenv("COOKIE_SECURE") != "false"

	bcryptCost := password.DefaultCost
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			slog.Error("invalid BCRYPT_COST", "error", err)
			os.Exit(1)
		}
		bcryptCost = parsed
	}

	tokenTTL := 48 * time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			slog.Error("invalid TOKEN_TTL", "value", v, "error", err)
			os.Exit(1)
		}
		tokenTTL = parsed
	}

	hasher, err := password.NewHasher(bcryptCost)
	if err != nil {
		slog.Error("invalid BCRYPT_COST", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	var notifier domain.Notifier
	if apiKey := os.Getenv("MAIL_API_KEY"); apiKey != "" {
		from := envOrDefault("MAIL_FROM", "noreply@localhost")
		fromName := envOrDefault("MAIL_FROM_NAME", "Accounts")
		notifier = notify.NewEmailNotifier(apiKey, from, fromName)
		slog.Info("mail notifier configured", "from", from)
	} else {
		notifier = notify.NewLogNotifier()
		slog.Warn("MAIL_API_KEY not set, notifications go to the log only")
	}

	tokens := service.NewTokenStore(db.Tokens(), tokenTTL)
	auth := service.NewAuthService(db.Users(), tokens, hasher, notifier, baseURL)
	sessions := service.NewSessionManager(jwtSecret, 24*time.Hour)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, sessions, db.Users(), cookieSecure)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler.SecurityHeaders(handler.RequestID(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Housekeeping sweep for expired token rows. Expired tokens are
	// rejected at lookup regardless; this only reclaims space.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := tokens.SweepExpired(ctx)
				if err != nil {
					slog.Error("sweep expired tokens", "error", err)
					continue
				}
				if deleted > 0 {
					slog.Info("swept expired tokens", "count", deleted)
				}
			}
		}
	}()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
