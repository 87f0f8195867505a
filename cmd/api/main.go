package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/MaraVoron/ya-note/internal/config"
	"github.com/MaraVoron/ya-note/internal/db"
	"github.com/MaraVoron/ya-note/internal/identity"
	"github.com/MaraVoron/ya-note/internal/notes"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		fatal("DATABASE_URL is required")
	}
	if cfg.AuthSecret == "" {
		fatal("AUTH_SECRET is required")
	}

	ctx := context.Background()

	dbConn, err := db.Open(ctx, cfg.DatabaseURL, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime)
	if err != nil {
		fatal("open database", "err", err)
	}
	defer dbConn.SQL.Close()

	if err := db.EnsureSchema(ctx, dbConn.SQL); err != nil {
		fatal("ensure schema", "err", err)
	}

	repo, err := notes.NewRepository(ctx, dbConn.SQL)
	if err != nil {
		fatal("prepare repository", "err", err)
	}
	defer repo.Close()

	auth := identity.NewTokenAuth(cfg.AuthSecret, cfg.AuthTokenTTL)
	if cfg.DevUser != "" {
		token, err := auth.Issue(cfg.DevUser)
		if err != nil {
			fatal("issue dev token", "err", err)
		}
		slog.Info("issued development token", "user", cfg.DevUser, "token", token)
	}

	svc := notes.NewService(repo)
	handler := identity.Middleware(auth)(notes.NewHandlers(svc).Routes())

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("notes service listening", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil {
		fatal("server stopped", "err", err)
	}
}

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}
