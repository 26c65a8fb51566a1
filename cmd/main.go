// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/eventline/registration/internal/captcha"
	"github.com/eventline/registration/internal/config"
	"github.com/eventline/registration/internal/handler"
	"github.com/eventline/registration/internal/service"
	"github.com/eventline/registration/internal/session"
	"github.com/eventline/registration/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ── 1. Select and connect the registration store ─────────────────────
	st, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()
	log.Printf("✓ Using %s registration store", cfg.Backend())

	// ── 2. Wire up layers ────────────────────────────────────────────────
	var validator captcha.Validator
	if cfg.CaptchaEnabled {
		validator = captcha.NewTurnstile(cfg.CaptchaSecret)
		log.Println("✓ Captcha enforcement enabled")
	}
	regSvc := service.NewRegistrationService(st, validator)
	sessions := session.NewIssuer(cfg.SessionSecret, cfg.Production())
	regHandler := handler.NewRegistrationHandler(regSvc, sessions)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS for demo

	// Wrong verbs report method_unknown rather than chi's default 405.
	r.MethodNotAllowed(handler.MethodNotAllowed)

	// Health
	r.Get("/health", handler.HealthCheck)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", regHandler.Register)
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("✓ Server listening on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

// newStore picks the first configured backend: Redis, then Postgres, then
// the sample store with no persistence.
func newStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	switch cfg.Backend() {
	case config.BackendRedis:
		rs, err := store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	case config.BackendPostgres:
		ps, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return ps, ps.Close, nil
	default:
		return store.NewSampleStore(), func() {}, nil
	}
}
