// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aurastudio/booking-api/internal/config"
	"github.com/aurastudio/booking-api/internal/database"
	"github.com/aurastudio/booking-api/internal/handler"
	"github.com/aurastudio/booking-api/internal/ledger"
	"github.com/aurastudio/booking-api/internal/logger"
	"github.com/aurastudio/booking-api/internal/repository"
	"github.com/aurastudio/booking-api/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// ── 1. Connect to PostgreSQL and apply migrations ────────────────────
	pool, err := database.NewPool(startupCtx, cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(startupCtx, pool); err != nil {
		zlog.Fatal("database migration failed", zap.Error(err))
	}
	zlog.Info("connected to PostgreSQL")

	// ── 2. Wire up layers ────────────────────────────────────────────────
	instructorRepo := repository.NewInstructorRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	seatLedger := ledger.NewPostgresLedger(pool)

	instructorSvc := service.NewInstructorService(instructorRepo)
	eventSvc := service.NewEventService(eventRepo, instructorRepo, bookingRepo)
	bookingSvc := service.NewBookingService(eventRepo, bookingRepo, seatLedger, zlog)

	h := handler.New(instructorSvc, eventSvc, bookingSvc, zlog)

	// ── 3. Build the router ──────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer)     // recover from panics, return 500
	r.Use(chimiddleware.RequestID)     // attach request IDs
	r.Use(chimiddleware.RealIP)        // trust X-Forwarded-For
	r.Use(handler.RequestLogger(zlog)) // structured access log
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
		MaxAge:         300,
	}))

	r.Mount("/", h.Routes())

	// ── 4. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("graceful shutdown failed", zap.Error(err))
	}
	zlog.Info("server stopped")
}
