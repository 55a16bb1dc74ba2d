// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventregistry/internal/config"
	"eventregistry/internal/database"
	"eventregistry/internal/handler"
	"eventregistry/internal/metrics"
	"eventregistry/internal/repository"
	"eventregistry/internal/service"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	logger := cfg.NewLogger()

	pool, err := database.NewPool(ctx, cfg)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		logger.Error("schema migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to postgres", "host", cfg.DBHost, "database", cfg.DBName)

	m := metrics.New(prometheus.DefaultRegisterer)

	eventStore := repository.NewPostgresEventStore(pool)
	attendeeStore := repository.NewPostgresAttendeeStore(pool)
	registrationStore := repository.NewPostgresRegistrationStore(pool)

	attendeeSvc := service.NewAttendeeService(attendeeStore)
	eventSvc := service.NewEventService(eventStore, registrationStore)
	registrationSvc := service.NewRegistrationService(eventStore, attendeeSvc, registrationStore, m)

	eventHandler := handler.NewEventHandler(eventSvc, registrationSvc, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.Logger(logger))
	r.Use(handler.Observe(m))
	r.Use(handler.CORS)

	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/events", func(r chi.Router) {
		r.Post("/", eventHandler.CreateEvent)
		r.Get("/", eventHandler.ListEvents)
		r.Get("/{id}", eventHandler.GetEvent)
		r.Put("/{id}", eventHandler.UpdateEvent)
		r.Delete("/{id}", eventHandler.DeleteEvent)
		r.Post("/{id}/register", eventHandler.Register)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
