package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matchpoint-club/matchpoint/internal/auth"
	"github.com/matchpoint-club/matchpoint/internal/availability"
	"github.com/matchpoint-club/matchpoint/internal/config"
	"github.com/matchpoint-club/matchpoint/internal/database"
	server "github.com/matchpoint-club/matchpoint/internal/http"
	"github.com/matchpoint-club/matchpoint/internal/ladder"
	"github.com/matchpoint-club/matchpoint/internal/match"
	"github.com/matchpoint-club/matchpoint/internal/metrics"
	"github.com/matchpoint-club/matchpoint/internal/notifier"
	"github.com/matchpoint-club/matchpoint/internal/notifier/email"
	"github.com/matchpoint-club/matchpoint/internal/notifier/slack"
	"github.com/matchpoint-club/matchpoint/internal/player"
	"github.com/matchpoint-club/matchpoint/internal/pubsub"
	"github.com/matchpoint-club/matchpoint/internal/weather"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	emailNotifier, err := email.NewNotifier(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, metricsSvc)
	if err != nil {
		log.Fatalf("Failed to initialize mail client: %s", err)
	}
	sinks := []notifier.Notifier{emailNotifier}
	if cfg.Slack.Token != "" {
		sinks = append(sinks, slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc))
	}

	s := server.NewServer(
		player.New(db),
		ladder.New(db),
		availability.New(db),
		match.New(db),
		auth.NewSessions(db, time.Duration(cfg.Session.TTLHours)*time.Hour),
		weather.New(db),
		weather.NewClient(cfg.Weather.BaseURL),
		notifier.NewFanout(sinks...),
		metricsSvc,
		metricsHandler,
		cfg,
		pubsub.New(cfg.ProjectID),
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
