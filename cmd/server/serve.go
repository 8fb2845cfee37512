package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/gdg-garage/event-registration-api/internal/config"
	"github.com/gdg-garage/event-registration-api/internal/database"
	"github.com/gdg-garage/event-registration-api/internal/handlers"
	"github.com/gdg-garage/event-registration-api/internal/notifier"
	"github.com/gdg-garage/event-registration-api/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	seed, _ := cmd.Flags().GetBool("seed")

	// Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Connect to Database
	db := database.Connect(cfg)
	defer database.Close(db)

	if seed {
		if err := database.Seed(cmd.Context(), db, time.Now()); err != nil {
			return err
		}
		log.Println("Sample data inserted")
	}

	// Initialize Handlers
	opts := []service.Option{service.WithTxTimeout(cfg.TxTimeout)}
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, cfg,
		handlers.NewUserHandler(service.NewUserService(db, opts...)),
		handlers.NewEventHandler(service.NewEventService(db, opts...)),
		handlers.NewRegistrationHandler(service.NewRegistrationService(db, newNotifier(cfg), opts...)),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

func newNotifier(cfg *config.Config) notifier.Notifier {
	if cfg.DiscordBotToken == "" {
		return notifier.Nop{}
	}
	n, err := notifier.NewDiscordNotifier(cfg.DiscordBotToken, cfg.DiscordNotificationsChannelID)
	if err != nil {
		log.Printf("Discord notifier not initialized: %v", err)
		return notifier.Nop{}
	}
	return n
}
