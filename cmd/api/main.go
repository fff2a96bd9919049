package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"event-booking/internal/config"
	"event-booking/internal/database"
	"event-booking/internal/logger"
	"event-booking/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logg, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logg.Sync()

	if err := run(cfg, logg); err != nil {
		logg.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	// The journal is optional; without DATABASE_URL bookings only go to the log.
	var db database.Service
	if cfg.DatabaseURL != "" {
		journal, err := database.New(context.Background(), cfg.DatabaseURL, logg)
		if err != nil {
			return fmt.Errorf("open booking journal: %w", err)
		}
		db = journal
	}

	app, err := server.NewServer(cfg, logg, db)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := app.HTTPServer()

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	// Channel to receive errors from the server
	errChan := make(chan error, 1)

	go func() {
		logg.Info("server started", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Wait for an interrupt or server error
	select {
	case err := <-errChan:
		return fmt.Errorf("serve: %w", err)
	case sig := <-stop:
		logg.Info("shutting down", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}

		logg.Info("server gracefully stopped")
	}

	return nil
}
