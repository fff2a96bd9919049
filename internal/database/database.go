package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"event-booking/internal/models"

	// PostgreSQL driver
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("booking journal not configured")

// Service is the booking journal: an append-only record of accepted
// bookings for staff follow-up. The app never reads bookings back.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error

	RecordBooking(ctx context.Context, b *models.BookingRequest) error
}

type service struct {
	db  *sql.DB
	log *zap.Logger
}

// New connects to databaseURL, applies migrations and returns the journal.
func New(ctx context.Context, databaseURL string, log *zap.Logger) (Service, error) {
	if databaseURL == "" {
		return nil, ErrNotConfigured
	}

	if err := migrateUp(databaseURL); err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	log.Info("booking journal connected")
	return &service{db: db, log: log}, nil
}

// Health pings the journal and reports pool statistics. It never fails the
// caller; a down journal is reported as "status": "down".
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.log.Warn("booking journal down", zap.Error(err))
		return map[string]string{
			"status": "down",
			"error":  fmt.Sprintf("db down: %v", err),
		}
	}

	st := s.db.Stats()
	stats := map[string]string{
		"status":           "up",
		"message":          "It's healthy",
		"open_connections": strconv.Itoa(st.OpenConnections),
		"in_use":           strconv.Itoa(st.InUse),
		"idle":             strconv.Itoa(st.Idle),
		"wait_count":       strconv.FormatInt(st.WaitCount, 10),
		"wait_duration":    st.WaitDuration.String(),
	}

	switch {
	case st.WaitCount > 1000:
		stats["message"] = "The journal has a high number of wait events."
	case st.OpenConnections > 100:
		stats["message"] = "The journal is under heavy load."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	s.log.Info("booking journal disconnected")
	return s.db.Close()
}

func (s *service) RecordBooking(ctx context.Context, b *models.BookingRequest) error {
	query := `
		INSERT INTO booking_requests (
			id, full_name, email, phone, event_date, event_time, event_type, location,
			estimated_guests, duration_hours, services, budget_range, additional_details,
			referral_source, needs_setup_time, needs_sound_check, status, submitted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := s.db.ExecContext(ctx, query,
		b.ID,
		b.FullName,
		b.Email,
		b.Phone,
		b.EventDate,
		nullIfEmpty(b.EventTime),
		b.EventType,
		b.Location,
		b.EstimatedGuests,
		b.DurationHours,
		strings.Join(b.RequiredServices, ","),
		nullIfEmpty(b.BudgetRange),
		nullIfEmpty(b.AdditionalDetails),
		nullIfEmpty(b.ReferralSource),
		b.NeedsSetupTime,
		b.NeedsSoundCheck,
		string(b.Status),
		b.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking request: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
