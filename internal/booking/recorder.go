package booking

import (
	"context"
	"fmt"

	"event-booking/internal/catalog"
	"event-booking/internal/models"
	"event-booking/internal/validation"

	"go.uber.org/zap"
)

// Recorder receives every accepted booking. Nothing in the app reads a
// booking back.
type Recorder interface {
	Record(ctx context.Context, b *models.BookingRequest) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, b *models.BookingRequest) error

func (f RecorderFunc) Record(ctx context.Context, b *models.BookingRequest) error {
	return f(ctx, b)
}

// Recorders fans a booking out to each recorder in order and stops at the
// first error.
type Recorders []Recorder

func (rs Recorders) Record(ctx context.Context, b *models.BookingRequest) error {
	for i, r := range rs {
		if err := r.Record(ctx, b); err != nil {
			return fmt.Errorf("recorder %d: %w", i, err)
		}
	}
	return nil
}

// LogRecorder writes one line per accepted booking, with services under
// their catalog names.
type LogRecorder struct {
	log     *zap.Logger
	catalog *catalog.Catalog
}

func NewLogRecorder(log *zap.Logger, cat *catalog.Catalog) *LogRecorder {
	return &LogRecorder{log: log, catalog: cat}
}

func (r *LogRecorder) Record(_ context.Context, b *models.BookingRequest) error {
	r.log.Info("new booking",
		zap.String("id", b.ID),
		zap.String("name", b.FullName),
		zap.String("event_type", b.EventType),
		zap.String("event_date", b.FormattedDate()),
		zap.String("phone", validation.FormatPhone(b.Phone)),
		zap.Strings("services", r.serviceNames(b.RequiredServices)),
	)
	return nil
}

func (r *LogRecorder) serviceNames(ids []string) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = r.catalog.ServiceName(id)
	}
	return names
}
