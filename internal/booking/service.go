package booking

import (
	"context"
	"fmt"
	"time"

	"event-booking/internal/catalog"
	"event-booking/internal/models"
	"event-booking/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs the booking intake: defaults for a fresh form, validation and
// recording of submissions. It holds no per-request state.
type Service struct {
	catalog   *catalog.Catalog
	validator *validation.Validator
	recorder  Recorder
	log       *zap.Logger
	now       func() time.Time
}

func NewService(
	cat *catalog.Catalog,
	validator *validation.Validator,
	recorder Recorder,
	log *zap.Logger,
	now func() time.Time,
) *Service {
	return &Service{
		catalog:   cat,
		validator: validator,
		recorder:  recorder,
		log:       log,
		now:       now,
	}
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Service) Rules() validation.Rules {
	return s.validator.Rules()
}

// NewRequest returns the request a fresh page view starts from.
func (s *Service) NewRequest() *models.BookingRequest {
	return models.NewBookingRequest(s.now())
}

// Submit validates b and, when it passes, records it. decodeErrs carries
// field problems found while reading the form; they take precedence over
// rule failures on the same field.
func (s *Service) Submit(ctx context.Context, b *models.BookingRequest, decodeErrs validation.FieldErrors) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Failure(FailureInternal, b, fmt.Errorf("panic: %v", r))
			s.logFailure(out)
		}
	}()

	fe, err := s.validator.Validate(b)
	if err != nil {
		out = Failure(FailureValidate, b, err)
		s.logFailure(out)
		return out
	}

	if len(decodeErrs) > 0 {
		merged := make(validation.FieldErrors, len(decodeErrs)+len(fe))
		merged.Merge(decodeErrs)
		merged.Merge(fe)
		fe = merged
	}

	if len(fe) > 0 {
		s.log.Debug("booking rejected", zap.Int("fields", len(fe)))
		return Outcome{Kind: Rejected, Booking: b, Errors: fe}
	}

	b.ID = uuid.NewString()
	b.SubmittedAt = s.now()
	b.Status = models.BookingStatusPending

	if err := s.recorder.Record(ctx, b); err != nil {
		out = Failure(FailureRecord, b, fmt.Errorf("record booking %s: %w", b.ID, err))
		s.logFailure(out)
		return out
	}

	return Outcome{Kind: Accepted, Booking: b}
}

func (s *Service) logFailure(out Outcome) {
	s.log.Error("booking submission failed",
		zap.String("failure", string(out.Failure)),
		zap.Error(out.Err),
	)
}
