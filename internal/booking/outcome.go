package booking

import (
	"fmt"

	"event-booking/internal/models"
	"event-booking/internal/validation"
)

type OutcomeKind int

const (
	// Accepted means the request passed validation and was recorded.
	Accepted OutcomeKind = iota
	// Rejected means at least one field rule failed.
	Rejected
	// Failed means something other than a field rule went wrong.
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// FailureKind narrows down a Failed outcome for logs. Users always see the
// same generic message.
type FailureKind string

const (
	FailureDecode   FailureKind = "decode"
	FailureValidate FailureKind = "validate"
	FailureRecord   FailureKind = "record"
	FailureInternal FailureKind = "internal"
)

// Outcome is the result of one submission.
type Outcome struct {
	Kind    OutcomeKind
	Failure FailureKind
	Booking *models.BookingRequest
	Errors  validation.FieldErrors
	Err     error
}

// SuccessMessage is the one-time confirmation text for an accepted booking.
func (o Outcome) SuccessMessage() string {
	if o.Booking == nil {
		return ""
	}
	return fmt.Sprintf(
		"Thank you %s! Your booking request has been submitted. We'll contact you within 24 hours.",
		o.Booking.FullName,
	)
}

// FormErrors returns the form-level messages shown above the fields.
func (o Outcome) FormErrors() []string {
	if o.Kind != Failed {
		return nil
	}
	return []string{validation.GenericError}
}

// Failure builds a Failed outcome for b.
func Failure(kind FailureKind, b *models.BookingRequest, err error) Outcome {
	return Outcome{Kind: Failed, Failure: kind, Booking: b, Err: err}
}
