package models

import "time"

// DateLayout is the wire format of event dates in forms and redirects.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format of the optional event time.
const TimeLayout = "15:04"

type BookingStatus string

const BookingStatusPending BookingStatus = "Pending"

// BookingRequest is one prospective customer's event booking. The validate
// tags are the only declaration of the field rules; the client rule schema
// is derived from them.
type BookingRequest struct {
	ID                string        `json:"id,omitempty"`
	FullName          string        `json:"full_name" validate:"required,max=100"`
	Email             string        `json:"email" validate:"required,email"`
	Phone             string        `json:"phone" validate:"required,phone"`
	EventDate         time.Time     `json:"event_date" validate:"required,notpast"`
	EventTime         string        `json:"event_time,omitempty" validate:"omitempty,datetime=15:04"`
	EventType         string        `json:"event_type" validate:"required,eventtype"`
	Location          string        `json:"location" validate:"required,max=200"`
	EstimatedGuests   *int          `json:"estimated_guests,omitempty" validate:"omitempty,min=1,max=10000"`
	DurationHours     *int          `json:"duration_hours,omitempty" validate:"omitempty,min=1,max=24"`
	RequiredServices  []string      `json:"services" validate:"dive,service"`
	BudgetRange       string        `json:"budget_range,omitempty" validate:"omitempty,budget"`
	AdditionalDetails string        `json:"additional_details,omitempty" validate:"max=1000"`
	ReferralSource    string        `json:"referral_source,omitempty" validate:"max=100"`
	NeedsSetupTime    bool          `json:"needs_setup_time"`
	NeedsSoundCheck   bool          `json:"needs_sound_check"`
	SubmittedAt       time.Time     `json:"submitted_at"`
	Status            BookingStatus `json:"status"`
}

// NewBookingRequest returns the request shown on a fresh page view: the
// event a week out at 6 PM, both preparation flags on.
func NewBookingRequest(now time.Time) *BookingRequest {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	return &BookingRequest{
		EventDate:       today.AddDate(0, 0, 7),
		EventTime:       "18:00",
		NeedsSetupTime:  true,
		NeedsSoundCheck: true,
		SubmittedAt:     now,
		Status:          BookingStatusPending,
	}
}

// FormattedDate returns the event date in DateLayout, or "" when unset.
func (b *BookingRequest) FormattedDate() string {
	if b.EventDate.IsZero() {
		return ""
	}
	return b.EventDate.Format(DateLayout)
}
