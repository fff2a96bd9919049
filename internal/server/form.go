package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"event-booking/internal/models"
	"event-booking/internal/validation"

	"github.com/gorilla/schema"
)

const maxFormBytes = 64 << 10

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// bookingForm is the posted form as the user typed it. It is what the page
// shows again on redisplay.
type bookingForm struct {
	FullName          string   `schema:"full_name"`
	Email             string   `schema:"email"`
	Phone             string   `schema:"phone"`
	EventDate         string   `schema:"event_date"`
	EventTime         string   `schema:"event_time"`
	EventType         string   `schema:"event_type"`
	Location          string   `schema:"location"`
	EstimatedGuests   string   `schema:"estimated_guests"`
	DurationHours     string   `schema:"duration_hours"`
	Services          []string `schema:"services"`
	SelectedServices  string   `schema:"selected_services"`
	BudgetRange       string   `schema:"budget_range"`
	AdditionalDetails string   `schema:"additional_details"`
	ReferralSource    string   `schema:"referral_source"`
	NeedsSetupTime    bool     `schema:"needs_setup_time"`
	NeedsSoundCheck   bool     `schema:"needs_sound_check"`
}

// decodeBookingForm reads the posted form. Checkbox flags missing from the
// body keep their default of true; the page sends an explicit "false".
func decodeBookingForm(w http.ResponseWriter, r *http.Request) (*bookingForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	f := &bookingForm{NeedsSetupTime: true, NeedsSoundCheck: true}
	if err := formDecoder.Decode(f, r.PostForm); err != nil {
		return nil, err
	}
	return f, nil
}

// toModel converts the form into a request. Values that cannot be parsed at
// all are reported as field errors here; everything else is left to the
// validator.
func (f *bookingForm) toModel(loc *time.Location) (*models.BookingRequest, validation.FieldErrors) {
	errs := validation.FieldErrors{}

	b := &models.BookingRequest{
		FullName:          strings.TrimSpace(f.FullName),
		Email:             strings.TrimSpace(f.Email),
		Phone:             strings.TrimSpace(f.Phone),
		EventTime:         normalizeTime(strings.TrimSpace(f.EventTime)),
		EventType:         strings.TrimSpace(f.EventType),
		Location:          strings.TrimSpace(f.Location),
		RequiredServices:  f.services(),
		BudgetRange:       strings.TrimSpace(f.BudgetRange),
		AdditionalDetails: strings.TrimSpace(f.AdditionalDetails),
		ReferralSource:    strings.TrimSpace(f.ReferralSource),
		NeedsSetupTime:    f.NeedsSetupTime,
		NeedsSoundCheck:   f.NeedsSoundCheck,
		Status:            models.BookingStatusPending,
	}

	if d := strings.TrimSpace(f.EventDate); d != "" {
		t, err := time.ParseInLocation(models.DateLayout, d, loc)
		if err != nil {
			errs.Add("event_date", validation.Message("event_date", validation.TagInvalid))
		} else {
			b.EventDate = t
		}
	}

	b.EstimatedGuests = parseOptionalInt(f.EstimatedGuests, "estimated_guests", errs)
	b.DurationHours = parseOptionalInt(f.DurationHours, "duration_hours", errs)

	return b, errs
}

// services merges the checkbox values with the comma-joined list the
// script sends, keeping first-seen order.
func (f *bookingForm) services() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}

	for _, id := range f.Services {
		add(id)
	}
	for _, id := range strings.Split(f.SelectedServices, ",") {
		add(id)
	}
	return out
}

func (f *bookingForm) selected() map[string]bool {
	m := make(map[string]bool)
	for _, id := range f.services() {
		m[id] = true
	}
	return m
}

func formFromModel(b *models.BookingRequest) *bookingForm {
	f := &bookingForm{
		FullName:          b.FullName,
		Email:             b.Email,
		Phone:             b.Phone,
		EventDate:         b.FormattedDate(),
		EventTime:         b.EventTime,
		EventType:         b.EventType,
		Location:          b.Location,
		Services:          b.RequiredServices,
		BudgetRange:       b.BudgetRange,
		AdditionalDetails: b.AdditionalDetails,
		ReferralSource:    b.ReferralSource,
		NeedsSetupTime:    b.NeedsSetupTime,
		NeedsSoundCheck:   b.NeedsSoundCheck,
	}
	if b.EstimatedGuests != nil {
		f.EstimatedGuests = strconv.Itoa(*b.EstimatedGuests)
	}
	if b.DurationHours != nil {
		f.DurationHours = strconv.Itoa(*b.DurationHours)
	}
	return f
}

func parseOptionalInt(s, field string, errs validation.FieldErrors) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		errs.Add(field, validation.Message(field, validation.TagInvalid))
		return nil
	}
	return &n
}

// normalizeTime accepts the HH:MM:SS some browsers send for time inputs.
func normalizeTime(s string) string {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format(models.TimeLayout)
	}
	return s
}
