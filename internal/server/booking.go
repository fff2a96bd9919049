package server

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"event-booking/internal/booking"
	"event-booking/internal/estimate"
	"event-booking/internal/models"
	"event-booking/internal/validation"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

const bookingTitle = "Book Your Event"

// bookingFormHandler shows a fresh form.
func (s *Server) bookingFormHandler(w http.ResponseWriter, r *http.Request) {
	b := s.bookings.NewRequest()
	f := formFromModel(b)
	s.render(w, r, http.StatusOK, "booking.html", s.formPage(r, f, b, nil, nil))
}

// submitBookingHandler validates the posted form. A valid booking is
// recorded and the browser is sent to the confirmation page; anything else
// shows the form again with the user's values.
func (s *Server) submitBookingHandler(w http.ResponseWriter, r *http.Request) {
	f, err := decodeBookingForm(w, r)
	if err != nil {
		out := booking.Failure(booking.FailureDecode, nil, fmt.Errorf("decode booking form: %w", err))
		s.log.Warn("booking submission failed",
			zap.String("failure", string(out.Failure)),
			zap.Error(out.Err),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		if f == nil {
			f = &bookingForm{NeedsSetupTime: true, NeedsSoundCheck: true}
		}
		s.render(w, r, http.StatusOK, "booking.html", s.formPage(r, f, nil, nil, out.FormErrors()))
		return
	}

	b, decodeErrs := f.toModel(s.loc)
	out := s.bookings.Submit(r.Context(), b, decodeErrs)

	switch out.Kind {
	case booking.Accepted:
		s.setFlash(w, out.SuccessMessage())
		q := url.Values{}
		q.Set("name", out.Booking.FullName)
		q.Set("date", out.Booking.FormattedDate())
		http.Redirect(w, r, "/booking/success?"+q.Encode(), http.StatusSeeOther)
	default:
		s.render(w, r, http.StatusOK, "booking.html", s.formPage(r, f, b, out.Errors, out.FormErrors()))
	}
}

// bookingSuccessHandler shows the confirmation. The flash set on accept is
// shown once; a reload or a shared link falls back to a plain text built
// from the query.
func (s *Server) bookingSuccessHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	date := r.URL.Query().Get("date")

	msg := s.popFlash(w, r)
	if msg == "" {
		msg = "Your booking request has been submitted. We'll contact you within 24 hours."
		if name != "" {
			msg = fmt.Sprintf("Thank you %s! %s", name, msg)
		}
	}

	page := successPage{Title: "Booking Received", Message: msg}
	if d, err := time.Parse(models.DateLayout, date); err == nil {
		page.Date = d.Format("Monday, January 2, 2006")
	}

	s.render(w, r, http.StatusOK, "success.html", page)
}

func (s *Server) formPage(r *http.Request, f *bookingForm, b *models.BookingRequest, errs validation.FieldErrors, formErrs []string) bookingPage {
	page := bookingPage{
		Title:      bookingTitle,
		FormErrors: formErrs,
		Form:       f,
		Errors:     errs,
		Catalog:    s.bookings.Catalog(),
		MinDate:    s.bookings.Rules().MinDate,
		Selected:   f.selected(),
	}
	if s.cfg.CSRFEnabled {
		page.CSRFField = csrf.TemplateField(r)
	}
	if b != nil {
		page.Estimate = s.estimate(b)
	}
	return page
}

// estimate is the cosmetic price shown when guests and hours are known.
func (s *Server) estimate(b *models.BookingRequest) string {
	if b.EstimatedGuests == nil || b.DurationHours == nil {
		return ""
	}

	formula := estimate.Default
	if f := s.bookings.Catalog().Estimate; f != nil {
		formula = *f
	}

	total, ok := formula.Compute(len(b.RequiredServices), *b.EstimatedGuests, *b.DurationHours)
	if !ok {
		return ""
	}
	return estimate.FormatPeso(total)
}
