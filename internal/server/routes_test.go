package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"event-booking/internal/config"
	"event-booking/internal/database"
	"event-booking/internal/models"
	"event-booking/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC)

// MockDatabase is a mock implementation of the database.Service interface
type MockDatabase struct {
	mock.Mock
}

func (m *MockDatabase) Health() map[string]string {
	return map[string]string{"status": "up", "open_connections": "1"}
}

func (m *MockDatabase) Close() error {
	return nil
}

func (m *MockDatabase) RecordBooking(ctx context.Context, b *models.BookingRequest) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           "5000",
		Env:            "test",
		LogLevel:       "debug",
		Timezone:       "UTC",
		SessionKey:     "test-session-key",
		CSRFKey:        "test-csrf-key",
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}
}

func newTestServer(t *testing.T, db database.Service, tweak ...func(*config.Config)) http.Handler {
	t.Helper()
	cfg := testConfig()
	for _, f := range tweak {
		f(cfg)
	}

	s, err := NewServer(cfg, zaptest.NewLogger(t), db, WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return s.RegisterRoutes()
}

func validForm() url.Values {
	return url.Values{
		"full_name":  {"Jane Cruz"},
		"email":      {"jane@example.com"},
		"phone":      {"639171234567"},
		"event_date": {"2026-10-26"},
		"event_time": {"18:00"},
		"event_type": {"Wedding"},
		"location":   {"Manila Hotel"},
	}
}

func postForm(h http.Handler, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/booking", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func get(h http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRootRedirectsToBooking(t *testing.T) {
	h := newTestServer(t, nil)

	rr := get(h, "/")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/booking", rr.Header().Get("Location"))
}

func TestBookingForm_Defaults(t *testing.T) {
	h := newTestServer(t, nil)

	rr := get(h, "/booking")
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `name="event_date" type="date" min="2026-10-19"`)
	assert.Contains(t, body, `value="2026-10-26"`)
	assert.Contains(t, body, `value="18:00"`)
	assert.Contains(t, body, `name="needs_setup_time" value="true" checked`)
	assert.Contains(t, body, `name="needs_sound_check" value="true" checked`)
	assert.Contains(t, body, `<option value="Wedding">Wedding</option>`)
	assert.Contains(t, body, `id="service_backline" value="backline"`)
	assert.NotContains(t, body, "is-invalid")
}

func TestSubmitBooking_Accepted(t *testing.T) {
	db := new(MockDatabase)
	db.On("RecordBooking", mock.Anything, mock.MatchedBy(func(b *models.BookingRequest) bool {
		return b.FullName == "Jane Cruz" && b.ID != "" && b.Status == models.BookingStatusPending
	})).Return(nil)
	h := newTestServer(t, db)

	rr := postForm(h, validForm())
	require.Equal(t, http.StatusSeeOther, rr.Code)

	loc, err := url.Parse(rr.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/booking/success", loc.Path)
	assert.Equal(t, "Jane Cruz", loc.Query().Get("name"))
	assert.Equal(t, "2026-10-26", loc.Query().Get("date"))

	var flash *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == flashCookie {
			flash = c
		}
	}
	require.NotNil(t, flash)
	assert.True(t, flash.HttpOnly)

	db.AssertExpectations(t)
}

func TestSubmitBooking_PastDateRedisplays(t *testing.T) {
	db := new(MockDatabase)
	h := newTestServer(t, db)

	form := validForm()
	form.Set("event_date", "2026-10-18")

	rr := postForm(h, form)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))

	body := rr.Body.String()
	assert.Contains(t, body, "Event date must be today or in the future")
	assert.Equal(t, 1, strings.Count(body, `class="invalid-feedback"`))
	assert.Equal(t, 1, strings.Count(body, "is-invalid"))
	assert.Contains(t, body, `value="Jane Cruz"`)
	assert.Contains(t, body, `value="jane@example.com"`)
	assert.Contains(t, body, `value="639171234567"`)
	assert.Contains(t, body, `value="2026-10-18"`)
	assert.Contains(t, body, `value="Manila Hotel"`)
	assert.Contains(t, body, `<option value="Wedding" selected>`)

	db.AssertNotCalled(t, "RecordBooking", mock.Anything, mock.Anything)
}

func TestSubmitBooking_RequiredFields(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"full_name", "Full name is required"},
		{"email", "Email is required"},
		{"phone", "Phone number is required"},
		{"event_date", "Event date is required"},
		{"event_type", "Event type is required"},
		{"location", "Location is required"},
	}

	h := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			form := validForm()
			form.Del(tt.field)

			rr := postForm(h, form)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Empty(t, rr.Header().Get("Location"))
			assert.Contains(t, rr.Body.String(), tt.want)
			assert.Equal(t, 1, strings.Count(rr.Body.String(), `class="invalid-feedback"`))
		})
	}
}

func TestSubmitBooking_FieldRules(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"short phone", "phone", "12345", "Please enter a valid phone number (at least 10 digits)"},
		{"bad email", "email", "jane.example.com", "Please enter a valid email address"},
		{"long name", "full_name", strings.Repeat("a", 101), "Name cannot be longer than 100 characters"},
		{"unknown event type", "event_type", "Rodeo", "Please select a valid event type"},
		{"unparsable date", "event_date", "next friday", "Please enter a valid event date"},
		{"guests not a number", "estimated_guests", "many", "Number of guests must be between 1 and 10,000"},
		{"too many guests", "estimated_guests", "10001", "Number of guests must be between 1 and 10,000"},
		{"zero hours", "duration_hours", "0", "Duration must be between 1 and 24 hours"},
		{"unknown service", "services", "fireworks", "Please select services from the list"},
		{"unknown budget", "budget_range", "priceless", "Please select a valid budget range"},
	}

	h := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.Set(tt.field, tt.value)

			rr := postForm(h, form)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.want)
		})
	}
}

func TestSubmitBooking_ServicesMerged(t *testing.T) {
	db := new(MockDatabase)
	var got []string
	db.On("RecordBooking", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			got = args.Get(1).(*models.BookingRequest).RequiredServices
		}).
		Return(nil)
	h := newTestServer(t, db)

	form := validForm()
	form["services"] = []string{"audio"}
	form.Set("selected_services", "audio,dj")

	rr := postForm(h, form)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, []string{"audio", "dj"}, got)
}

func TestSubmitBooking_CheckboxFlags(t *testing.T) {
	db := new(MockDatabase)
	var got *models.BookingRequest
	db.On("RecordBooking", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*models.BookingRequest) }).
		Return(nil)
	h := newTestServer(t, db)

	form := validForm()
	form["needs_setup_time"] = []string{"false"}
	form["needs_sound_check"] = []string{"false", "true"}

	rr := postForm(h, form)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.NotNil(t, got)
	assert.False(t, got.NeedsSetupTime)
	assert.True(t, got.NeedsSoundCheck)
}

func TestSubmitBooking_EstimateOnRedisplay(t *testing.T) {
	h := newTestServer(t, nil)

	form := validForm()
	form.Set("email", "not-an-email")
	form.Set("estimated_guests", "120")
	form.Set("duration_hours", "5")
	form["services"] = []string{"audio", "dj"}

	rr := postForm(h, form)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Estimated Cost: ₱13,000")
	assert.Contains(t, rr.Body.String(), `id="service_dj" value="dj" checked`)
}

func TestSubmitBooking_RecordFailure(t *testing.T) {
	db := new(MockDatabase)
	db.On("RecordBooking", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
	h := newTestServer(t, db)

	rr := postForm(h, validForm())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))
	assert.Contains(t, rr.Body.String(), validation.GenericError)
	assert.Contains(t, rr.Body.String(), `value="Jane Cruz"`)
}

func TestSubmitBooking_MalformedBody(t *testing.T) {
	h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/booking", strings.NewReader("full_name=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), validation.GenericError)
}

func TestSubmitBooking_Resubmission(t *testing.T) {
	db := new(MockDatabase)
	db.On("RecordBooking", mock.Anything, mock.Anything).Return(nil)
	h := newTestServer(t, db)

	first := postForm(h, validForm())
	second := postForm(h, validForm())

	assert.Equal(t, http.StatusSeeOther, first.Code)
	assert.Equal(t, http.StatusSeeOther, second.Code)
	assert.Equal(t, first.Header().Get("Location"), second.Header().Get("Location"))
	db.AssertNumberOfCalls(t, "RecordBooking", 2)
}

func TestBookingSuccess_ShowsFlashOnce(t *testing.T) {
	h := newTestServer(t, nil)

	rr := postForm(h, validForm())
	require.Equal(t, http.StatusSeeOther, rr.Code)
	cookies := rr.Result().Cookies()

	page := get(h, rr.Header().Get("Location"), cookies...)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Thank you Jane Cruz! Your booking request has been submitted.")
	assert.Contains(t, page.Body.String(), "Monday, October 26, 2026")

	var cleared bool
	for _, c := range page.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "flash cookie should be cleared after it is shown")
}

func TestBookingSuccess_WithoutFlash(t *testing.T) {
	h := newTestServer(t, nil)

	rr := get(h, "/booking/success?name=Ana&date=not-a-date")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Thank you Ana! Your booking request has been submitted.")
	assert.NotContains(t, rr.Body.String(), "Event date:")
}

func TestBookingSuccess_TamperedFlash(t *testing.T) {
	h := newTestServer(t, nil)

	rr := get(h, "/booking/success", &http.Cookie{Name: flashCookie, Value: "forged"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Your booking request has been submitted.")
	assert.NotContains(t, rr.Body.String(), "forged")
}

func TestBookingRules(t *testing.T) {
	h := newTestServer(t, nil)

	rr := get(h, "/booking/rules")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	var rules validation.Rules
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rules))
	assert.Equal(t, "2026-10-19", rules.MinDate)
	assert.Subset(t, rules.Required, []string{"full_name", "email", "phone", "event_date", "event_type", "location"})
	assert.Equal(t, 100, rules.MaxLength["full_name"])
	assert.Equal(t, validation.Range{Min: 1, Max: 10000}, rules.Ranges["estimated_guests"])
	assert.Equal(t, 10, rules.PhoneMinDigits)
	assert.Equal(t, 5000, rules.Estimate.Base)
	assert.Equal(t, "Event date must be today or in the future", rules.Messages["event_date"]["notpast"])
}

func TestHealthHandler(t *testing.T) {
	t.Run("without journal", func(t *testing.T) {
		h := newTestServer(t, nil)

		rr := get(h, "/health")
		require.Equal(t, http.StatusOK, rr.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "up", resp["status"])
		assert.NotContains(t, resp, "journal")
	})

	t.Run("with journal", func(t *testing.T) {
		h := newTestServer(t, new(MockDatabase))

		rr := get(h, "/health")
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Status  string            `json:"status"`
			Journal map[string]string `json:"journal"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "up", resp.Status)
		assert.Equal(t, "up", resp.Journal["status"])
	})
}

func TestStaticScript(t *testing.T) {
	h := newTestServer(t, nil)

	rr := get(h, "/static/js/booking.js")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "BookingFormHandler")
	assert.Contains(t, body, "[...input.value].length > max", "length limits count code points")
	assert.Contains(t, body, "showBanner('success'", "accepted submissions show a banner")
	assert.NotContains(t, body, "input.value.length > max")
}

func TestSubmitBooking_RateLimited(t *testing.T) {
	h := newTestServer(t, nil, func(c *config.Config) {
		c.RateLimitRPS = 0.001
		c.RateLimitBurst = 2
	})

	for i := 0; i < 2; i++ {
		rr := postForm(h, url.Values{})
		assert.Equal(t, http.StatusOK, rr.Code, "request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, postForm(h, url.Values{}).Code)

	// Only submissions are limited.
	assert.Equal(t, http.StatusOK, get(h, "/booking").Code)
}

var csrfFieldRe = regexp.MustCompile(`name="gorilla\.csrf\.Token" value="([^"]+)"`)

func TestSubmitBooking_CSRF(t *testing.T) {
	db := new(MockDatabase)
	db.On("RecordBooking", mock.Anything, mock.Anything).Return(nil)
	h := newTestServer(t, db, func(c *config.Config) { c.CSRFEnabled = true })

	page := get(h, "/booking")
	require.Equal(t, http.StatusOK, page.Code)
	m := csrfFieldRe.FindStringSubmatch(page.Body.String())
	require.Len(t, m, 2, "form should carry a csrf token")
	cookies := page.Result().Cookies()

	t.Run("missing token", func(t *testing.T) {
		rr := postForm(h, validForm(), cookies...)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("form token", func(t *testing.T) {
		form := validForm()
		form.Set("gorilla.csrf.Token", m[1])
		rr := postForm(h, form, cookies...)
		assert.Equal(t, http.StatusSeeOther, rr.Code)
	})

	t.Run("header token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/booking", strings.NewReader(validForm().Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-CSRF-Token", m[1])
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusSeeOther, rr.Code)
	})
}
