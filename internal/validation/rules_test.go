package validation

import (
	"testing"

	"event-booking/internal/estimate"

	"github.com/stretchr/testify/assert"
)

func TestSchema_DerivedFromTags(t *testing.T) {
	r := Schema()

	assert.ElementsMatch(t,
		[]string{"full_name", "email", "phone", "event_date", "event_type", "location"},
		r.Required,
	)
	assert.Equal(t, map[string]int{
		"full_name":          100,
		"location":           200,
		"additional_details": 1000,
		"referral_source":    100,
	}, r.MaxLength)
	assert.Equal(t, map[string]Range{
		"estimated_guests": {Min: 1, Max: 10000},
		"duration_hours":   {Min: 1, Max: 24},
	}, r.Ranges)
	assert.Equal(t, 10, r.PhoneMinDigits)
	assert.Equal(t, "Full name is required", r.Messages["full_name"]["required"])
	assert.Equal(t, estimate.Default, r.Estimate)
}

func TestValidator_Rules(t *testing.T) {
	v := newTestValidator(t)

	r := v.Rules()
	assert.Equal(t, "2026-10-19", r.MinDate)
	assert.Equal(t, EmailPattern, r.EmailPattern)
}
