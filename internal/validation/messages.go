package validation

// TagInvalid marks a value the form layer could not convert (a date that is
// not a date, a guest count that is not a number).
const TagInvalid = "invalid"

// GenericError is shown at the top of the form when a submission fails for a
// reason that is not a field rule.
const GenericError = "An error occurred while submitting your booking. Please try again."

// anyTag is the fallback message key for a field.
const anyTag = "*"

// messages maps a form field name and a rule tag to the text shown next to
// the field.
var messages = map[string]map[string]string{
	"full_name": {
		"required": "Full name is required",
		"max":      "Name cannot be longer than 100 characters",
	},
	"email": {
		"required": "Email is required",
		"email":    "Please enter a valid email address",
	},
	"phone": {
		"required": "Phone number is required",
		"phone":    "Please enter a valid phone number (at least 10 digits)",
	},
	"event_date": {
		"required": "Event date is required",
		"notpast":  "Event date must be today or in the future",
		TagInvalid: "Please enter a valid event date",
	},
	"event_time": {
		anyTag: "Please enter a valid event time",
	},
	"event_type": {
		"required":  "Event type is required",
		"eventtype": "Please select a valid event type",
	},
	"location": {
		"required": "Location is required",
		"max":      "Location cannot be longer than 200 characters",
	},
	"estimated_guests": {
		anyTag: "Number of guests must be between 1 and 10,000",
	},
	"duration_hours": {
		anyTag: "Duration must be between 1 and 24 hours",
	},
	"services": {
		anyTag: "Please select services from the list",
	},
	"budget_range": {
		anyTag: "Please select a valid budget range",
	},
	"additional_details": {
		"max": "Message cannot be longer than 1000 characters",
	},
	"referral_source": {
		"max": "Referral source cannot be longer than 100 characters",
	},
}

// Message returns the fixed text for a failed rule on a field.
func Message(field, tag string) string {
	m, ok := messages[field]
	if !ok {
		return "Invalid value"
	}
	if msg, ok := m[tag]; ok {
		return msg
	}
	if msg, ok := m[anyTag]; ok {
		return msg
	}
	return "Invalid value"
}

// FieldErrors maps a form field name to the one message shown for it.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message; the
// first failure wins.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; ok {
		return
	}
	fe[field] = msg
}

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Merge adds every entry of other that fe does not have yet.
func (fe FieldErrors) Merge(other FieldErrors) {
	for f, msg := range other {
		fe.Add(f, msg)
	}
}
