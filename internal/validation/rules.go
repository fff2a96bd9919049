package validation

import (
	"reflect"
	"strconv"
	"strings"

	"event-booking/internal/estimate"
	"event-booking/internal/models"
)

// EmailPattern is the quick browser-side email check. The server applies the
// stricter validator "email" rule and wins on disagreement.
const EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Rules is the rule set the browser script enforces before submitting. It is
// derived from the validate tags on models.BookingRequest.
type Rules struct {
	Required       []string                     `json:"required"`
	MaxLength      map[string]int               `json:"max_length"`
	Ranges         map[string]Range             `json:"ranges"`
	EmailPattern   string                       `json:"email_pattern"`
	PhoneMinDigits int                          `json:"phone_min_digits"`
	PhoneMaxDigits int                          `json:"phone_max_digits"`
	MinDate        string                       `json:"min_date"`
	Messages       map[string]map[string]string `json:"messages"`
	Estimate       estimate.Formula             `json:"estimate"`
}

// Rules returns the browser rule set for the current day.
func (v *Validator) Rules() Rules {
	r := Schema()
	r.MinDate = v.Today().Format(models.DateLayout)
	if v.catalog.Estimate != nil {
		r.Estimate = *v.catalog.Estimate
	}
	return r
}

// Schema walks the validate tags of models.BookingRequest.
func Schema() Rules {
	r := Rules{
		MaxLength:      map[string]int{},
		Ranges:         map[string]Range{},
		EmailPattern:   EmailPattern,
		PhoneMinDigits: PhoneMinDigits,
		PhoneMaxDigits: PhoneMaxDigits,
		Messages:       map[string]map[string]string{},
		Estimate:       estimate.Default,
	}

	t := reflect.TypeOf(models.BookingRequest{})
	for i := 0; i < t.NumField(); i++ {
		fld := t.Field(i)
		tag := fld.Tag.Get("validate")
		if tag == "" {
			continue
		}
		name := jsonName(fld)

		kind := fld.Type.Kind()
		if kind == reflect.Ptr {
			kind = fld.Type.Elem().Kind()
		}

		rng, hasRange := Range{}, false
		for _, part := range strings.Split(tag, ",") {
			if part == "dive" {
				break
			}
			key, val, _ := strings.Cut(part, "=")
			switch key {
			case "required":
				r.Required = append(r.Required, name)
			case "min", "max":
				n, err := strconv.Atoi(val)
				if err != nil {
					continue
				}
				if kind == reflect.String {
					if key == "max" {
						r.MaxLength[name] = n
					}
					continue
				}
				hasRange = true
				if key == "min" {
					rng.Min = n
				} else {
					rng.Max = n
				}
			}
		}
		if hasRange {
			r.Ranges[name] = rng
		}

		if m, ok := messages[name]; ok {
			r.Messages[name] = m
		}
	}

	return r
}
