package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"event-booking/internal/catalog"
	"event-booking/internal/models"

	"github.com/go-playground/validator/v10"
)

// Validator applies the booking field rules. It is safe for concurrent use
// once built.
type Validator struct {
	validate *validator.Validate
	catalog  *catalog.Catalog
	now      func() time.Time
}

// New builds a Validator. now supplies the current time; its location decides
// where "today" begins for the event date rule.
func New(cat *catalog.Catalog, now func() time.Time) *Validator {
	v := &Validator{
		validate: validator.New(),
		catalog:  cat,
		now:      now,
	}

	v.validate.RegisterTagNameFunc(jsonName)

	// Registration only fails for empty tags or nil funcs.
	_ = v.validate.RegisterValidation("notpast", v.notPast)
	_ = v.validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("eventtype", func(fl validator.FieldLevel) bool {
		return v.catalog.HasEventType(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("service", func(fl validator.FieldLevel) bool {
		return v.catalog.HasService(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("budget", func(fl validator.FieldLevel) bool {
		return v.catalog.HasBudgetRange(fl.Field().String())
	})

	return v
}

// Today returns midnight of the current day in the validator's clock zone.
func (v *Validator) Today() time.Time {
	now := v.now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Validate checks b and returns one message per failing field, or nil.
func (v *Validator) Validate(b *models.BookingRequest) (FieldErrors, error) {
	err := v.validate.Struct(b)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("validate booking: %w", err)
	}

	fe := make(FieldErrors, len(verrs))
	for _, fieldErr := range verrs {
		field := baseField(fieldErr.Field())
		fe.Add(field, Message(field, fieldErr.Tag()))
	}
	return fe, nil
}

func (v *Validator) notPast(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	if date.IsZero() {
		// "required" reports the missing date.
		return true
	}

	today := v.Today()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, today.Location())
	return !day.Before(today)
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// baseField turns "services[2]" into "services".
func baseField(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		return field[:i]
	}
	return field
}
