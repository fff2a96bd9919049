// Package estimate computes the cosmetic price hint shown next to the
// booking form. Nothing on the server treats it as a quote.
package estimate

import (
	"strconv"
	"strings"
)

// Formula holds the constants of the estimate. Amounts are whole pesos.
type Formula struct {
	Base          int `json:"base" yaml:"base"`
	PerService    int `json:"per_service" yaml:"per_service"`
	FreeGuests    int `json:"free_guests" yaml:"free_guests"`
	PerExtraGuest int `json:"per_extra_guest" yaml:"per_extra_guest"`
	PerHour       int `json:"per_hour" yaml:"per_hour"`
}

// Default is the formula used when the catalog does not override it.
var Default = Formula{
	Base:          5000,
	PerService:    1000,
	FreeGuests:    50,
	PerExtraGuest: 50,
	PerHour:       500,
}

// Compute returns the estimate for the given selection. The second result is
// false when guests or hours are not positive, in which case no estimate is
// shown.
func (f Formula) Compute(services, guests, hours int) (int, bool) {
	if guests <= 0 || hours <= 0 {
		return 0, false
	}

	extraGuests := guests - f.FreeGuests
	if extraGuests < 0 {
		extraGuests = 0
	}

	total := f.Base +
		services*f.PerService +
		extraGuests*f.PerExtraGuest +
		hours*f.PerHour
	return total, true
}

// FormatPeso renders an amount like "₱12,500".
func FormatPeso(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "₱" + b.String()
}
