package validation

import (
	"regexp"
	"strings"
)

const (
	PhoneMinDigits = 10
	PhoneMaxDigits = 15
)

var (
	nonDigit   = regexp.MustCompile(`\D`)
	phoneChars = regexp.MustCompile(`^\+?[0-9\s\-.()]+$`)
)

// PhoneDigits strips everything but digits.
func PhoneDigits(phone string) string {
	return nonDigit.ReplaceAllString(phone, "")
}

// ValidPhone reports whether phone uses only dialable characters and carries
// between PhoneMinDigits and PhoneMaxDigits digits.
func ValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if !phoneChars.MatchString(phone) {
		return false
	}
	n := len(PhoneDigits(phone))
	return n >= PhoneMinDigits && n <= PhoneMaxDigits
}

// FormatPhone renders a twelve digit number as "+63 917 123 4567". Any other
// digit count is returned as bare digits.
func FormatPhone(phone string) string {
	d := PhoneDigits(phone)
	if len(d) != 12 {
		return d
	}
	return "+" + d[:2] + " " + d[2:5] + " " + d[5:8] + " " + d[8:]
}
