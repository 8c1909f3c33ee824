package utils

import (
	"regexp"
	"strings"
)

// DefaultCountryCode is prefixed to numbers entered without one.
const DefaultCountryCode = "90"

var (
	phoneStrip = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "", ".", "")
	e164       = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)
)

// NormalizePhone converts a locally typed number into E.164.  Separators
// are removed; an explicit "+" keeps the given country code, a leading 0 is
// replaced by the default country code and anything else gets it
// prefixed.  An empty input stays empty.
//
//	"0532 123 45 67"   -> "+905321234567"
//	"90 532 123 45 67" -> "+905321234567"
//	"5321234567"       -> "+905321234567"
//	"+44 20 7946 0018" -> "+442079460018"
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	cleaned := phoneStrip.Replace(phone)
	if cleaned == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(phone, "+"), strings.HasPrefix(cleaned, DefaultCountryCode):
	case strings.HasPrefix(cleaned, "0"):
		cleaned = DefaultCountryCode + cleaned[1:]
	default:
		cleaned = DefaultCountryCode + cleaned
	}
	return "+" + cleaned
}

// ValidatePhone checks that a normalised number is in E.164 form.
func ValidatePhone(phone string) bool {
	return e164.MatchString(phone)
}
