package domain

import (
	"regexp"
	"strings"
)

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// NormalizePhone strips everything except digits and '+' and prefixes '+'
// when it is missing. An input without digits normalizes to "".
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return ""
	}
	if !strings.HasPrefix(cleaned, "+") {
		return "+" + cleaned
	}
	return cleaned
}

// IsValidPhone reports whether p is an E.164 number: '+' followed by 7-15
// digits, the first one non-zero.
func IsValidPhone(p string) bool {
	return e164Pattern.MatchString(p)
}

// ValidatePhone returns a ValidationError for numbers that are not E.164.
func ValidatePhone(field, p string) error {
	if strings.TrimSpace(p) == "" {
		return NewValidationError(ErrCodeInvalidPhone, field, "phone number is required")
	}
	if !IsValidPhone(p) {
		return NewValidationError(ErrCodeInvalidPhone, field,
			"phone number must be in E.164 format, e.g. +12345678901")
	}
	return nil
}

// SamePhone compares two numbers after normalization, so "+1 (555) 123-4567"
// matches "+15551234567".
func SamePhone(a, b string) bool {
	na := NormalizePhone(a)
	return na != "" && na == NormalizePhone(b)
}
