package importer

import (
	"fmt"
	"regexp"
	"strings"
)

// CheckFunc validates a single cell value in isolation. It returns an empty
// string when the value passes, otherwise a message fragment that the
// orchestrator prefixes with the field label ("Mobile number" + " " +
// "must be exactly 10 digits"). Checks never see other rows.
type CheckFunc func(value string) string

var (
	numericRe = regexp.MustCompile(`^\d+$`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NumericString requires the value to consist of digits only.
func NumericString(value string) string {
	if !numericRe.MatchString(value) {
		return "must contain digits only"
	}
	return ""
}

// ExactDigits requires the value to be exactly n digits, e.g. a 10-digit
// mobile number or a 12-digit national ID.
func ExactDigits(n int) CheckFunc {
	return func(value string) string {
		if !numericRe.MatchString(value) || len(value) != n {
			return fmt.Sprintf("must be exactly %d digits", n)
		}
		return ""
	}
}

// EmailFormat requires a plausible email address.
func EmailFormat(value string) string {
	if !emailRe.MatchString(value) {
		return "must be a valid email address"
	}
	return ""
}

// EnumMember requires the value to be one of allowed, compared
// case-insensitively.
func EnumMember(allowed ...string) CheckFunc {
	return func(value string) string {
		for _, a := range allowed {
			if strings.EqualFold(value, a) {
				return ""
			}
		}
		return fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", "))
	}
}

// NonEmptyCommaList requires at least one non-empty comma-separated token,
// e.g. a subject list like "Math, Physics".
func NonEmptyCommaList(value string) string {
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) != "" {
			return ""
		}
	}
	return "must contain at least one value"
}
