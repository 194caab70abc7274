package core

import (
	"regexp"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[A-Za-z]{2,}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	colorPattern    = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// IsValidEmail reports whether s looks like local@domain.tld with a TLD of at least two letters.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidCurrency reports whether s is a three letter upper-case currency code (EUR, USD, ...).
func IsValidCurrency(s string) bool {
	return currencyPattern.MatchString(s)
}

// IsValidHexColor accepts #rgb and #rrggbb.
func IsValidHexColor(s string) bool {
	return colorPattern.MatchString(s)
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
