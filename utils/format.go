// utils/format.go
package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatPrice renders an amount in Indian Rupees with two fixed decimals.
func FormatPrice(price float64) string {
	return "₹" + decimal.NewFromFloat(price).StringFixed(2)
}

// FormatDate renders a timestamp the way the storefront shows it.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 Jan 2006, 15:04")
}

// TruncateText shortens long text to maxLen runes, appending an ellipsis.
func TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// ValidateEmail reports whether email looks like an email address.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhone reports whether phone is a valid 10-digit Indian mobile
// number, ignoring embedded whitespace.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(strings.ReplaceAll(phone, " ", ""))
}
