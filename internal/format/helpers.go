package format

import (
	"fmt"
	"unicode/utf8"
)

// Percent formats a 0-100 value with two decimals and a % sign.
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// PercentShort formats a 0-100 value without decimals, for dense rows.
func PercentShort(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

// Truncate shortens s to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
