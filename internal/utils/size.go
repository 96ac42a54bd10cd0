package utils

import (
	"fmt"
	"strings"
)

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
func FormatFileSize(byteCount int64) string {
	if byteCount < 0 {
		return "0b"
	}
	unitSuffixes := []string{"b", "kb", "mb", "gb", "tb", "pb"}
	remainingValue := float64(byteCount)
	unitIndex := 0
	for remainingValue >= 1024 && unitIndex < len(unitSuffixes)-1 {
		remainingValue /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", byteCount)
	}
	if remainingValue < 10 {
		formattedValue := strings.TrimSuffix(fmt.Sprintf("%.1f", remainingValue), ".0")
		return formattedValue + unitSuffixes[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", remainingValue, unitSuffixes[unitIndex])
}
