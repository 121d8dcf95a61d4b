// ABOUTME: Small helpers shared by the recall commands
// ABOUTME: Rune-safe column shortening and numeric flag checks
package commands

import "fmt"

// truncate shortens s to maxLen runes for table columns, ending in "..." when cut
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt rejects flag values below 1
func validatePositiveInt(n int, flag string) error {
	if n <= 0 {
		return fmt.Errorf("--%s must be positive, got %d", flag, n)
	}
	return nil
}

// validateOptionalInt accepts 0 as "use the configured default" and rejects negatives
func validateOptionalInt(n int, flag string) error {
	if n < 0 {
		return fmt.Errorf("--%s cannot be negative, got %d", flag, n)
	}
	return nil
}
