package utils

import "fmt"

// DefaultMaxStringLength bounds previews of message content and response
// bodies in logs when no explicit limit is given.
const DefaultMaxStringLength = 500

// TruncateString caps s at maxLen characters and marks the cut with the
// original length, so log readers know how much was dropped. Non-positive
// maxLen falls back to [DefaultMaxStringLength].
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:maxLen], len(s))
}
