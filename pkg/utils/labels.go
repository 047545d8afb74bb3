package utils

import (
	"strings"
)

// NormalizeMood converts a mood label to its stored form: trimmed and lower-cased.
func NormalizeMood(mood string) string {
	return strings.ToLower(strings.TrimSpace(mood))
}

// NormalizeTags trims every tag and drops the ones left empty, preserving order.
// The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// ValidationError represents a validation error on a single request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
