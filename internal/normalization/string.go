package normalization

import (
	"strings"
)

// ParseInputString lowercases and trims free text for comparisons and keys.
func ParseInputString(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	return normalized
}

// ParseInputStringPtr is ParseInputString for optional values; nil maps to "".
func ParseInputStringPtr(input *string) string {
	if input == nil {
		return ""
	}
	return ParseInputString(*input)
}

// TrimmedOrNil returns nil for blank input and a trimmed copy otherwise.
func TrimmedOrNil(input string) *string {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil
	}
	return &s
}
