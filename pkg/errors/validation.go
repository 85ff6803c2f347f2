package errors

import (
	"strings"
	"unicode"
)

// ValidateColumnName validates a column name supplied by a user.
//
// Column names end up in cache keys, log lines and figure labels, so the
// rules reject what would break those:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateColumnName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "column name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "column name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "column name contains invalid control characters")
		}
	}

	return nil
}

// ValidateColumnNames validates every name in names.
func ValidateColumnNames(names []string) error {
	for _, n := range names {
		if err := ValidateColumnName(n); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWindow validates a "start:end" label window such as "1960:1990".
// Only the shape is checked; callers parse the bounds.
func ValidateWindow(window string) error {
	if window == "" {
		return New(ErrCodeInvalidInput, "window cannot be empty")
	}
	start, end, ok := strings.Cut(window, ":")
	if !ok {
		return New(ErrCodeInvalidInput, "window %q must have the form start:end", window)
	}
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return New(ErrCodeInvalidInput, "window %q needs both a start and an end", window)
	}
	if strings.Contains(end, ":") {
		return New(ErrCodeInvalidInput, "window %q has more than one separator", window)
	}
	return nil
}
