package errors

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// ValidateTableName validates a NocoDB table title for safety and length.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 255 characters
func ValidateTableName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "table name cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidInput, "table name too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "table name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "table name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// identifierRegex matches the ids NocoDB hands out for bases, tables and
// columns (e.g. "p_abc123", "md_xyz").
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidateIdentifier validates an opaque NocoDB id. what names the kind of
// id in the error message ("base_id", "column_id").
func ValidateIdentifier(what, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", what)
	}
	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid %s: %q", what, id)
	}
	return nil
}

// ColumnTypes lists the NocoDB UI data types accepted in column definitions.
var ColumnTypes = []string{
	"SingleLineText",
	"LongText",
	"Number",
	"Decimal",
	"Currency",
	"Percent",
	"Duration",
	"Rating",
	"Checkbox",
	"MultiSelect",
	"SingleSelect",
	"Date",
	"DateTime",
	"Time",
	"Year",
	"PhoneNumber",
	"Email",
	"URL",
	"Attachment",
	"JSON",
	"SpecificDBType",
}

// ValidateColumnType validates a NocoDB UI data type (uidt).
func ValidateColumnType(uidt string) error {
	if !slices.Contains(ColumnTypes, uidt) {
		return New(ErrCodeInvalidSchema, "invalid UI data type %q, must be one of: %s", uidt, strings.Join(ColumnTypes, ", "))
	}
	return nil
}

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// ValidateHexColor validates a #rgb or #rrggbb color.
func ValidateHexColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color %q, want #rgb or #rrggbb", color)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
