package hierarchy

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseIssue describes an input value that was degraded to a default.
type ParseIssue struct {
	EntityID string
	Field    string
	Reason   string
}

func (p ParseIssue) Error() string {
	if p.EntityID == "" {
		return fmt.Sprintf("%s: %s", p.Field, p.Reason)
	}
	return fmt.Sprintf("%s.%s: %s", p.EntityID, p.Field, p.Reason)
}

// ParsePercentage resolves an ownership annotation. Numbers are accepted as
// is; strings are trimmed, lose their trailing '%' signs, and are parsed as
// floats.
// The result must be a non-negative number.
func ParsePercentage(v any) (float64, error) {
	var f float64
	switch p := v.(type) {
	case float64:
		f = p
	case float32:
		f = float64(p)
	case int:
		f = float64(p)
	case int64:
		f = float64(p)
	case json.Number:
		parsed, err := parseFloat(p.String())
		if err != nil {
			return 0, fmt.Errorf("percentage %q is not a number", p)
		}
		f = parsed
	case string:
		s := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(p), "%"))
		if s == "" {
			return 0, fmt.Errorf("percentage %q is empty", p)
		}
		parsed, err := parseFloat(s)
		if err != nil {
			return 0, fmt.Errorf("percentage %q is not a number", p)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("percentage of type %T is not supported", v)
	}
	if math.IsNaN(f) || f < 0 {
		return 0, fmt.Errorf("percentage %v is negative or not a number", v)
	}
	return f, nil
}

// parseFloat is strconv.ParseFloat that keeps the ±Inf of an out-of-range
// literal such as "1e400".
func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0) {
		return f, nil
	}
	return f, err
}

// FormatPercentage renders a resolved percentage as a label, e.g. "60.0%".
func FormatPercentage(p float64) string {
	return FormatDecimal(p) + "%"
}

// FormatDecimal writes f with the shortest digits that round-trip and
// always with a fractional part or exponent: 60 is "60.0", 0.00001 is
// "1e-05" and +Inf is "inf".
func FormatDecimal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
