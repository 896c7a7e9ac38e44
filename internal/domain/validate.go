package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
}

// ParseTimestamp accepts any calendar date-time in one of the supported layouts
// and returns it in UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, &ValidationError{Field: "timestamp", Value: raw, Reason: "must not be empty"}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, &ValidationError{Field: "timestamp", Value: raw, Reason: "not a valid date-time"}
}

// ParseHeartRate parses a textual heart rate. Empty, whitespace-only,
// non-numeric and non-finite input is rejected. No physiological range is enforced.
func ParseHeartRate(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, &ValidationError{Field: "heart_rate", Value: raw, Reason: "must not be empty"}
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &ValidationError{Field: "heart_rate", Value: raw, Reason: "not a number"}
	}
	return ValidateHeartRateValue(parsed)
}

// ValidateHeartRateValue checks an already numeric heart rate.
func ValidateHeartRateValue(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: "heart_rate", Value: strconv.FormatFloat(v, 'g', -1, 64), Reason: "must be a finite number"}
	}
	return v, nil
}
