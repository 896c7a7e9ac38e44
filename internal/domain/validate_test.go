package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimestampAcceptsCommonLayouts(t *testing.T) {
	want := time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC)
	cases := []string{
		"2024-03-01T10:30:00Z",
		"2024-03-01T11:30:00+01:00",
		"2024-03-01T10:30:00",
		"2024-03-01T10:30",
		"2024-03-01 10:30:00",
		"  2024-03-01T10:30:00Z  ",
		"Fri, 01 Mar 2024 10:30:00 UTC",
	}
	for _, raw := range cases {
		got, err := ParseTimestamp(raw)
		require.NoError(t, err, raw)
		require.True(t, want.Equal(got), "%s parsed as %s", raw, got)
		require.Equal(t, time.UTC, got.Location())
	}

	day, err := ParseTimestamp("2024-03-01")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), day)
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"not-a-date", "", "   ", "2024-13-45", "yesterday"} {
		_, err := ParseTimestamp(raw)
		require.Error(t, err, raw)
		require.True(t, errors.Is(err, ErrValidation))

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "timestamp", verr.Field)
	}
}

func TestParseHeartRate(t *testing.T) {
	v, err := ParseHeartRate("72")
	require.NoError(t, err)
	require.Equal(t, 72.0, v)

	v, err = ParseHeartRate(" 88.5 ")
	require.NoError(t, err)
	require.Equal(t, 88.5, v)

	v, err = ParseHeartRate("-3")
	require.NoError(t, err, "no physiological range is enforced at ingestion")
	require.Equal(t, -3.0, v)

	for _, raw := range []string{"", "   ", "\t", "abc", "72bpm", "NaN", "Inf", "-Infinity"} {
		_, err := ParseHeartRate(raw)
		require.Error(t, err, raw)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "heart_rate", verr.Field)
	}
}
