package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordReadingPersisted(t *testing.T) {
	ts := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	RecordReadingPersisted(ts, 3)

	require.Equal(t, float64(ts.Unix()), testutil.ToFloat64(readingPersistGauge))
	require.Equal(t, 3.0, testutil.ToFloat64(seriesLengthGauge))

	RecordReadingPersisted(time.Time{}, 4)
	require.Equal(t, float64(ts.Unix()), testutil.ToFloat64(readingPersistGauge))
	require.Equal(t, 4.0, testutil.ToFloat64(seriesLengthGauge))
}

func TestValidationFailuresAreLabelledByField(t *testing.T) {
	before := testutil.ToFloat64(validationFailureCounter.WithLabelValues("heart_rate"))
	RecordValidationFailure("heart_rate")
	RecordValidationFailure("heart_rate")
	require.Equal(t, before+2, testutil.ToFloat64(validationFailureCounter.WithLabelValues("heart_rate")))
}
