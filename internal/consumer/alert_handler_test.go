package consumer

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"example.com/heartmonitor/internal/domain"
	"example.com/heartmonitor/internal/events"
)

func TestAlertHandlerReportsOnlyAbnormalReadings(t *testing.T) {
	detector, err := domain.NewDetector(domain.DefaultThresholds())
	require.NoError(t, err)

	var buf bytes.Buffer
	handler := NewAlertHandler(detector, log.New(&buf, "", 0))

	lowBefore := testutil.ToFloat64(abnormalCounter.WithLabelValues(DirectionLow))
	highBefore := testutil.ToFloat64(abnormalCounter.WithLabelValues(DirectionHigh))

	ts := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	for _, hr := range []float64{45, 60, 90, 140, 150} {
		msg := Message{Event: events.ReadingRecorded{EventID: "evt", Timestamp: ts, HeartRate: hr}}
		require.NoError(t, handler.Handle(context.Background(), msg))
	}

	require.Equal(t, lowBefore+1, testutil.ToFloat64(abnormalCounter.WithLabelValues(DirectionLow)))
	require.Equal(t, highBefore+1, testutil.ToFloat64(abnormalCounter.WithLabelValues(DirectionHigh)))
	require.Contains(t, buf.String(), "abnormal heart rate 45 bpm")
	require.Contains(t, buf.String(), "abnormal heart rate 150 bpm")
	require.NotContains(t, buf.String(), " 90 bpm")
}
