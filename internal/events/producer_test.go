package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"example.com/heartmonitor/internal/domain"
)

func TestPublishReadingEncodesEvent(t *testing.T) {
	writer := &stubWriter{}
	pub := NewPublisher(writer, "heart_rate_readings")
	pub.newID = func() string { return "evt-1" }

	ts := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	rec := domain.RecordedReading{
		Reading:    domain.Reading{Timestamp: ts, HeartRate: 152},
		Status:     domain.Abnormal,
		RecordedAt: ts.Add(time.Second),
	}
	require.NoError(t, pub.PublishReading(context.Background(), rec))

	require.Equal(t, "heart_rate_readings", writer.topic)
	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	require.Equal(t, []byte("evt-1"), msg.Key)
	require.Equal(t, []kafka.Header{
		{Key: "event_type", Value: []byte(EventTypeReadingRecorded)},
		{Key: "status", Value: []byte("abnormal")},
	}, msg.Headers)

	var event ReadingRecorded
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	require.Equal(t, "evt-1", event.EventID)
	require.Equal(t, 152.0, event.HeartRate)
	require.True(t, ts.Equal(event.Timestamp))
	require.Equal(t, "abnormal", event.Status)
}

func TestPublishReadingReturnsWriterError(t *testing.T) {
	writer := &stubWriter{err: errors.New("leader not available")}
	pub := NewPublisher(writer, "heart_rate_readings")

	err := pub.PublishReading(context.Background(), domain.RecordedReading{Reading: domain.Reading{Timestamp: time.Now(), HeartRate: 80}})
	require.EqualError(t, err, "leader not available")
}

type stubWriter struct {
	topic    string
	messages []kafka.Message
	err      error
}

func (w *stubWriter) WriteMessages(_ context.Context, topic string, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.topic = topic
	w.messages = append(w.messages, msgs...)
	return nil
}
