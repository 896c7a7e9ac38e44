// Package events defines the reading events exchanged over Kafka and the producer that emits them.
package events

import "time"

// EventTypeReadingRecorded is emitted once a reading has been durably appended.
const EventTypeReadingRecorded = "reading.recorded"

// ReadingRecorded is the JSON payload of a reading.recorded event.
type ReadingRecorded struct {
	EventID    string    `json:"event_id"`
	Timestamp  time.Time `json:"timestamp"`
	HeartRate  float64   `json:"heart_rate"`
	Status     string    `json:"status"`
	RecordedAt time.Time `json:"recorded_at"`
}
