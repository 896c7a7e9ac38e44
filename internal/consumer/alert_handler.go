package consumer

import (
	"context"
	"log"
	"time"

	"example.com/heartmonitor/internal/domain"
)

// Alert directions.
const (
	DirectionLow  = "low"
	DirectionHigh = "high"
)

// AlertHandler reclassifies recorded readings against the consumer's thresholds
// and reports those outside the band.
type AlertHandler struct {
	detector *domain.Detector
	logger   *log.Logger
}

// NewAlertHandler constructs an AlertHandler.
func NewAlertHandler(detector *domain.Detector, logger *log.Logger) *AlertHandler {
	if logger == nil {
		logger = log.New(log.Writer(), "[alerts] ", log.LstdFlags)
	}
	return &AlertHandler{detector: detector, logger: logger}
}

// Handle logs and counts abnormal readings. Normal readings are ignored.
func (h *AlertHandler) Handle(_ context.Context, msg Message) error {
	reading := domain.Reading{Timestamp: msg.Event.Timestamp, HeartRate: msg.Event.HeartRate}
	if h.detector.Classify(reading) != domain.Abnormal {
		return nil
	}

	direction := DirectionHigh
	if reading.HeartRate < h.detector.Thresholds().Low {
		direction = DirectionLow
	}
	recordAbnormal(direction)

	band := h.detector.Thresholds()
	h.logger.Printf("abnormal heart rate %v bpm at %s (%s, band %v-%v, event_id=%s)",
		reading.HeartRate, reading.Timestamp.Format(time.RFC3339), direction, band.Low, band.High, msg.Event.EventID)
	return nil
}
