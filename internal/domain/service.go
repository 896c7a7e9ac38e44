// Package domain defines the heart-rate model, validation, anomaly detection and
// the ingestion/query workflows.
package domain

import (
	"context"
	"log"
	"time"
)

// ReadingStore is the append-only series owner.
type ReadingStore interface {
	Append(ctx context.Context, r Reading) error
	All() Series
}

// RecordedReading describes a reading that has been durably appended.
type RecordedReading struct {
	Reading
	Status     Classification
	RecordedAt time.Time
}

// EventPublisher forwards recorded readings to downstream consumers.
type EventPublisher interface {
	PublishReading(ctx context.Context, rec RecordedReading) error
}

// Option configures optional Service behaviour.
type Option func(*Service)

// WithPublisher attaches an EventPublisher notified after each successful append.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithClock overrides the clock used to synthesize timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger overrides the logger used to report publish failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service orchestrates ingestion and querying of heart-rate readings.
type Service struct {
	store     ReadingStore
	detector  *Detector
	publisher EventPublisher
	now       func() time.Time
	logger    *log.Logger
}

// NewService constructs a Service.
func NewService(store ReadingStore, detector *Detector, opts ...Option) *Service {
	s := &Service{
		store:    store,
		detector: detector,
		now:      time.Now,
		logger:   log.New(log.Writer(), "[ingest] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Detector returns the anomaly detector used by the service.
func (s *Service) Detector() *Detector {
	return s.detector
}

// Ingest validates both raw fields and appends the pair. Nothing is appended
// unless both fields validate.
func (s *Service) Ingest(ctx context.Context, rawTimestamp, rawHeartRate string) (Reading, error) {
	ts, err := ParseTimestamp(rawTimestamp)
	if err != nil {
		return Reading{}, err
	}
	hr, err := ParseHeartRate(rawHeartRate)
	if err != nil {
		return Reading{}, err
	}
	return s.append(ctx, Reading{Timestamp: ts, HeartRate: hr})
}

// IngestValue is Ingest for callers that already hold a numeric heart rate.
func (s *Service) IngestValue(ctx context.Context, rawTimestamp string, heartRate float64) (Reading, error) {
	ts, err := ParseTimestamp(rawTimestamp)
	if err != nil {
		return Reading{}, err
	}
	hr, err := ValidateHeartRateValue(heartRate)
	if err != nil {
		return Reading{}, err
	}
	return s.append(ctx, Reading{Timestamp: ts, HeartRate: hr})
}

// IngestCurrent is the degraded entry point: the timestamp is taken from the
// server clock and only the numeric parse of the heart rate is checked.
func (s *Service) IngestCurrent(ctx context.Context, rawHeartRate string) (Reading, error) {
	hr, err := ParseHeartRate(rawHeartRate)
	if err != nil {
		return Reading{}, err
	}
	ts := s.now().UTC().Truncate(time.Second)
	return s.append(ctx, Reading{Timestamp: ts, HeartRate: hr})
}

// Series returns the full stored series in insertion order.
func (s *Service) Series(_ context.Context) Series {
	return s.store.All()
}

func (s *Service) append(ctx context.Context, r Reading) (Reading, error) {
	if err := s.store.Append(ctx, r); err != nil {
		return Reading{}, err
	}

	if s.publisher != nil {
		rec := RecordedReading{
			Reading:    r,
			Status:     s.detector.Classify(r),
			RecordedAt: s.now().UTC(),
		}
		if err := s.publisher.PublishReading(ctx, rec); err != nil {
			s.logger.Printf("publish failed (timestamp=%s, heart_rate=%v): %v", r.Timestamp.Format(time.RFC3339), r.HeartRate, err)
		}
	}
	return r, nil
}
