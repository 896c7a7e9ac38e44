package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	readingPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "heart_monitor",
		Subsystem: "store",
		Name:      "last_reading_timestamp_seconds",
		Help:      "Unix timestamp of the most recently persisted reading.",
	})
	seriesLengthGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "heart_monitor",
		Subsystem: "store",
		Name:      "series_length",
		Help:      "Number of readings currently held by the store.",
	})
	storageFailureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heart_monitor",
		Subsystem: "store",
		Name:      "failures_total",
		Help:      "Number of storage failures grouped by operation.",
	}, []string{"op"})
	ingestedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heart_monitor",
		Subsystem: "ingest",
		Name:      "readings_total",
		Help:      "Number of readings accepted, grouped by entry point.",
	}, []string{"entrypoint"})
	validationFailureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heart_monitor",
		Subsystem: "ingest",
		Name:      "validation_failures_total",
		Help:      "Number of rejected readings grouped by the field that failed validation.",
	}, []string{"field"})
	publishFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "heart_monitor",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Number of reading events that could not be delivered to Kafka.",
	})
)

func init() {
	prometheus.MustRegister(
		readingPersistGauge,
		seriesLengthGauge,
		storageFailureCounter,
		ingestedCounter,
		validationFailureCounter,
		publishFailureCounter,
	)
}

// RecordReadingPersisted updates the persistence watermark and series size.
func RecordReadingPersisted(ts time.Time, length int) {
	seriesLengthGauge.Set(float64(length))
	if ts.IsZero() {
		return
	}
	readingPersistGauge.Set(float64(ts.Unix()))
}

// RecordSeriesLength sets the series size gauge, e.g. after a load.
func RecordSeriesLength(length int) {
	seriesLengthGauge.Set(float64(length))
}

// RecordStorageFailure counts a failed storage operation.
func RecordStorageFailure(op string) {
	storageFailureCounter.WithLabelValues(op).Inc()
}

// RecordIngested counts an accepted reading.
func RecordIngested(entrypoint string) {
	ingestedCounter.WithLabelValues(entrypoint).Inc()
}

// RecordValidationFailure counts a rejected reading.
func RecordValidationFailure(field string) {
	validationFailureCounter.WithLabelValues(field).Inc()
}

// RecordPublishFailure counts an undelivered reading event.
func RecordPublishFailure() {
	publishFailureCounter.Inc()
}
