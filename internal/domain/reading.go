package domain

import "time"

// Reading is a single heart-rate sample.
type Reading struct {
	Timestamp time.Time
	HeartRate float64
}

// Series is the append-only sequence of readings, stored as two parallel slices
// that always have the same length.
type Series struct {
	Timestamps []time.Time
	HeartRates []float64
}

// Len returns the number of readings in the series.
func (s Series) Len() int {
	return len(s.Timestamps)
}

// At returns the i-th reading.
func (s Series) At(i int) Reading {
	return Reading{Timestamp: s.Timestamps[i], HeartRate: s.HeartRates[i]}
}

// Last returns the most recent reading, if any.
func (s Series) Last() (Reading, bool) {
	if s.Len() == 0 {
		return Reading{}, false
	}
	return s.At(s.Len() - 1), true
}

// Consistent reports whether both sequences have equal length.
func (s Series) Consistent() bool {
	return len(s.Timestamps) == len(s.HeartRates)
}

// Clone returns a deep copy so callers never alias the store's slices.
// The result always has non-nil slices.
func (s Series) Clone() Series {
	out := Series{
		Timestamps: make([]time.Time, len(s.Timestamps)),
		HeartRates: make([]float64, len(s.HeartRates)),
	}
	copy(out.Timestamps, s.Timestamps)
	copy(out.HeartRates, s.HeartRates)
	return out
}

// Append returns a new series with r added at the end. The receiver is left untouched.
func (s Series) Append(r Reading) Series {
	out := Series{
		Timestamps: make([]time.Time, len(s.Timestamps), len(s.Timestamps)+1),
		HeartRates: make([]float64, len(s.HeartRates), len(s.HeartRates)+1),
	}
	copy(out.Timestamps, s.Timestamps)
	copy(out.HeartRates, s.HeartRates)
	out.Timestamps = append(out.Timestamps, r.Timestamp)
	out.HeartRates = append(out.HeartRates, r.HeartRate)
	return out
}

// EmptySeries returns a series with zero readings and non-nil slices.
func EmptySeries() Series {
	return Series{Timestamps: []time.Time{}, HeartRates: []float64{}}
}
