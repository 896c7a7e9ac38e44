package domain

import (
	"fmt"
	"math"
	"time"
)

// Default display thresholds in beats per minute.
const (
	DefaultLowThreshold  = 60.0
	DefaultHighThreshold = 140.0
)

// Classification labels a reading relative to the threshold band.
type Classification string

const (
	Normal   Classification = "normal"
	Abnormal Classification = "abnormal"
)

// Thresholds is the inclusive normal band [Low, High].
type Thresholds struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// DefaultThresholds returns the 60/140 band.
func DefaultThresholds() Thresholds {
	return Thresholds{Low: DefaultLowThreshold, High: DefaultHighThreshold}
}

// Validate ensures both bounds are finite and ordered.
func (t Thresholds) Validate() error {
	if math.IsNaN(t.Low) || math.IsInf(t.Low, 0) || math.IsNaN(t.High) || math.IsInf(t.High, 0) {
		return fmt.Errorf("thresholds must be finite (low=%v, high=%v)", t.Low, t.High)
	}
	if t.Low > t.High {
		return fmt.Errorf("low threshold %v exceeds high threshold %v", t.Low, t.High)
	}
	return nil
}

// AnnotatedReading pairs a reading with its classification.
type AnnotatedReading struct {
	Timestamp time.Time
	HeartRate float64
	Status    Classification
}

// Detector flags readings that fall outside the threshold band.
// Values equal to a bound are normal.
type Detector struct {
	thresholds Thresholds
}

// NewDetector builds a Detector after validating the thresholds.
func NewDetector(t Thresholds) (*Detector, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Detector{thresholds: t}, nil
}

// Thresholds returns the configured band.
func (d *Detector) Thresholds() Thresholds {
	return d.thresholds
}

// Classify reports whether r lies outside the band.
func (d *Detector) Classify(r Reading) Classification {
	if r.HeartRate < d.thresholds.Low || r.HeartRate > d.thresholds.High {
		return Abnormal
	}
	return Normal
}

// CountAbnormal counts readings classified Abnormal.
func (d *Detector) CountAbnormal(s Series) int {
	count := 0
	for i := 0; i < s.Len(); i++ {
		if d.Classify(s.At(i)) == Abnormal {
			count++
		}
	}
	return count
}

// Annotate classifies every reading of s in order.
func (d *Detector) Annotate(s Series) []AnnotatedReading {
	out := make([]AnnotatedReading, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		r := s.At(i)
		out = append(out, AnnotatedReading{
			Timestamp: r.Timestamp,
			HeartRate: r.HeartRate,
			Status:    d.Classify(r),
		})
	}
	return out
}
