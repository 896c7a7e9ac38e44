package persistence

import (
	"errors"
	"fmt"

	"example.com/heartmonitor/internal/domain"
)

// ErrLengthMismatch is wrapped by every error reporting a series whose parallel sequences diverge.
var ErrLengthMismatch = errors.New("series length mismatch")

// NewLengthMismatchError wraps ErrLengthMismatch with both sequence lengths.
func NewLengthMismatchError(timestamps, heartRates int) error {
	return fmt.Errorf("%w: %d timestamps, %d heart rates", ErrLengthMismatch, timestamps, heartRates)
}

func lengthMismatchError(s domain.Series) error {
	return NewLengthMismatchError(len(s.Timestamps), len(s.HeartRates))
}
