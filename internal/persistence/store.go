// Package persistence owns the heart-rate series and coordinates its backends.
package persistence

import (
	"context"
	"sync"

	"example.com/heartmonitor/internal/domain"
	"example.com/heartmonitor/internal/observability"
)

// Backend persists the series. Implementations must write atomically: after a
// failed Append the persisted state is unchanged.
type Backend interface {
	// Load returns the persisted series, or an empty series when nothing has been persisted.
	Load(ctx context.Context) (domain.Series, error)
	// Append persists r. next is the full series including r, for backends that
	// rewrite the whole document.
	Append(ctx context.Context, next domain.Series, r domain.Reading) error
	Close() error
}

// Store is the only mutator of the series. It serialises appends and hands out copies.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	series  domain.Series
}

// Open loads the persisted series from backend and returns a ready Store.
func Open(ctx context.Context, backend Backend) (*Store, error) {
	s := &Store{backend: backend}
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load re-reads persisted state, replacing the in-memory series.
func (s *Store) Load(ctx context.Context) (domain.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	series, err := s.backend.Load(ctx)
	if err != nil {
		return domain.Series{}, domain.NewStorageError(domain.StorageRead, "load", err)
	}
	if !series.Consistent() {
		return domain.Series{}, &domain.StorageError{Kind: domain.StorageCorrupt, Op: "load", Err: lengthMismatchError(series)}
	}
	s.series = series.Clone()
	observability.RecordSeriesLength(s.series.Len())
	return s.series.Clone(), nil
}

// Append persists r and, only once the backend succeeded, extends the in-memory series.
func (s *Store) Append(ctx context.Context, r domain.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.series.Append(r)
	if err := s.backend.Append(ctx, next, r); err != nil {
		observability.RecordStorageFailure("append")
		return domain.NewStorageError(domain.StorageWrite, "append", err)
	}
	s.series = next
	observability.RecordReadingPersisted(r.Timestamp, s.series.Len())
	return nil
}

// All returns a copy of the current series.
func (s *Store) All() domain.Series {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.series.Clone()
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
