// Package file persists the series as a single JSON document.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"example.com/heartmonitor/internal/domain"
	"example.com/heartmonitor/internal/persistence"
)

// document is the on-disk layout read by the web client.
type document struct {
	Timestamps []string   `json:"timestamps"`
	HeartRates []*float64 `json:"heart_rates"`
}

// Backend stores the series at path, rewriting the whole file on every append.
type Backend struct {
	path string
}

// NewBackend returns a Backend for path, creating the parent directory if needed.
func NewBackend(path string) (*Backend, error) {
	if path == "" {
		return nil, errors.New("data file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Backend{path: path}, nil
}

// Path returns the data file location.
func (b *Backend) Path() string {
	return b.path
}

// Load reads and decodes the data file. A missing file is an empty series.
func (b *Backend) Load(_ context.Context) (domain.Series, error) {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.EmptySeries(), nil
		}
		return domain.Series{}, &domain.StorageError{Kind: domain.StorageRead, Op: "read " + b.path, Err: err}
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Series{}, corrupt(b.path, err)
	}
	if len(doc.Timestamps) != len(doc.HeartRates) {
		return domain.Series{}, corrupt(b.path, persistence.NewLengthMismatchError(len(doc.Timestamps), len(doc.HeartRates)))
	}

	series := domain.Series{
		Timestamps: make([]time.Time, 0, len(doc.Timestamps)),
		HeartRates: make([]float64, 0, len(doc.HeartRates)),
	}
	for i, rawTS := range doc.Timestamps {
		ts, err := domain.ParseTimestamp(rawTS)
		if err != nil {
			return domain.Series{}, corrupt(b.path, fmt.Errorf("entry %d: %w", i, err))
		}
		if doc.HeartRates[i] == nil {
			return domain.Series{}, corrupt(b.path, fmt.Errorf("entry %d: heart rate is null", i))
		}
		series.Timestamps = append(series.Timestamps, ts)
		series.HeartRates = append(series.HeartRates, *doc.HeartRates[i])
	}
	return series, nil
}

// Append writes next to a temporary file and renames it over the data file,
// so readers observe either the old or the new document.
func (b *Backend) Append(_ context.Context, next domain.Series, _ domain.Reading) error {
	if !next.Consistent() {
		return persistence.NewLengthMismatchError(len(next.Timestamps), len(next.HeartRates))
	}
	doc := document{
		Timestamps: make([]string, len(next.Timestamps)),
		HeartRates: make([]*float64, len(next.HeartRates)),
	}
	for i := range next.Timestamps {
		doc.Timestamps[i] = next.Timestamps[i].UTC().Format(time.RFC3339Nano)
		hr := next.HeartRates[i]
		doc.HeartRates[i] = &hr
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return writeAtomic(b.path, payload)
}

// Close is a no-op; the file is not held open between writes.
func (b *Backend) Close() error {
	return nil
}

func writeAtomic(path string, payload []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	return syncDir(filepath.Dir(path))
}

// syncDir flushes directory entries so a completed rename survives a crash.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		d.Close()
		return err
	}
	return d.Close()
}

func corrupt(path string, err error) error {
	return &domain.StorageError{Kind: domain.StorageCorrupt, Op: "decode " + path, Err: err}
}
