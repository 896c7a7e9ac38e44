// Package sqlite persists readings in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"example.com/heartmonitor/internal/domain"
)

// Config configures the SQLite backend.
type Config struct {
	// Path to the database file.
	Path string

	// BusyTimeout is how long a writer waits on a locked database.
	BusyTimeout time.Duration

	// JournalMode sets the SQLite journal mode (WAL, DELETE, ...).
	JournalMode string
}

// DefaultConfig returns defaults suitable for a single-process service.
func DefaultConfig() Config {
	return Config{
		Path:        "data/readings.db",
		BusyTimeout: 5 * time.Second,
		JournalMode: "WAL",
	}
}

// Backend stores one row per reading, ordered by an autoincrement sequence.
type Backend struct {
	db *sql.DB
}

// NewBackend opens (or creates) the database and its schema.
func NewBackend(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Path
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = DefaultConfig().BusyTimeout
	}
	if cfg.JournalMode == "" {
		cfg.JournalMode = DefaultConfig().JournalMode
	}
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(%s)",
		cfg.Path, cfg.BusyTimeout.Milliseconds(), cfg.JournalMode)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// A single connection keeps writes serialised inside the driver as well.
	db.SetMaxOpenConns(1)

	b := &Backend{db: db}
	if err := b.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return b, nil
}

func (b *Backend) initSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS readings (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at TEXT NOT NULL,
			heart_rate REAL NOT NULL
		);
	`
	_, err := b.db.ExecContext(ctx, schema)
	return err
}

// Load returns all readings in insertion order.
func (b *Backend) Load(ctx context.Context) (domain.Series, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT recorded_at, heart_rate FROM readings ORDER BY seq`)
	if err != nil {
		return domain.Series{}, err
	}
	defer rows.Close()

	series := domain.EmptySeries()
	for rows.Next() {
		var (
			raw string
			hr  float64
		)
		if err := rows.Scan(&raw, &hr); err != nil {
			return domain.Series{}, &domain.StorageError{Kind: domain.StorageCorrupt, Op: "scan reading", Err: err}
		}
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return domain.Series{}, &domain.StorageError{Kind: domain.StorageCorrupt, Op: "parse recorded_at", Err: err}
		}
		series.Timestamps = append(series.Timestamps, ts.UTC())
		series.HeartRates = append(series.HeartRates, hr)
	}
	if err := rows.Err(); err != nil {
		return domain.Series{}, err
	}
	return series, nil
}

// Append inserts r inside a transaction.
func (b *Backend) Append(ctx context.Context, _ domain.Series, r domain.Reading) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO readings (recorded_at, heart_rate) VALUES (?, ?)`,
		r.Timestamp.UTC().Format(time.RFC3339Nano), r.HeartRate,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Close closes the database handle.
func (b *Backend) Close() error {
	return b.db.Close()
}
