// Package postgres persists readings in PostgreSQL.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/heartmonitor/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS heart_rate_readings (
    seq BIGSERIAL PRIMARY KEY,
    recorded_at TIMESTAMPTZ NOT NULL,
    heart_rate DOUBLE PRECISION NOT NULL
)`

// Repository provides Postgres-backed persistence for the reading series.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the readings table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

// Load returns every reading ordered by insertion sequence.
func (r *Repository) Load(ctx context.Context) (domain.Series, error) {
	rows, err := r.pool.Query(ctx, `SELECT recorded_at, heart_rate FROM heart_rate_readings ORDER BY seq`)
	if err != nil {
		return domain.Series{}, err
	}
	defer rows.Close()

	series := domain.EmptySeries()
	for rows.Next() {
		var reading domain.Reading
		if err := rows.Scan(&reading.Timestamp, &reading.HeartRate); err != nil {
			return domain.Series{}, &domain.StorageError{Kind: domain.StorageCorrupt, Op: "scan reading", Err: err}
		}
		series.Timestamps = append(series.Timestamps, reading.Timestamp.UTC())
		series.HeartRates = append(series.HeartRates, reading.HeartRate)
	}
	if err := rows.Err(); err != nil {
		return domain.Series{}, err
	}
	return series, nil
}

// Append inserts a single reading inside a transaction.
func (r *Repository) Append(ctx context.Context, _ domain.Series, reading domain.Reading) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO heart_rate_readings (recorded_at, heart_rate) VALUES ($1, $2)`,
		reading.Timestamp.UTC(),
		reading.HeartRate,
	)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}
