package store

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statsbeat/collector/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// recordRetries bounds the insert→lookup loop in RecordEvent. A retry is only
// needed when a concurrent insert wins the unique-constraint race and its row
// is not yet visible to our follow-up lookup.
const recordRetries = 3

// ErrRaceUnresolved is returned when RecordEvent exhausts its retries without
// either inserting a row or observing the row that beat it.
var ErrRaceUnresolved = errors.New("store: idempotency race not resolved")

// PostgresStore is the durable persistence layer for events.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by the readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

const insertEventSQL = `
	INSERT INTO events (type, ts, session_id, idempotency_key)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (idempotency_key) DO NOTHING
	RETURNING id, type, ts, session_id, idempotency_key, created_at
`

const selectEventByKeySQL = `
	SELECT id, type, ts, session_id, idempotency_key, created_at
	FROM events
	WHERE idempotency_key = $1
`

// RecordEvent persists an event, deduplicated by idempotency key. When a row
// with the key already exists it is returned unchanged with created=false;
// the submission's type/ts/session_id are ignored on that path (first write
// wins). Deduplication is enforced by the unique index, never by an
// application-level lock.
func (p *PostgresStore) RecordEvent(
	ctx context.Context,
	eventType models.EventType,
	ts time.Time,
	sessionID string,
	idempotencyKey string,
) (models.Event, bool, error) {

	if sessionID == "" || idempotencyKey == "" {
		return models.Event{}, false, errors.New("store: sessionID/idempotencyKey required")
	}
	if !eventType.Valid() {
		return models.Event{}, false, errors.New("store: unknown event type")
	}

	var ev models.Event
	for attempt := 0; attempt < recordRetries; attempt++ {
		err := p.pool.QueryRow(ctx, insertEventSQL,
			string(eventType), ts.UTC(), sessionID, idempotencyKey,
		).Scan(&ev.ID, &ev.Type, &ev.TS, &ev.SessionID, &ev.IdempotencyKey, &ev.CreatedAt)
		if err == nil {
			return ev, true, nil
		}
		// ON CONFLICT DO NOTHING yields no rows when the key already exists.
		if !errors.Is(err, pgx.ErrNoRows) {
			return models.Event{}, false, err
		}

		err = p.pool.QueryRow(ctx, selectEventByKeySQL, idempotencyKey).
			Scan(&ev.ID, &ev.Type, &ev.TS, &ev.SessionID, &ev.IdempotencyKey, &ev.CreatedAt)
		if err == nil {
			return ev, false, nil
		}
		// The competing insert has not committed into our view yet; go around.
		if !errors.Is(err, pgx.ErrNoRows) {
			return models.Event{}, false, err
		}
	}

	return models.Event{}, false, ErrRaceUnresolved
}

// CountByType returns event counts grouped by type in the half-open window
// [from, to). Types with no events in the window are absent from the map;
// zero-filling over the enumeration is the aggregator's job.
func (p *PostgresStore) CountByType(
	ctx context.Context,
	from time.Time,
	to time.Time,
) (map[models.EventType]int64, error) {

	rows, err := p.pool.Query(ctx, `
		SELECT type, COUNT(*)
		FROM events
		WHERE ts >= $1
		  AND ts <  $2
		GROUP BY type
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.EventType]int64)
	for rows.Next() {
		var t models.EventType
		var n int64
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[t] = n
	}
	return counts, rows.Err()
}
