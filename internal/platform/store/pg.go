package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a RecordStore over a single clinic_records table, one row per
// record with the field bag in a jsonb column. Subscriptions are in-process:
// the server is the only writer, so notifying after each local commit gives
// the same view a database-side push would.
type Postgres struct {
	pool     *pgxpool.Pool
	watchers *watcherHub
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, watchers: newWatcherHub()}
}

// EnsureSchema creates the records table if it does not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS clinic_records (
			collection TEXT NOT NULL,
			record_id  TEXT NOT NULL,
			data       JSONB NOT NULL DEFAULT '{}'::jsonb,
			PRIMARY KEY (collection, record_id)
		)`)
	if err != nil {
		return fmt.Errorf("ensure clinic_records schema: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, path string) (Fields, error) {
	coll, id, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	var raw []byte
	err = p.pool.QueryRow(ctx,
		`SELECT data FROM clinic_records WHERE collection = $1 AND record_id = $2`,
		coll, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	var rec Fields
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return rec, nil
}

func (p *Postgres) Set(ctx context.Context, path string, value Fields) error {
	coll, id, err := SplitPath(path)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO clinic_records (collection, record_id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, record_id) DO UPDATE SET data = EXCLUDED.data`,
		coll, id, raw)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	p.watchers.notify(path, cloneFields(value))
	return nil
}

func (p *Postgres) Update(ctx context.Context, path string, partial Fields) error {
	coll, id, err := SplitPath(path)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	// jsonb || merges shallowly; strip_nulls drops keys an explicit null asked
	// to remove. Updating a missing path creates the record.
	var merged []byte
	err = p.pool.QueryRow(ctx, `
		INSERT INTO clinic_records (collection, record_id, data)
		VALUES ($1, $2, jsonb_strip_nulls($3::jsonb))
		ON CONFLICT (collection, record_id)
		DO UPDATE SET data = jsonb_strip_nulls(clinic_records.data || $3::jsonb)
		RETURNING data`,
		coll, id, raw).Scan(&merged)
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	var rec Fields
	if err := json.Unmarshal(merged, &rec); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	p.watchers.notify(path, rec)
	return nil
}

func (p *Postgres) Delete(ctx context.Context, path string) error {
	coll, id, err := SplitPath(path)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx,
		`DELETE FROM clinic_records WHERE collection = $1 AND record_id = $2`, coll, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	p.watchers.notify(path, nil)
	return nil
}

func (p *Postgres) List(ctx context.Context, path string) (map[string]Fields, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT record_id, data FROM clinic_records WHERE collection = $1`, path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	defer rows.Close()

	out := make(map[string]Fields)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("list %s: %w", path, err)
		}
		var rec Fields
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", path, id, err)
		}
		out[id] = rec
	}
	return out, rows.Err()
}

func (p *Postgres) Subscribe(path string, fn func(Fields)) func() {
	return p.watchers.add(path, fn)
}
