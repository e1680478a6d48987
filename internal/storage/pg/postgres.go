package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pvzzle/polywatch/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Postgres { return &Postgres{pool: pool} }

func (r *Postgres) EnsureSchema(ctx context.Context) error {
	// raw_json хранится как TEXT, а не JSONB: jsonb нормализует документ,
	// а нам нужен payload байт-в-байт.
	ddl := `
CREATE TABLE IF NOT EXISTS polymarket_activity (
  tx_hash TEXT PRIMARY KEY,

  ts            BIGINT NOT NULL DEFAULT 0,
  proxy_wallet  TEXT NOT NULL DEFAULT '',
  condition_id  TEXT NOT NULL DEFAULT '',
  type          TEXT NOT NULL DEFAULT '',
  side          TEXT NOT NULL DEFAULT '',
  asset         TEXT NOT NULL DEFAULT '',
  outcome       TEXT NOT NULL DEFAULT '',
  outcome_index BIGINT NOT NULL DEFAULT 0,
  price         DOUBLE PRECISION NOT NULL DEFAULT 0,
  size          DOUBLE PRECISION NOT NULL DEFAULT 0,
  usdc_size     DOUBLE PRECISION NOT NULL DEFAULT 0,
  title         TEXT NOT NULL DEFAULT '',
  slug          TEXT NOT NULL DEFAULT '',
  event_slug    TEXT NOT NULL DEFAULT '',
  icon          TEXT NOT NULL DEFAULT '',

  raw_json TEXT NOT NULL,

  first_seen_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS activity_ts_idx        ON polymarket_activity(ts);
CREATE INDEX IF NOT EXISTS activity_wallet_idx    ON polymarket_activity(proxy_wallet);
CREATE INDEX IF NOT EXISTS activity_condition_idx ON polymarket_activity(condition_id);
CREATE INDEX IF NOT EXISTS activity_asset_idx     ON polymarket_activity(asset);
`
	_, err := r.pool.Exec(ctx, ddl)
	return err
}

func (r *Postgres) RecordBatch(ctx context.Context, recs []storage.ActivityRecord) ([]storage.ActivityRecord, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(cctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(cctx) }()

	q := `
INSERT INTO polymarket_activity(
  tx_hash, ts, proxy_wallet, condition_id, type, side, asset,
  outcome, outcome_index, price, size, usdc_size,
  title, slug, event_slug, icon, raw_json
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
ON CONFLICT(tx_hash) DO NOTHING`

	var fresh []storage.ActivityRecord
	for _, rec := range recs {
		tag, err := tx.Exec(cctx, q,
			rec.TxHash, rec.Timestamp, rec.ProxyWallet, rec.ConditionID,
			rec.Type, rec.Side, rec.Asset,
			rec.Outcome, rec.OutcomeIndex, rec.Price, rec.Size, rec.UsdcSize,
			rec.Title, rec.Slug, rec.EventSlug, rec.Icon, string(rec.Raw),
		)
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", rec.TxHash, err)
		}
		if tag.RowsAffected() == 1 {
			fresh = append(fresh, rec)
		}
	}

	if err := tx.Commit(cctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return fresh, nil
}

func (r *Postgres) ListRecent(ctx context.Context, limit int) ([]storage.ActivityRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(cctx, `
SELECT tx_hash, ts, proxy_wallet, condition_id, type, side, asset,
       outcome, outcome_index, price, size, usdc_size,
       title, slug, event_slug, icon, raw_json
FROM polymarket_activity
ORDER BY ts DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.ActivityRecord
	for rows.Next() {
		var rec storage.ActivityRecord
		var raw string
		if err := rows.Scan(
			&rec.TxHash, &rec.Timestamp, &rec.ProxyWallet, &rec.ConditionID,
			&rec.Type, &rec.Side, &rec.Asset,
			&rec.Outcome, &rec.OutcomeIndex, &rec.Price, &rec.Size, &rec.UsdcSize,
			&rec.Title, &rec.Slug, &rec.EventSlug, &rec.Icon, &raw,
		); err != nil {
			return nil, err
		}
		rec.Raw = json.RawMessage(raw)
		out = append(out, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *Postgres) Close() error {
	if r != nil && r.pool != nil {
		r.pool.Close()
	}
	return nil
}

func (r *Postgres) String() string { return fmt.Sprintf("pgrepo(%p)", r.pool) }
