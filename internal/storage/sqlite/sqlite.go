package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pvzzle/polywatch/internal/storage"

	_ "modernc.org/sqlite"
)

type SQLite struct {
	db *sql.DB
}

// Open открывает (или создаёт) файл базы и настраивает прагмы:
// WAL + synchronous=NORMAL — скорость с приемлемой надёжностью в контейнере.
func Open(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite хочет одного писателя
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	return &SQLite{db: db}, nil
}

func (r *SQLite) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS polymarket_activity (
  tx_hash TEXT PRIMARY KEY,

  ts            INTEGER NOT NULL DEFAULT 0,
  proxy_wallet  TEXT NOT NULL DEFAULT '',
  condition_id  TEXT NOT NULL DEFAULT '',
  type          TEXT NOT NULL DEFAULT '',
  side          TEXT NOT NULL DEFAULT '',
  asset         TEXT NOT NULL DEFAULT '',
  outcome       TEXT NOT NULL DEFAULT '',
  outcome_index INTEGER NOT NULL DEFAULT 0,
  price         REAL NOT NULL DEFAULT 0,
  size          REAL NOT NULL DEFAULT 0,
  usdc_size     REAL NOT NULL DEFAULT 0,
  title         TEXT NOT NULL DEFAULT '',
  slug          TEXT NOT NULL DEFAULT '',
  event_slug    TEXT NOT NULL DEFAULT '',
  icon          TEXT NOT NULL DEFAULT '',

  raw_json TEXT NOT NULL,

  first_seen_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);

CREATE INDEX IF NOT EXISTS activity_ts_idx        ON polymarket_activity(ts);
CREATE INDEX IF NOT EXISTS activity_wallet_idx    ON polymarket_activity(proxy_wallet);
CREATE INDEX IF NOT EXISTS activity_condition_idx ON polymarket_activity(condition_id);
CREATE INDEX IF NOT EXISTS activity_asset_idx     ON polymarket_activity(asset);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

func (r *SQLite) RecordBatch(ctx context.Context, recs []storage.ActivityRecord) ([]storage.ActivityRecord, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(cctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(cctx, `
INSERT INTO polymarket_activity(
  tx_hash, ts, proxy_wallet, condition_id, type, side, asset,
  outcome, outcome_index, price, size, usdc_size,
  title, slug, event_slug, icon, raw_json
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(tx_hash) DO NOTHING`)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	var fresh []storage.ActivityRecord
	for _, rec := range recs {
		res, err := stmt.ExecContext(cctx,
			rec.TxHash, rec.Timestamp, rec.ProxyWallet, rec.ConditionID,
			rec.Type, rec.Side, rec.Asset,
			rec.Outcome, rec.OutcomeIndex, rec.Price, rec.Size, rec.UsdcSize,
			rec.Title, rec.Slug, rec.EventSlug, rec.Icon, string(rec.Raw),
		)
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", rec.TxHash, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected: %w", err)
		}
		if n == 1 {
			fresh = append(fresh, rec)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return fresh, nil
}

func (r *SQLite) ListRecent(ctx context.Context, limit int) ([]storage.ActivityRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(cctx, `
SELECT tx_hash, ts, proxy_wallet, condition_id, type, side, asset,
       outcome, outcome_index, price, size, usdc_size,
       title, slug, event_slug, icon, raw_json
FROM polymarket_activity
ORDER BY ts DESC
LIMIT ?`, limit)
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

func (r *SQLite) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLite) String() string { return fmt.Sprintf("sqliterepo(%p)", r.db) }
