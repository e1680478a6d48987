//go:build integration

package pg_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/pvzzle/polywatch/internal/storage"
	"github.com/pvzzle/polywatch/internal/storage/pg"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestRepo_RecordBatchAndListRecent(t *testing.T) {
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		dsn = os.Getenv("PG_DSN")
	}
	if dsn == "" {
		t.Skip("TEST_PG_DSN/PG_DSN is not set")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)

	repo := pg.New(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	// чистим после миграций (быстро и предсказуемо)
	_, _ = pool.Exec(ctx, "TRUNCATE polymarket_activity")

	raw := `{"transactionHash":"0x1","timestamp":100,"type":"TRADE"}`
	recA := storage.ActivityRecord{
		TxHash:    "0x1",
		Timestamp: 100,
		Type:      "TRADE",
		Side:      "BUY",
		Raw:       json.RawMessage(raw),
	}
	recB := storage.ActivityRecord{
		TxHash:    "0x2",
		Timestamp: 200,
		Type:      "REDEEM",
		Raw:       json.RawMessage(`{"transactionHash":"0x2"}`),
	}

	fresh, err := repo.RecordBatch(ctx, []storage.ActivityRecord{recA, recB})
	if err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}
	if len(fresh) != 2 {
		t.Fatalf("expected 2 inserted, got=%d", len(fresh))
	}

	fresh, err = repo.RecordBatch(ctx, []storage.ActivityRecord{recA, recB})
	if err != nil {
		t.Fatalf("RecordBatch repeat: %v", err)
	}
	if len(fresh) != 0 {
		t.Fatalf("expected 0 inserted on repeat, got=%d", len(fresh))
	}

	got, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got=%d", len(got))
	}
	if got[0].TxHash != "0x2" || got[1].TxHash != "0x1" {
		t.Fatalf("expected ts-descending order, got=%+v", got)
	}
	if string(got[1].Raw) != raw {
		t.Fatalf("expected verbatim raw payload, got=%s", got[1].Raw)
	}
}
