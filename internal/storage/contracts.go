package storage

import "context"

type Repository interface {
	EnsureSchema(ctx context.Context) error

	// RecordBatch inserts records in one transaction, skipping tx hashes
	// that are already present. Returns the newly inserted subset in
	// input order.
	RecordBatch(ctx context.Context, recs []ActivityRecord) ([]ActivityRecord, error)

	ListRecent(ctx context.Context, limit int) ([]ActivityRecord, error)

	Close() error
}
