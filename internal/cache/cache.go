// Package cache implements the local snapshot store: best-effort, write-through
// persistence of the view state under fixed keys. The cache is an optimization,
// never a correctness boundary; every failure here is logged and swallowed by
// callers.
package cache

import "context"

// Storage keys. The version suffix is part of the key: a schema change moves
// to a new key and old snapshots simply read as absent.
const (
	KeyTransactions = "pf_transactions_v1"
	KeyOcrItems     = "pf_ocr_items_v1"
)

// Store persists opaque snapshots under fixed keys. Save replaces the entire
// prior value for the key; there is no merge. Load reports absence through
// the bool, not through the error.
type Store interface {
	Save(ctx context.Context, key string, payload []byte) error
	Load(ctx context.Context, key string) (payload []byte, ok bool, err error)
}
