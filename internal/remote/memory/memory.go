package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jamtero2001/FINANCE-APP/internal/core"
)

// Store is an in-memory remote transaction store for tests and local-only
// runs. Rows are kept newest first, matching the remote ordering contract.
type Store struct {
	mu    sync.Mutex
	next  int
	items []core.Transaction
}

func New() *Store {
	return &Store{}
}

// NewSeeded returns a store pre-populated with rows, newest first.
func NewSeeded(txs []core.Transaction) *Store {
	s := New()
	s.items = append(s.items, txs...)
	s.next = len(txs)
	return s
}

func (s *Store) Available() bool { return true }

func (s *Store) ListRecent(_ context.Context, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.items)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]core.Transaction, n)
	copy(out, s.items[:n])
	return out, nil
}

func (s *Store) Insert(_ context.Context, draft core.Draft) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	tx := core.Transaction{
		ID:     fmt.Sprintf("mem-%d", s.next),
		Icon:   draft.Icon,
		Label:  draft.Label,
		Amount: draft.Amount,
	}.Normalize()
	s.items = append([]core.Transaction{tx}, s.items...)
	return tx, nil
}
