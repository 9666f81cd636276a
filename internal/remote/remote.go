// Package remote defines the port for the remote transaction store: a
// table-like resource queryable newest-first with a cap, supporting
// single-row inserts that return the assigned identity.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/jamtero2001/FINANCE-APP/internal/core"
)

// Store is the outbound port every remote adapter implements. Available is
// the configured/unconfigured capability, computed once at construction;
// callers silently no-op when it reports false.
type Store interface {
	Available() bool
	ListRecent(ctx context.Context, limit int) ([]core.Transaction, error)
	Insert(ctx context.Context, draft core.Draft) (core.Transaction, error)
}

// ErrUnavailable reports that the remote store is not configured. Distinct
// from a failed call: the caller degrades to local-only without a message.
var ErrUnavailable = errors.New("remote store not configured")

// Error wraps a failed remote call. Background refresh logs and ignores
// these; insert paths fall back to local persistence.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

// Unconfigured is the unavailable variant of the capability. Every operation
// degrades with ErrUnavailable and leaves local state untouched.
type Unconfigured struct{}

func (Unconfigured) Available() bool { return false }

func (Unconfigured) ListRecent(context.Context, int) ([]core.Transaction, error) {
	return nil, ErrUnavailable
}

func (Unconfigured) Insert(context.Context, core.Draft) (core.Transaction, error) {
	return core.Transaction{}, ErrUnavailable
}
