// Package scanner defines the receipt-scanning capability: given a captured
// receipt image, produce candidate line items for review. The capability is
// resolved once at startup into an available or unavailable variant.
package scanner

import (
	"context"
	"errors"
	"fmt"

	"github.com/jamtero2001/FINANCE-APP/internal/core"
)

// Candidate is a line item extracted from a receipt, not yet reviewed or
// committed. The scanner may leave ID empty; the ledger assigns a fallback.
type Candidate struct {
	ID          string
	Description string
	Price       core.Money
}

// Result is a successful scan. Zero items is a valid outcome, distinct from
// a failure: the review surface shows "no items detected" instead of erroring.
type Result struct {
	Items []Candidate
}

// Scanner is the receipt-scanning port.
type Scanner interface {
	ScanReceipt(ctx context.Context, image []byte) (Result, error)
}

// ErrUnavailable reports that the platform capability is absent (wrong
// device or build). Resolved once at startup, never probed per call.
var ErrUnavailable = errors.New("receipt scanning not available")

// ScanError wraps a scan that was invoked but produced no usable result.
type ScanError struct {
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan receipt: %v", e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Unavailable is the absent-capability variant.
type Unavailable struct{}

func (Unavailable) ScanReceipt(context.Context, []byte) (Result, error) {
	return Result{}, ErrUnavailable
}
