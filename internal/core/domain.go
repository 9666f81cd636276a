package core

import (
	"errors"
	"strings"
	"time"
)

// Fallback values matching what the mobile screen renders when a field
// comes back blank from the remote store or the scanner.
const (
	DefaultIcon            = "shopping-bag"
	DefaultLabel           = "Transaction"
	DefaultItemDescription = "Item"
)

type (
	Money struct {
		Cents int64 `json:"cents"`
	}

	// Transaction is a single ledger entry. Negative amounts are expenses,
	// positive amounts are income. Transactions are never mutated after
	// creation; the list they live in is only ever replaced wholesale.
	Transaction struct {
		ID     string `json:"id"`
		Icon   string `json:"icon"`
		Label  string `json:"label"`
		Amount Money  `json:"amount"`
	}

	// Draft is a transaction before the remote store has assigned it an
	// identity. CategoryID and OccurredAt travel to the remote store but are
	// not part of the rendered view model.
	Draft struct {
		Label      string
		Icon       string
		Amount     Money
		CategoryID string
		OccurredAt time.Time
	}

	// OcrItem is a confirmed receipt line item in the persistent OCR ledger.
	// Prices are always non-negative.
	OcrItem struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		Price       Money  `json:"price"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyID       = errors.New("empty id")
	ErrEmptyLabel    = errors.New("empty label")
	ErrNegativePrice = errors.New("negative price")
)

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(t.Label) == "" {
		return ErrEmptyLabel
	}
	return nil
}

func (i OcrItem) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(i.Description) == "" {
		return ErrEmptyLabel
	}
	if i.Price.Cents < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Normalize fills the fallback icon and label on rows the remote store
// returned with blanks.
func (t Transaction) Normalize() Transaction {
	if strings.TrimSpace(t.Icon) == "" {
		t.Icon = DefaultIcon
	}
	if strings.TrimSpace(t.Label) == "" {
		t.Label = DefaultLabel
	}
	return t
}

// Expense returns the amount with negative magnitude regardless of the sign
// it carried. Manual entries are always recorded as expenses.
func (m Money) Expense() Money {
	if m.Cents > 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// Abs returns the magnitude.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}
