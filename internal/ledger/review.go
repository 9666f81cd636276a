package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jamtero2001/FINANCE-APP/internal/core"
	"github.com/jamtero2001/FINANCE-APP/internal/log"
	"github.com/jamtero2001/FINANCE-APP/internal/scanner"
)

// BeginScan runs the receipt scanner and stages its candidates for review.
// Only one scan may run at a time; entering from any phase other than idle
// fails without touching state. Scan failures and empty results both land
// in the reviewing phase with a notice, so the user can rescan or type
// items in manually.
func (l *Ledger) BeginScan(ctx context.Context, image []byte) (ReviewState, error) {
	l.mu.Lock()
	if l.phase != PhaseIdle {
		st := l.reviewLocked()
		l.mu.Unlock()
		return st, ErrScanInProgress
	}
	l.phase = PhaseScanning
	l.pending = nil
	l.notice = ""
	seq := l.scanSeq
	l.mu.Unlock()

	result, err := l.scanner.ScanReceipt(ctx, image)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.scanSeq != seq || l.phase != PhaseScanning {
		// Discarded while the scan was in flight; drop the result.
		return l.reviewLocked(), nil
	}
	l.phase = PhaseReviewing

	switch {
	case errors.Is(err, scanner.ErrUnavailable):
		l.notice = NoticeScannerUnavailable
	case err != nil:
		slog.WarnContext(ctx, "Receipt scan failed", log.FieldError, err)
		l.notice = NoticeScanFailed
	case len(result.Items) == 0:
		l.notice = NoticeNoItems
	default:
		l.pending = stageCandidates(result.Items, l.now().UnixMilli())
	}
	return l.reviewLocked(), nil
}

// stageCandidates normalizes scanner output into pending items: every item
// gets an id, a description, and a non-negative price.
func stageCandidates(candidates []scanner.Candidate, nowMillis int64) []core.OcrItem {
	items := make([]core.OcrItem, 0, len(candidates))
	for i, c := range candidates {
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("ocr-%d-%d", nowMillis, i)
		}
		desc := strings.TrimSpace(c.Description)
		if desc == "" {
			desc = core.DefaultItemDescription
		}
		price := c.Price
		if price.Cents < 0 {
			price = core.Money{}
		}
		items = append(items, core.OcrItem{ID: id, Description: desc, Price: price})
	}
	return items
}

// Review returns a copy of the current review surface state.
func (l *Ledger) Review() ReviewState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reviewLocked()
}

func (l *Ledger) reviewLocked() ReviewState {
	pending := make([]core.OcrItem, len(l.pending))
	copy(pending, l.pending)
	return ReviewState{Phase: l.phase, Pending: pending, Notice: l.notice}
}

// UpdatePendingDescription edits a staged item's description in place.
func (l *Ledger) UpdatePendingDescription(id, description string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.phase != PhaseReviewing {
		return fmt.Errorf("no review in progress")
	}
	for i := range l.pending {
		if l.pending[i].ID == id {
			l.pending[i].Description = description
			return nil
		}
	}
	return fmt.Errorf("pending item %q not found", id)
}

// UpdatePendingPrice edits a staged item's price from raw user input. The
// input is coerced, never rejected: junk becomes zero.
func (l *Ledger) UpdatePendingPrice(id, raw string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.phase != PhaseReviewing {
		return fmt.Errorf("no review in progress")
	}
	for i := range l.pending {
		if l.pending[i].ID == id {
			l.pending[i].Price = core.Money{Cents: core.CoercePriceCents(raw)}
			return nil
		}
	}
	return fmt.Errorf("pending item %q not found", id)
}

// ConfirmReview commits the staged items to the persistent OCR list. Each
// committed item gets a fresh id; the batch is prepended in review order.
// Confirming an empty review is allowed and just closes the surface.
func (l *Ledger) ConfirmReview(ctx context.Context) ([]core.OcrItem, error) {
	l.mu.Lock()
	if l.phase != PhaseReviewing {
		l.mu.Unlock()
		return nil, fmt.Errorf("no review in progress")
	}
	committed := make([]core.OcrItem, 0, len(l.pending))
	for _, p := range l.pending {
		desc := strings.TrimSpace(p.Description)
		if desc == "" {
			desc = core.DefaultItemDescription
		}
		price := p.Price
		if price.Cents < 0 {
			price = core.Money{}
		}
		committed = append(committed, core.OcrItem{
			ID:          l.newID(),
			Description: desc,
			Price:       price,
		})
	}
	l.ocrItems = append(append([]core.OcrItem{}, committed...), l.ocrItems...)
	l.pending = nil
	l.notice = ""
	l.phase = PhaseIdle
	l.mu.Unlock()

	l.writeThroughOcrItems(ctx)
	slog.InfoContext(ctx, "Committed reviewed items", log.FieldItemCount, len(committed))
	return committed, nil
}

// DiscardReview abandons the current scan or review. Staged items are
// dropped; the persistent OCR list is untouched. An in-flight scan's
// result, if any, will be ignored when it lands.
func (l *Ledger) DiscardReview() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.phase == PhaseIdle {
		return
	}
	l.scanSeq++
	l.phase = PhaseIdle
	l.pending = nil
	l.notice = ""
}
