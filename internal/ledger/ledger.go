// Package ledger implements the transaction reconciliation engine: the
// single owner of the in-memory transaction and OCR item lists. It loads
// cache-first, refreshes from the remote store, records manual entries
// remote-first with local fallback, and runs the OCR review state machine.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jamtero2001/FINANCE-APP/internal/cache"
	"github.com/jamtero2001/FINANCE-APP/internal/core"
	"github.com/jamtero2001/FINANCE-APP/internal/log"
	"github.com/jamtero2001/FINANCE-APP/internal/remote"
	"github.com/jamtero2001/FINANCE-APP/internal/scanner"
)

// User-facing notices surfaced by the review surface and the manual-add
// flow. Wording matches the mobile screen.
const (
	NoticeNoItems            = "No items detected. Try rescanning your receipt."
	NoticeScanFailed         = "Unable to parse receipt."
	NoticeScannerUnavailable = "Receipt scanning is not available on this device."
	NoticeSavedLocally       = "Unable to save remotely. Saved locally instead."
)

// ValidationError rejects bad user input before any state change.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// ErrScanInProgress guards the OCR sub-machine: a new scan may only start
// from idle.
var ErrScanInProgress = errors.New("a scan is already in progress")

// Phase is the OCR sub-machine state.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseScanning  Phase = "scanning"
	PhaseReviewing Phase = "reviewing"
)

// ReviewState is a copy of the OCR review surface's state: the staged
// pending items plus a non-blocking notice. The review surface is usable
// even when Pending is empty.
type ReviewState struct {
	Phase   Phase
	Pending []core.OcrItem
	Notice  string
}

// ManualEntry is the raw form input of the manual-add flow. Amount is the
// unparsed user string.
type ManualEntry struct {
	Payee       string
	Description string
	Amount      string
	CategoryID  string
	Date        time.Time
}

// AddOutcome reports how a manual entry was persisted. SavedLocally is true
// when the entry only landed in local state; Notice carries the non-fatal
// message shown when a remote insert was attempted and failed.
type AddOutcome struct {
	Transaction  core.Transaction
	SavedLocally bool
	Notice       string
}

// Notifier is told about transactions recorded in the remote store, so
// other devices can refresh. Best effort; failures are logged and ignored.
type Notifier interface {
	TransactionRecorded(ctx context.Context, id string) error
}

// Config holds engine configuration.
type Config struct {
	// RecentLimit caps the remote refresh query (default: 50).
	RecentLimit int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{RecentLimit: 50}
}

// Ledger owns the view state. All access goes through its mutex; the cache
// and remote stores are passive collaborators invoked on demand.
type Ledger struct {
	store    cache.Store
	remote   remote.Store
	scanner  scanner.Scanner
	notifier Notifier
	config   Config

	mu           sync.Mutex
	transactions []core.Transaction
	ocrItems     []core.OcrItem
	phase        Phase
	pending      []core.OcrItem
	notice       string

	// mutSeq increments on every adoption of a new transaction list. A
	// refresh captures it at start and discards its result if anything
	// landed while the call was in flight.
	mutSeq uint64
	// scanSeq invalidates an in-flight scan when the surface is discarded.
	scanSeq uint64

	now   func() time.Time
	newID func() string
}

// New creates an engine over the given collaborators. notifier may be nil.
func New(store cache.Store, remoteStore remote.Store, sc scanner.Scanner, notifier Notifier, config Config) *Ledger {
	if config.RecentLimit <= 0 {
		config.RecentLimit = DefaultConfig().RecentLimit
	}
	if sc == nil {
		sc = scanner.Unavailable{}
	}
	if remoteStore == nil {
		remoteStore = remote.Unconfigured{}
	}
	return &Ledger{
		store:    store,
		remote:   remoteStore,
		scanner:  sc,
		notifier: notifier,
		config:   config,
		phase:    PhaseIdle,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Start performs the startup cache reads. Both keys load concurrently; a
// missing, malformed, or unreadable snapshot leaves the corresponding list
// empty and is only logged. The remote refresh is issued separately (see
// Refresh) so the UI can render cached state immediately.
func (l *Ledger) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		txs, ok := loadSnapshot[[]core.Transaction](gctx, l.store, cache.KeyTransactions)
		if !ok {
			return nil
		}
		l.mu.Lock()
		l.transactions = txs
		l.mutSeq++
		l.mu.Unlock()
		slog.InfoContext(gctx, "Loaded cached transactions", log.FieldCount, len(txs))
		return nil
	})

	g.Go(func() error {
		items, ok := loadSnapshot[[]core.OcrItem](gctx, l.store, cache.KeyOcrItems)
		if !ok {
			return nil
		}
		l.mu.Lock()
		l.ocrItems = items
		l.mu.Unlock()
		slog.InfoContext(gctx, "Loaded cached OCR items", log.FieldCount, len(items))
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	// Re-persisting what we just adopted is a no-op by construction and
	// keeps the snapshots fresh after key migrations.
	l.writeThroughTransactions(ctx)
	return nil
}

// Refresh replaces the transaction list with the newest remote rows. When
// the store is unconfigured this is a silent no-op. A failed call leaves
// state untouched and returns the error for the caller to log; no retry is
// scheduled here. A result that raced with a local mutation is discarded.
func (l *Ledger) Refresh(ctx context.Context) error {
	if !l.remote.Available() {
		return nil
	}

	l.mu.Lock()
	startSeq := l.mutSeq
	l.mu.Unlock()

	txs, err := l.remote.ListRecent(ctx, l.config.RecentLimit)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if l.mutSeq != startSeq {
		l.mu.Unlock()
		slog.InfoContext(ctx, "Discarding stale refresh result", log.FieldSeq, startSeq)
		return nil
	}
	l.transactions = txs
	l.mutSeq++
	l.mu.Unlock()

	l.writeThroughTransactions(ctx)
	slog.InfoContext(ctx, "Refreshed transactions from remote store", log.FieldCount, len(txs))
	return nil
}

// AddManual records a user-entered transaction. The amount must parse as a
// decimal; the sign is then forced negative (manual entries are always
// expenses). Remote-first when the store is configured, with a local
// time-based id as fallback.
func (l *Ledger) AddManual(ctx context.Context, entry ManualEntry) (AddOutcome, error) {
	cents, err := core.ParseSignedCents(entry.Amount)
	if err != nil {
		return AddOutcome{}, &ValidationError{Field: "amount", Msg: "please enter a valid amount"}
	}
	amount := core.Money{Cents: cents}.Abs().Expense()

	label := strings.TrimSpace(entry.Payee)
	if label == "" {
		label = strings.TrimSpace(entry.Description)
	}
	if label == "" {
		label = core.DefaultLabel
	}

	occurredAt := entry.Date
	if occurredAt.IsZero() {
		occurredAt = l.now()
	}

	draft := core.Draft{
		Label:      label,
		Icon:       core.DefaultIcon,
		Amount:     amount,
		CategoryID: entry.CategoryID,
		OccurredAt: occurredAt,
	}

	var notice string
	if l.remote.Available() {
		tx, err := l.remote.Insert(ctx, draft)
		if err == nil {
			l.prepend(tx)
			l.writeThroughTransactions(ctx)
			l.notifyRecorded(ctx, tx.ID)
			return AddOutcome{Transaction: tx}, nil
		}
		if !errors.Is(err, remote.ErrUnavailable) {
			slog.ErrorContext(ctx, "Remote insert failed, saving locally",
				log.FieldLabel, label, log.FieldError, err)
			notice = NoticeSavedLocally
		}
	}

	// Local fallback: synthesize a time-based id and keep the entry in view
	// state only. A later refresh from the remote store will drop it; see
	// the last-write-wins note in DESIGN.md.
	tx := core.Transaction{
		ID:     fmt.Sprintf("%d", l.now().UnixMilli()),
		Icon:   draft.Icon,
		Label:  draft.Label,
		Amount: draft.Amount,
	}
	l.prepend(tx)
	l.writeThroughTransactions(ctx)

	return AddOutcome{Transaction: tx, SavedLocally: true, Notice: notice}, nil
}

func (l *Ledger) prepend(tx core.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transactions = append([]core.Transaction{tx}, l.transactions...)
	l.mutSeq++
}

func (l *Ledger) notifyRecorded(ctx context.Context, id string) {
	if l.notifier == nil {
		return
	}
	if err := l.notifier.TransactionRecorded(ctx, id); err != nil {
		slog.WarnContext(ctx, "Failed to publish transaction event",
			log.FieldTransactionID, id, log.FieldError, err)
	}
}

// Transactions returns a copy of the current view state.
func (l *Ledger) Transactions() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// OcrItems returns a copy of the persistent OCR item list.
func (l *Ledger) OcrItems() []core.OcrItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.OcrItem, len(l.ocrItems))
	copy(out, l.ocrItems)
	return out
}

// Balance computes the running balance of the current view state.
func (l *Ledger) Balance() core.Money {
	return core.Balance(l.Transactions())
}

// Summary computes the header figures over the current view state.
func (l *Ledger) Summary() core.Summary {
	return core.Summarize(l.Transactions())
}

func (l *Ledger) writeThroughTransactions(ctx context.Context) {
	l.writeThrough(ctx, cache.KeyTransactions, l.Transactions())
}

func (l *Ledger) writeThroughOcrItems(ctx context.Context) {
	l.writeThrough(ctx, cache.KeyOcrItems, l.OcrItems())
}

// writeThrough persists a snapshot after a state change. Cache failures are
// logged and swallowed: the cache is best-effort, not authoritative.
func (l *Ledger) writeThrough(ctx context.Context, key string, data any) {
	if l.store == nil {
		return
	}
	payload, err := cache.EncodeSnapshot(data)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode snapshot", log.FieldCacheKey, key, log.FieldError, err)
		return
	}
	if err := l.store.Save(ctx, key, payload); err != nil {
		slog.WarnContext(ctx, "Failed to save snapshot", log.FieldCacheKey, key, log.FieldError, err)
	}
}

// loadSnapshot reads and decodes one cache key, treating every failure mode
// as absent.
func loadSnapshot[T any](ctx context.Context, store cache.Store, key string) (T, bool) {
	var zero T
	if store == nil {
		return zero, false
	}
	payload, ok, err := store.Load(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load snapshot", log.FieldCacheKey, key, log.FieldError, err)
		return zero, false
	}
	if !ok {
		return zero, false
	}
	data, ok := cache.DecodeSnapshot[T](payload)
	if !ok {
		slog.WarnContext(ctx, "Ignoring malformed snapshot", log.FieldCacheKey, key)
		return zero, false
	}
	return data, true
}
