package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Refresher pulls the latest transactions from the remote store into view
// state.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshProcessorConfig holds configuration for the refresh processor
type RefreshProcessorConfig struct {
	// Interval is how often to refresh from the remote store (default: 5m)
	Interval time.Duration
}

// DefaultRefreshProcessorConfig returns sensible defaults
func DefaultRefreshProcessorConfig() RefreshProcessorConfig {
	return RefreshProcessorConfig{
		Interval: 5 * time.Minute,
	}
}

// RefreshProcessor periodically refreshes view state from the remote
// store. Besides the ticker it exposes Trigger, which change-event
// consumers call to refresh immediately.
type RefreshProcessor struct {
	refresher Refresher
	config    RefreshProcessorConfig

	// Lifecycle management
	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	triggerCh chan struct{}
}

// NewRefreshProcessor creates a new refresh processor
func NewRefreshProcessor(refresher Refresher, config RefreshProcessorConfig) *RefreshProcessor {
	if config.Interval <= 0 {
		config.Interval = DefaultRefreshProcessorConfig().Interval
	}
	return &RefreshProcessor{
		refresher: refresher,
		config:    config,
	}
}

// Start begins the refresh loop. Returns an error if already running. The
// first refresh runs immediately so cached state is reconciled at startup.
func (p *RefreshProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("refresh processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.triggerCh = make(chan struct{}, 1)
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Refresh processor started",
		"interval", p.config.Interval)

	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *RefreshProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	close(p.stopCh)

	select {
	case <-p.doneCh:
		slog.InfoContext(ctx, "Refresh processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Refresh processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	return nil
}

// IsRunning returns whether the processor is currently running
func (p *RefreshProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Trigger requests an immediate refresh. Non-blocking; if a trigger is
// already pending the call is a no-op.
func (p *RefreshProcessor) Trigger() {
	p.mu.Lock()
	ch := p.triggerCh
	running := p.running
	p.mu.Unlock()
	if !running {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

// runLoop is the main refresh loop
func (p *RefreshProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	// Refresh immediately on startup
	p.refresh(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-p.triggerCh:
			p.refresh(ctx)
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// refresh runs a single refresh attempt. Failures are logged; the next
// tick will try again.
func (p *RefreshProcessor) refresh(ctx context.Context) {
	if err := p.refresher.Refresh(ctx); err != nil {
		slog.WarnContext(ctx, "Refresh failed", "error", err)
	}
}
