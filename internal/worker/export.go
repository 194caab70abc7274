// Package worker holds the message handlers run by the finboard worker and by
// server instances subscribed to the invalidation exchange.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finboard/internal/amqp"
	"finboard/internal/core"
	"finboard/internal/export"
	"finboard/internal/filter"
	"finboard/internal/invalidation"
	"finboard/internal/log"
	"finboard/internal/metrics"
)

// AccountsSource builds the accounts view for a user.
type AccountsSource interface {
	Accounts(ctx context.Context, userID string, st filter.State) (core.AccountsViewModel, error)
}

// ExportWorker exports a user's account snapshot whenever their dashboard
// goes stale. With a positive debounce, a burst of messages for one user
// produces a single export once the burst has been quiet for that long.
type ExportWorker struct {
	source   AccountsSource
	exporter export.Exporter
	debounce time.Duration
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *log.Logger
	now      func() time.Time

	mu         sync.Mutex
	pending    map[string]*time.Timer
	lastExport map[string]time.Time
	wg         sync.WaitGroup
}

func NewExportWorker(source AccountsSource, exporter export.Exporter, debounce time.Duration, m *metrics.Metrics, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportWorker{
		source:     source,
		exporter:   exporter,
		debounce:   debounce,
		timeout:    30 * time.Second,
		metrics:    m,
		logger:     logger.WithComponent(log.ComponentExport),
		now:        time.Now,
		pending:    make(map[string]*time.Timer),
		lastExport: make(map[string]time.Time),
	}
}

// HandleMessage schedules an export for the message's user when it carries
// the dashboard signal. Messages already covered by a later export are skipped.
func (w *ExportWorker) HandleMessage(ctx context.Context, msg *amqp.InvalidationMessage) error {
	if msg.UserID == "" || !msg.Touches(invalidation.Dashboard) {
		return nil
	}

	w.mu.Lock()
	last, seen := w.lastExport[msg.UserID]
	w.mu.Unlock()
	if seen && !msg.Timestamp.IsZero() && last.After(msg.Timestamp) {
		w.logger.DebugContext(ctx, "Snapshot already covers message",
			log.FieldUserID, msg.UserID, log.FieldEntity, msg.Entity)
		return nil
	}

	if w.debounce <= 0 {
		return w.Export(ctx, msg.UserID)
	}
	w.schedule(msg.UserID)
	return nil
}

func (w *ExportWorker) schedule(userID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[userID]; ok && t.Stop() {
		t.Reset(w.debounce)
		return
	}
	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.pending[userID] == t {
			delete(w.pending, userID)
		}
		w.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		if err := w.Export(ctx, userID); err != nil {
			w.logger.ErrorContext(ctx, "Debounced export failed", log.FieldUserID, userID, log.FieldError, err)
		}
	})
	w.pending[userID] = t
}

// Export builds and writes the snapshot for userID now.
func (w *ExportWorker) Export(ctx context.Context, userID string) error {
	started := w.now()
	vm, err := w.source.Accounts(ctx, userID, filter.Default())
	if err != nil {
		w.metrics.Export(w.exporter.Name(), metrics.OutcomeError)
		return fmt.Errorf("build accounts view: %w", err)
	}
	snap := export.Snapshot{UserID: userID, GeneratedAt: started.UTC(), Accounts: vm}
	if err := w.exporter.Export(ctx, snap); err != nil {
		w.metrics.Export(w.exporter.Name(), metrics.OutcomeError)
		return fmt.Errorf("export to %s: %w", w.exporter.Name(), err)
	}

	w.mu.Lock()
	if started.After(w.lastExport[userID]) {
		w.lastExport[userID] = started
	}
	w.mu.Unlock()

	w.metrics.Export(w.exporter.Name(), metrics.OutcomeSuccess)
	w.logger.InfoContext(ctx, "Exported accounts snapshot",
		log.FieldUserID, userID,
		"backend", w.exporter.Name(),
		"accounts", vm.TotalAccounts)
	return nil
}

// Wait blocks until every scheduled export has run.
func (w *ExportWorker) Wait() {
	w.wg.Wait()
}
