// Package worker appends published transaction events to a CSV audit log.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/export"
	"tally/internal/log"
	"tally/internal/store"
)

// AuditWorker handles transaction events by appending the full
// transaction row to an audit CSV file. Deleted events are recorded in
// the log only; the audit file is append-only.
type AuditWorker struct {
	mu     sync.Mutex
	store  store.TransactionStore
	path   string
	logger *log.Logger
}

func NewAuditWorker(txStore store.TransactionStore, path string, logger *log.Logger) *AuditWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &AuditWorker{
		store:  txStore,
		path:   path,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent processes a single transaction event. It satisfies the
// handler signature of the AMQP consumer.
func (w *AuditWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	switch event.Action {
	case amqp.ActionCreated:
		return w.recordCreated(ctx, event.TransactionID)
	case amqp.ActionDeleted:
		w.logger.InfoContext(ctx, "Transaction deleted",
			log.FieldTransactionID, event.TransactionID,
			log.FieldOperation, log.OpDelete)
		return nil
	default:
		return fmt.Errorf("unknown event action %q", event.Action)
	}
}

func (w *AuditWorker) recordCreated(ctx context.Context, id string) error {
	t, err := w.store.Get(ctx, id)
	if err != nil {
		// The transaction may have been deleted before the event was
		// consumed. Nothing to audit then.
		if errors.Is(err, core.ErrNotFound) {
			w.logger.WarnContext(ctx, "Transaction gone before audit",
				log.FieldTransactionID, id)
			return nil
		}
		return fmt.Errorf("load transaction %s: %w", id, err)
	}

	if err := w.appendRow(t); err != nil {
		return fmt.Errorf("append audit row: %w", err)
	}

	w.logger.InfoContext(ctx, "Audited transaction",
		log.FieldTransactionID, id,
		log.FieldCategory, t.Category,
		log.FieldAmount, core.AmountString(t.Amount))
	return nil
}

// appendRow writes one CSV row to the audit file, creating it with the
// standard header on first use.
func (w *AuditWorker) appendRow(t core.Transaction) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create audit directory: %w", err)
		}
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat audit file: %w", err)
	}

	var line string
	if info.Size() == 0 {
		line = export.Header + "\n" + export.Row(t) + "\n"
	} else {
		line = export.Row(t) + "\n"
	}

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write audit row: %w", err)
	}
	return f.Sync()
}
