// Package services orchestrates the domain operations over a
// persistence backend and an optional event publisher.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/export"
	"tally/internal/store"
)

// EventPublisher publishes transaction events for downstream
// consumers. A nil publisher disables eventing.
type EventPublisher interface {
	Publish(ctx context.Context, event *amqp.TransactionEvent) error
}

// TransactionService exposes the boundary operations of the tracker.
type TransactionService struct {
	store    store.TransactionStore
	accounts store.AccountRegistry
	events   EventPublisher
}

func NewTransactionService(txStore store.TransactionStore, accounts store.AccountRegistry, events EventPublisher) *TransactionService {
	return &TransactionService{
		store:    txStore,
		accounts: accounts,
		events:   events,
	}
}

// CreateTransactionInput carries the caller-supplied fields of a new
// transaction; the id is assigned here.
type CreateTransactionInput struct {
	Date        core.Date
	Amount      decimal.Decimal
	Type        core.TransactionType
	Category    string
	Account     string
	Note        string
	PaymentMode string
}

// Create validates the input, persists the transaction and publishes
// a created event. Validation failures leave no partial writes.
func (s *TransactionService) Create(ctx context.Context, in CreateTransactionInput) (core.Transaction, error) {
	t := core.Transaction{
		ID:          uuid.NewString(),
		Date:        in.Date,
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    in.Category,
		Account:     in.Account,
		Note:        in.Note,
		PaymentMode: in.PaymentMode,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.Add(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.publish(ctx, t.ID, amqp.ActionCreated)
	return t, nil
}

// Find returns transactions matching the filter, most recent first.
func (s *TransactionService) Find(ctx context.Context, f core.Filter) ([]core.Transaction, error) {
	return s.store.List(ctx, f)
}

// Delete removes a transaction by id. Missing ids are a silent no-op.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publish(ctx, id, amqp.ActionDeleted)
	return nil
}

// SummarizeMonth computes the income/expense/balance totals for one
// calendar month.
func (s *TransactionService) SummarizeMonth(ctx context.Context, year, month int) (core.MonthlySummary, error) {
	first, last, err := core.MonthRange(year, month)
	if err != nil {
		return core.MonthlySummary{}, err
	}
	txs, err := s.store.List(ctx, core.Filter{Start: &first, End: &last})
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("list month transactions: %w", err)
	}
	return core.Summarize(txs), nil
}

// SummarizeByCategory aggregates per-category totals over an optional
// date range. Only date predicates apply here.
func (s *TransactionService) SummarizeByCategory(ctx context.Context, start, end *core.Date) ([]core.CategoryTotal, error) {
	txs, err := s.store.List(ctx, core.Filter{Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.SummarizeByCategory(txs), nil
}

// ExportCSV renders the filtered transaction set as CSV text.
func (s *TransactionService) ExportCSV(ctx context.Context, f core.Filter) (string, error) {
	txs, err := s.store.List(ctx, f)
	if err != nil {
		return "", fmt.Errorf("list transactions: %w", err)
	}
	return export.CSV(txs), nil
}

// Accounts returns all known accounts.
func (s *TransactionService) Accounts(ctx context.Context) ([]core.Account, error) {
	return s.accounts.Accounts(ctx)
}

// SaveAccount creates an account or overwrites the description of the
// case-insensitive existing one.
func (s *TransactionService) SaveAccount(ctx context.Context, name, description string) (core.Account, error) {
	return s.accounts.Upsert(ctx, name, description)
}

// publish emits a transaction event. Eventing is best-effort: the
// write already succeeded, so a publish failure is logged, not
// returned.
func (s *TransactionService) publish(ctx context.Context, id, action string) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, amqp.NewTransactionEvent(id, action)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", id,
			"action", action,
			"error", err)
	}
}
