package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/store/memory"
)

func newWorker(t *testing.T) (*AuditWorker, *memory.Store, string) {
	t.Helper()
	st := memory.New()
	path := filepath.Join(t.TempDir(), "audit.csv")
	return NewAuditWorker(st, path, nil), st, path
}

func addTx(t *testing.T, st *memory.Store, id string) core.Transaction {
	t.Helper()
	tx := core.Transaction{
		ID:          id,
		Date:        core.NewDate(2024, 3, 10),
		Amount:      decimal.RequireFromString("42.50"),
		Type:        core.Expense,
		Category:    "Groceries",
		Account:     "Checking",
		PaymentMode: "card",
	}
	if err := st.Add(context.Background(), tx); err != nil {
		t.Fatalf("add transaction: %v", err)
	}
	return tx
}

func TestHandleCreatedEvent(t *testing.T) {
	w, st, path := newWorker(t)
	addTx(t, st, "tx-1")

	err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent("tx-1", amqp.ActionCreated))
	if err != nil {
		t.Fatalf("handle event: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit file: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one row", len(lines))
	}
	if lines[0] != "id,date,amount,type,category,account,note,paymentMode" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "tx-1,2024-03-10,42.50,EXPENSE,Groceries,Checking,,card" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestHeaderWrittenOnce(t *testing.T) {
	w, st, path := newWorker(t)
	addTx(t, st, "tx-1")
	addTx(t, st, "tx-2")

	for _, id := range []string{"tx-1", "tx-2"} {
		if err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent(id, amqp.ActionCreated)); err != nil {
			t.Fatalf("handle event %s: %v", id, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit file: %v", err)
	}
	if n := strings.Count(string(data), "id,date,amount"); n != 1 {
		t.Errorf("header written %d times, want 1", n)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("got %d lines, want 3", len(lines))
	}
}

func TestDeletedEventLogsOnly(t *testing.T) {
	w, _, path := newWorker(t)

	err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent("tx-1", amqp.ActionDeleted))
	if err != nil {
		t.Fatalf("handle event: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("deleted event should not create the audit file")
	}
}

func TestMissingTransactionIsSkipped(t *testing.T) {
	w, _, path := newWorker(t)

	err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent("unknown", amqp.ActionCreated))
	if err != nil {
		t.Fatalf("missing transaction should not fail the handler: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no audit row expected for missing transaction")
	}
}

func TestUnknownActionFails(t *testing.T) {
	w, _, _ := newWorker(t)

	event := &amqp.TransactionEvent{TransactionID: "tx-1", Action: "updated"}
	if err := w.HandleEvent(context.Background(), event); err == nil {
		t.Error("expected error for unknown action")
	}
}
