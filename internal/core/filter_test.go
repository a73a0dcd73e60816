package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func tx(date Date, typ TransactionType, amount, category, account string) Transaction {
	return Transaction{
		Date:     date,
		Amount:   decimal.RequireFromString(amount),
		Type:     typ,
		Category: category,
		Account:  account,
	}
}

func TestSelectBlankFilterMatchesAll(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2024, 10, 1), Income, "1", "Salary", "Checking"),
		tx(NewDate(2024, 10, 2), Expense, "2", "Food", "Cash"),
	}
	got := Select(txs, Filter{})
	if len(got) != 2 {
		t.Fatalf("expected all, got %d", len(got))
	}
}

func TestSelectCaseInsensitiveSubstring(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2024, 10, 1), Expense, "1", "Food Foo Bar", "Main Checking"),
		tx(NewDate(2024, 10, 2), Expense, "2", "Rent", "Savings"),
	}
	got := Select(txs, Filter{Category: "foo"})
	if len(got) != 1 || got[0].Category != "Food Foo Bar" {
		t.Fatalf("category substring: %+v", got)
	}
	got = Select(txs, Filter{Account: "CHECK"})
	if len(got) != 1 || got[0].Account != "Main Checking" {
		t.Fatalf("account substring: %+v", got)
	}
	// Blank-ish filter (only whitespace) is a no-op.
	if got := Select(txs, Filter{Category: "   "}); len(got) != 2 {
		t.Fatalf("whitespace filter should match all, got %d", len(got))
	}
}

func TestSelectDateBoundsInclusive(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2024, 10, 1), Expense, "1", "a", "x"),
		tx(NewDate(2024, 10, 15), Expense, "2", "b", "x"),
		tx(NewDate(2024, 10, 31), Expense, "3", "c", "x"),
	}
	start := NewDate(2024, 10, 1)
	end := NewDate(2024, 10, 31)
	if got := Select(txs, Filter{Start: &start, End: &end}); len(got) != 3 {
		t.Fatalf("inclusive bounds: got %d", len(got))
	}
	start = NewDate(2024, 10, 2)
	if got := Select(txs, Filter{Start: &start}); len(got) != 2 {
		t.Fatalf("start bound: got %d", len(got))
	}
	end = NewDate(2024, 10, 14)
	if got := Select(txs, Filter{End: &end}); len(got) != 1 {
		t.Fatalf("end bound: got %d", len(got))
	}
}

func TestSelectEndBeforeStartIsEmpty(t *testing.T) {
	txs := []Transaction{tx(NewDate(2024, 10, 15), Expense, "1", "a", "x")}
	start := NewDate(2024, 11, 1)
	end := NewDate(2024, 10, 1)
	if got := Select(txs, Filter{Start: &start, End: &end}); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestSelectTypeExactMatch(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2024, 10, 1), Income, "1", "a", "x"),
		tx(NewDate(2024, 10, 2), Expense, "2", "b", "x"),
	}
	got := Select(txs, Filter{Type: Income})
	if len(got) != 1 || got[0].Type != Income {
		t.Fatalf("type filter: %+v", got)
	}
}

func TestSelectOrdering(t *testing.T) {
	// Insertion order: a (10-01), b (10-03), c (10-03), d (10-02).
	txs := []Transaction{
		tx(NewDate(2024, 10, 1), Expense, "1", "a", "x"),
		tx(NewDate(2024, 10, 3), Expense, "2", "b", "x"),
		tx(NewDate(2024, 10, 3), Expense, "3", "c", "x"),
		tx(NewDate(2024, 10, 2), Expense, "4", "d", "x"),
	}
	got := Select(txs, Filter{})
	want := []string{"b", "c", "d", "a"} // date desc, same-date keeps insertion order
	for i, cat := range want {
		if got[i].Category != cat {
			t.Fatalf("position %d: want %q, got %q", i, cat, got[i].Category)
		}
	}
}

func TestSelectCombinesWithAnd(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2024, 10, 1), Expense, "1", "Food", "Checking"),
		tx(NewDate(2024, 10, 2), Income, "2", "Food", "Checking"),
		tx(NewDate(2024, 10, 3), Expense, "3", "Rent", "Checking"),
	}
	got := Select(txs, Filter{Category: "food", Type: Expense})
	if len(got) != 1 || got[0].Category != "Food" || got[0].Type != Expense {
		t.Fatalf("AND combination: %+v", got)
	}
}
