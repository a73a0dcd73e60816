package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummarizeMonthScenario(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2024, 10, 1), Income, "1000.00", "Salary", "Checking"),
		tx(NewDate(2024, 10, 2), Expense, "200.00", "Food", "Checking"),
		tx(NewDate(2024, 11, 5), Expense, "999.99", "Rent", "Checking"), // outside the month
	}
	sum, err := SummarizeMonth(txs, 2024, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if AmountString(sum.TotalIncome) != "1000.00" {
		t.Fatalf("income: %s", sum.TotalIncome)
	}
	if AmountString(sum.TotalExpense) != "200.00" {
		t.Fatalf("expense: %s", sum.TotalExpense)
	}
	if AmountString(sum.Balance) != "800.00" {
		t.Fatalf("balance: %s", sum.Balance)
	}
}

func TestSummarizeMonthEmptyIsZeroFilled(t *testing.T) {
	sum, err := SummarizeMonth(nil, 2024, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for name, v := range map[string]decimal.Decimal{
		"income": sum.TotalIncome, "expense": sum.TotalExpense, "balance": sum.Balance,
	} {
		if !v.IsZero() {
			t.Fatalf("%s not zero: %s", name, v)
		}
	}
}

func TestSummarizeMonthInvalidMonth(t *testing.T) {
	for _, month := range []int{0, 13} {
		if _, err := SummarizeMonth(nil, 2024, month); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("month %d: expected ErrInvalidMonth, got %v", month, err)
		}
	}
}

func TestSummarizeExactDecimalAddition(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3, not 0.30000000000000004.
	txs := []Transaction{
		tx(NewDate(2024, 10, 1), Income, "0.1", "a", "x"),
		tx(NewDate(2024, 10, 2), Income, "0.2", "a", "x"),
	}
	sum := Summarize(txs)
	if !sum.TotalIncome.Equal(decimal.RequireFromString("0.3")) {
		t.Fatalf("expected exactly 0.3, got %s", sum.TotalIncome)
	}
}

func TestSummarizeByCategoryOrdering(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2024, 10, 1), Expense, "50", "Food", "x"),
		tx(NewDate(2024, 10, 2), Expense, "30", "Food", "x"),
		tx(NewDate(2024, 10, 3), Expense, "500", "Rent", "x"),
	}
	got := SummarizeByCategory(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].Category != "Rent" || got[0].Total.String() != "500" {
		t.Fatalf("first: %+v", got[0])
	}
	if got[1].Category != "Food" || got[1].Total.String() != "80" {
		t.Fatalf("second: %+v", got[1])
	}
}

func TestSummarizeByCategoryTieBreak(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2024, 10, 1), Expense, "10", "Zoo", "x"),
		tx(NewDate(2024, 10, 2), Expense, "10", "Apple", "x"),
	}
	got := SummarizeByCategory(txs)
	if got[0].Category != "Apple" || got[1].Category != "Zoo" {
		t.Fatalf("ties should order by name ascending: %+v", got)
	}
}

func TestSummarizeByCategoryIsCaseSensitive(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2024, 10, 1), Expense, "10", "food", "x"),
		tx(NewDate(2024, 10, 2), Expense, "20", "Food", "x"),
	}
	if got := SummarizeByCategory(txs); len(got) != 2 {
		t.Fatalf("grouping must be case-sensitive, got %+v", got)
	}
}

func TestSummarizeByCategoryEmpty(t *testing.T) {
	if got := SummarizeByCategory(nil); len(got) != 0 {
		t.Fatalf("expected no rows, got %+v", got)
	}
}

func TestSummaryJSONKeepsScale(t *testing.T) {
	txs := []Transaction{
		tx(NewDate(2024, 10, 1), Income, "1000.00", "Salary", "x"),
		tx(NewDate(2024, 10, 2), Expense, "200.00", "Food", "x"),
	}

	got, err := json.Marshal(Summarize(txs))
	if err != nil {
		t.Fatalf("marshal summary: %v", err)
	}
	want := `{"totalIncome":"1000.00","totalExpense":"200.00","balance":"800.00"}`
	if string(got) != want {
		t.Fatalf("summary json = %s, want %s", got, want)
	}

	row, err := json.Marshal(CategoryTotal{Category: "Food", Total: decimal.RequireFromString("200.00")})
	if err != nil {
		t.Fatalf("marshal category total: %v", err)
	}
	if want := `{"category":"Food","total":"200.00"}`; string(row) != want {
		t.Fatalf("category json = %s, want %s", row, want)
	}
}
