package core

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

type (
	// MonthlySummary holds the income/expense totals and their
	// difference for one calendar month. Totals are exact decimal
	// sums; a month with no transactions yields all zeros.
	MonthlySummary struct {
		TotalIncome  decimal.Decimal `json:"totalIncome"`
		TotalExpense decimal.Decimal `json:"totalExpense"`
		Balance      decimal.Decimal `json:"balance"`
	}

	// CategoryTotal is one row of a per-category aggregation.
	CategoryTotal struct {
		Category string          `json:"category"`
		Total    decimal.Decimal `json:"total"`
	}
)

// MarshalJSON renders the totals with AmountString so their exact
// scale survives the wire.
func (s MonthlySummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalIncome  string `json:"totalIncome"`
		TotalExpense string `json:"totalExpense"`
		Balance      string `json:"balance"`
	}{AmountString(s.TotalIncome), AmountString(s.TotalExpense), AmountString(s.Balance)})
}

func (c CategoryTotal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category string `json:"category"`
		Total    string `json:"total"`
	}{c.Category, AmountString(c.Total)})
}

// Summarize computes income/expense totals over an already-selected
// transaction set. Summands never mix types; the balance is the exact
// decimal difference.
func Summarize(txs []Transaction) MonthlySummary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case Income:
			income = income.Add(t.Amount)
		case Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return MonthlySummary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}
}

// SummarizeMonth selects the transactions of the given calendar month
// (first to last day inclusive) and summarizes them. Returns
// ErrInvalidMonth when month is outside 1-12.
func SummarizeMonth(txs []Transaction, year, month int) (MonthlySummary, error) {
	first, last, err := MonthRange(year, month)
	if err != nil {
		return MonthlySummary{}, err
	}
	return Summarize(Select(txs, Filter{Start: &first, End: &last})), nil
}

// SummarizeByCategory groups transactions by exact category string
// (case-sensitive, unlike the substring filter) and sums amounts per
// group. Results are ordered by total descending, ties by category
// name ascending. Categories with no transactions do not appear.
func SummarizeByCategory(txs []Transaction) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	out := make([]CategoryTotal, 0, len(totals))
	for cat, total := range totals {
		out = append(out, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
