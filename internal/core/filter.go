package core

import (
	"sort"
	"strings"
)

// Filter is the typed query accepted by listing, export and
// category-summary operations. Zero values mean "no constraint";
// supplied predicates combine with logical AND.
type Filter struct {
	Start    *Date
	End      *Date
	Category string          // case-insensitive substring match
	Account  string          // case-insensitive substring match
	Type     TransactionType // exact match; empty matches both types
}

// Matches reports whether a single transaction satisfies the filter.
// Date bounds are inclusive on both sides; blank category/account
// filters are no-ops. An end-before-start range simply matches
// nothing.
func (f Filter) Matches(t Transaction) bool {
	if f.Start != nil && t.Date.Before(f.Start.Time) {
		return false
	}
	if f.End != nil && t.Date.After(f.End.Time) {
		return false
	}
	if !containsFold(t.Category, f.Category) {
		return false
	}
	if !containsFold(t.Account, f.Account) {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	return true
}

// Select returns the transactions matching the filter, ordered by
// date descending. The sort is stable, so transactions on the same
// date keep their insertion order. The input slice is not modified.
func Select(txs []Transaction, f Filter) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

func containsFold(s, substr string) bool {
	substr = strings.TrimSpace(substr)
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
