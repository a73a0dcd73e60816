// Package export renders transaction sets as CSV.
package export

import (
	"strings"

	"tally/internal/core"
)

// Header is the fixed CSV header row.
const Header = "id,date,amount,type,category,account,note,paymentMode"

// CSV renders the transactions as CSV text, one row per transaction
// in the given order. Rows are joined by a single newline with no
// trailing newline after the last row.
func CSV(txs []core.Transaction) string {
	var b strings.Builder
	b.WriteString(Header)
	for _, t := range txs {
		b.WriteByte('\n')
		b.WriteString(Row(t))
	}
	return b.String()
}

// Row renders a single transaction. Amounts keep their exact decimal
// text (no scientific notation, no trailing-zero truncation); dates
// are ISO-8601.
func Row(t core.Transaction) string {
	fields := []string{
		escape(t.ID),
		t.Date.String(),
		core.AmountString(t.Amount),
		string(t.Type),
		escape(t.Category),
		escape(t.Account),
		escape(t.Note),
		escape(t.PaymentMode),
	}
	return strings.Join(fields, ",")
}

// escape doubles embedded quotes first, then wraps the field in
// quotes only when it contains a comma.
func escape(s string) string {
	s = strings.ReplaceAll(s, `"`, `""`)
	if strings.Contains(s, ",") {
		return `"` + s + `"`
	}
	return s
}
