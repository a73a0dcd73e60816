package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"tally/internal/core"
)

func sample() core.Transaction {
	return core.Transaction{
		ID:          "t1",
		Date:        core.NewDate(2024, 10, 1),
		Amount:      decimal.RequireFromString("1000.00"),
		Type:        core.Income,
		Category:    "Salary",
		Account:     "Checking",
		Note:        "October pay",
		PaymentMode: "Bank",
	}
}

func TestCSVHeaderAndShape(t *testing.T) {
	out := CSV([]core.Transaction{sample()})
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "id,date,amount,type,category,account,note,paymentMode" {
		t.Fatalf("header: %q", lines[0])
	}
	if lines[1] != "t1,2024-10-01,1000.00,INCOME,Salary,Checking,October pay,Bank" {
		t.Fatalf("row: %q", lines[1])
	}
	if strings.HasSuffix(out, "\n") {
		t.Fatalf("no trailing newline expected")
	}
}

func TestCSVEmptySet(t *testing.T) {
	if got := CSV(nil); got != Header {
		t.Fatalf("empty set should render header only: %q", got)
	}
}

func TestCSVAmountKeepsScale(t *testing.T) {
	tx := sample()
	tx.Amount = decimal.RequireFromString("0.1050")
	row := Row(tx)
	if !strings.Contains(row, ",0.1050,") {
		t.Fatalf("amount scale lost: %q", row)
	}
}

func TestCSVCommaFieldIsQuoted(t *testing.T) {
	tx := sample()
	tx.Note = "rent, October"
	row := Row(tx)
	if !strings.Contains(row, `"rent, October"`) {
		t.Fatalf("comma field not quoted: %q", row)
	}
}

func TestCSVQuoteIsDoubled(t *testing.T) {
	tx := sample()
	tx.Category = `say "hi"`
	row := Row(tx)
	if !strings.Contains(row, `say ""hi""`) {
		t.Fatalf("embedded quote not doubled: %q", row)
	}
}

func TestCSVRoundTripWithStdReader(t *testing.T) {
	tx := sample()
	tx.Note = `comma, and "quote"`
	tx.Account = "A, B"
	out := CSV([]core.Transaction{tx})

	r := csv.NewReader(strings.NewReader(out))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	row := records[1]
	if row[5] != "A, B" {
		t.Fatalf("account not recovered: %q", row[5])
	}
	if row[6] != `comma, and "quote"` {
		t.Fatalf("note not recovered: %q", row[6])
	}
}

func TestCSVAbsentFieldsRenderEmpty(t *testing.T) {
	tx := sample()
	tx.Note = ""
	tx.PaymentMode = ""
	row := Row(tx)
	if !strings.HasSuffix(row, "Checking,,") {
		t.Fatalf("empty optional fields: %q", row)
	}
}
