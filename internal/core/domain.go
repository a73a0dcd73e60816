package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

type (
	// TransactionType is a closed enumeration: every transaction is
	// either money coming in or money going out.
	TransactionType string

	// Date is a calendar date with no time component, normalized to
	// midnight UTC.
	Date struct {
		time.Time
	}

	// Transaction is a single recorded money movement. Immutable once
	// created; the ID is assigned at creation and never reused.
	Transaction struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Amount      decimal.Decimal `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Account     string          `json:"account"`
		Note        string          `json:"note,omitempty"`
		PaymentMode string          `json:"paymentMode,omitempty"`
	}

	// Account is a named money-holding entity. Names are unique under
	// case-insensitive comparison; only the description is mutable.
	Account struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
)

var (
	ErrInvalidAmount = errors.New("amount must not be negative")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyAccount  = errors.New("empty account name")
	ErrNotFound      = errors.New("not found")
)

// ParseTransactionType parses the wire representation of a type.
// Matching is case-insensitive; the canonical form is upper case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t.UTC()}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MonthRange returns the first and last day of a calendar month,
// both inclusive. Handles the month's actual day count including
// leap years.
func MonthRange(year, month int) (Date, Date, error) {
	if month < 1 || month > 12 {
		return Date{}, Date{}, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	first := NewDate(year, month, 1)
	last := Date{Time: first.AddDate(0, 1, -1)}
	return first, last, nil
}

// AmountString renders an amount keeping the value's own scale.
// decimal.String trims trailing zeros ("1000.00" becomes "1000"),
// which would change the recorded scale on every boundary.
func AmountString(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}

// MarshalJSON renders the amount with AmountString; the default
// decimal marshalling would drop trailing zeros.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type transaction Transaction
	return json.Marshal(struct {
		transaction
		Amount string `json:"amount"`
	}{transaction(t), AmountString(t.Amount)})
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, string(t.Type))
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(t.Account) == "" {
		return ErrEmptyAccount
	}
	return nil
}
