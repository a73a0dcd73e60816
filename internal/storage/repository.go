// Package storage is the SQLite persistence backend.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"tally/internal/core"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Add(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	acc, err := r.Resolve(ctx, t.Account)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, date, amount, type, category, account_id, note, payment_mode)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date.String(), core.AmountString(t.Amount), string(t.Type), t.Category, acc.ID, t.Note, t.PaymentMode)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"type", string(t.Type),
		"amount", core.AmountString(t.Amount),
		"category", t.Category)
	return nil
}

const selectColumns = `t.id, t.date, t.amount, t.type, t.category, a.name, t.note, t.payment_mode`

// List translates the typed filter into WHERE clauses. Dates are
// stored as ISO-8601 text so lexicographic comparison matches
// chronological comparison; rowid preserves insertion order on equal
// dates.
func (r *Repository) List(ctx context.Context, f core.Filter) ([]core.Transaction, error) {
	query := `SELECT ` + selectColumns + `
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id`

	var conds []string
	var args []any
	if f.Start != nil {
		conds = append(conds, "t.date >= ?")
		args = append(args, f.Start.String())
	}
	if f.End != nil {
		conds = append(conds, "t.date <= ?")
		args = append(args, f.End.String())
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		conds = append(conds, "instr(lower(t.category), lower(?)) > 0")
		args = append(args, c)
	}
	if a := strings.TrimSpace(f.Account); a != "" {
		conds = append(conds, "instr(lower(a.name), lower(?)) > 0")
		args = append(args, a)
	}
	if f.Type != "" {
		conds = append(conds, "t.type = ?")
		args = append(args, string(f.Type))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.date DESC, t.rowid ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+`
		 FROM transactions t
		 JOIN accounts a ON a.id = t.account_id
		 WHERE t.id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, err
}

// Delete removes the transaction if present. A missing id is a
// silent no-op, matching the interface contract.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// Resolve finds or creates the account. The accounts.name column is
// COLLATE NOCASE UNIQUE, so insert-or-ignore plus a lookup is atomic
// under concurrent callers.
func (r *Repository) Resolve(ctx context.Context, name string) (core.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Account{}, core.ErrEmptyAccount
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, description) VALUES (?, ?, '')
		 ON CONFLICT(name) DO NOTHING`,
		uuid.NewString(), name)
	if err != nil {
		return core.Account{}, fmt.Errorf("resolve account: %w", err)
	}
	return r.accountByName(ctx, name)
}

func (r *Repository) Upsert(ctx context.Context, name, description string) (core.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Account{}, core.ErrEmptyAccount
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, description) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET description = excluded.description`,
		uuid.NewString(), name, description)
	if err != nil {
		return core.Account{}, fmt.Errorf("upsert account: %w", err)
	}
	return r.accountByName(ctx, name)
}

func (r *Repository) Accounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description FROM accounts ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Description); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return out, nil
}

func (r *Repository) accountByName(ctx context.Context, name string) (core.Account, error) {
	var a core.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM accounts WHERE name = ?`, name).
		Scan(&a.ID, &a.Name, &a.Description)
	if err != nil {
		return core.Account{}, fmt.Errorf("select account %q: %w", name, err)
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t            core.Transaction
		date, amount string
		typ          string
	)
	if err := row.Scan(&t.ID, &date, &amount, &typ, &t.Category, &t.Account, &t.Note, &t.PaymentMode); err != nil {
		return core.Transaction{}, err
	}

	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	t.Date = d

	// Amounts are stored as decimal text to keep the exact scale.
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored amount %q: %w", amount, err)
	}
	t.Type = core.TransactionType(typ)
	return t, nil
}
