// Package store defines the ports implemented by the persistence backends.
package store

import (
	"context"

	"tally/internal/core"
)

type (
	// TransactionStore holds transaction records keyed by id.
	TransactionStore interface {
		// Add persists a fully-populated transaction. The caller
		// assigns the id; Add never overwrites an existing record.
		// The referenced account is created when missing.
		Add(ctx context.Context, t core.Transaction) error

		// List returns transactions matching the filter, ordered by
		// date descending with insertion order preserved on ties.
		List(ctx context.Context, f core.Filter) ([]core.Transaction, error)

		// Get returns a single transaction or core.ErrNotFound.
		Get(ctx context.Context, id string) (core.Transaction, error)

		// Delete removes a transaction by id. Deleting a missing id
		// is a silent no-op.
		Delete(ctx context.Context, id string) error
	}

	// AccountRegistry maps account names to account records.
	AccountRegistry interface {
		// Resolve finds an account by case-insensitive name or
		// creates one with an empty description. Find-or-create is
		// atomic: concurrent calls for the same new name yield one
		// account.
		Resolve(ctx context.Context, name string) (core.Account, error)

		// Upsert creates the account or overwrites the description of
		// the case-insensitive existing one, preserving its identity.
		Upsert(ctx context.Context, name, description string) (core.Account, error)

		// Accounts returns all accounts in creation order.
		Accounts(ctx context.Context) ([]core.Account, error)
	}
)
