// Package memory is the in-memory persistence backend. All state is
// owned by the Store value and guarded by a single mutex; nothing is
// process-global.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tally/internal/core"
)

type Store struct {
	mu       sync.Mutex
	txs      []core.Transaction // insertion order
	txIndex  map[string]int
	accounts []core.Account // creation order
	accIndex map[string]int // lower-cased name -> slice index
}

func New() *Store {
	return &Store{
		txIndex:  make(map[string]int),
		accIndex: make(map[string]int),
	}
}

func (s *Store) Add(_ context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txIndex[t.ID]; ok {
		return nil
	}
	// Every transaction references an existing account.
	s.findOrCreateLocked(strings.TrimSpace(t.Account), "", false)
	s.txIndex[t.ID] = len(s.txs)
	s.txs = append(s.txs, t)
	return nil
}

// List selects over a point-in-time snapshot; transactions are
// immutable so concurrent writes race benignly.
func (s *Store) List(_ context.Context, f core.Filter) ([]core.Transaction, error) {
	s.mu.Lock()
	snapshot := append([]core.Transaction(nil), s.txs...)
	s.mu.Unlock()
	return core.Select(snapshot, f), nil
}

func (s *Store) Get(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.txIndex[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return s.txs[i], nil
}

// Delete removes a transaction by id; missing ids are a no-op.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.txIndex[id]
	if !ok {
		return nil
	}
	s.txs = append(s.txs[:i], s.txs[i+1:]...)
	delete(s.txIndex, id)
	for j := i; j < len(s.txs); j++ {
		s.txIndex[s.txs[j].ID] = j
	}
	return nil
}

func (s *Store) Resolve(_ context.Context, name string) (core.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Account{}, core.ErrEmptyAccount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findOrCreateLocked(name, "", false), nil
}

func (s *Store) Upsert(_ context.Context, name, description string) (core.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Account{}, core.ErrEmptyAccount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findOrCreateLocked(name, description, true), nil
}

func (s *Store) Accounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Account(nil), s.accounts...), nil
}

// findOrCreateLocked resolves the account under the store lock so
// find-or-create is atomic. When overwrite is set, the description of
// an existing account is replaced; its id and name are kept.
func (s *Store) findOrCreateLocked(name, description string, overwrite bool) core.Account {
	key := strings.ToLower(name)
	if i, ok := s.accIndex[key]; ok {
		if overwrite {
			s.accounts[i].Description = description
		}
		return s.accounts[i]
	}
	acc := core.Account{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	s.accIndex[key] = len(s.accounts)
	s.accounts = append(s.accounts, acc)
	return acc
}
