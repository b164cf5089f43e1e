// Package memory provides an in-process implementation of the repository
// interfaces, used by the CLI, by tests and by the server when no database is
// configured.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/repository"
)

type state struct {
	users        map[user.ID]user.User
	accounts     map[account.ID]account.Account
	transactions map[account.TransactionID]account.Transaction
}

func newState() *state {
	return &state{
		users:        make(map[user.ID]user.User),
		accounts:     make(map[account.ID]account.Account),
		transactions: make(map[account.TransactionID]account.Transaction),
	}
}

func (s *state) clone() *state {
	return &state{
		users:        maps.Clone(s.users),
		accounts:     maps.Clone(s.accounts),
		transactions: maps.Clone(s.transactions),
	}
}

// Store holds all records. Units of work run one at a time against a private
// copy of the data which replaces the shared copy only when the work succeeds.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

// UoW implements repository.UnitOfWork on top of a Store.
type UoW struct {
	store *Store
	tx    *state
}

// NewUoW creates a UnitOfWork backed by store.
func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn against a snapshot and commits it when fn returns nil.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snapshot := u.store.data.clone()
	if err := fn(&UoW{store: u.store, tx: snapshot}); err != nil {
		return err
	}
	u.store.data = snapshot
	return nil
}

// with runs fn against the transaction snapshot, or against the shared data
// under the store lock when called outside Do.
func (u *UoW) with(fn func(*state) error) error {
	if u.tx != nil {
		return fn(u.tx)
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(u.store.data)
}

func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepository{uow: u}, nil
}

func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepository{uow: u}, nil
}

func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return &userRepository{uow: u}, nil
}
