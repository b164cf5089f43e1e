package memory

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/money"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(t *testing.T, owner user.ID) *account.Account {
	t.Helper()
	acc, err := account.Create(owner, "Main", account.TypeChecking)
	require.NoError(t, err)
	return acc
}

func TestAccountRepository_Versioning(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	ctx := context.Background()
	uow := NewUoW(NewStore())
	repo, err := uow.AccountRepository()
	require.NoError(err)

	acc := newAccount(t, user.NewID())
	saved, err := repo.Save(ctx, acc)
	require.NoError(err)
	assert.Equal(t, int64(1), saved.Version)

	_, err = repo.Save(ctx, acc)
	assert.ErrorIs(t, err, domain.ErrConflict, "inserting twice")

	updated, err := repo.Save(ctx, saved.WithBalance(money.MustBalance("5.00")))
	require.NoError(err)
	assert.Equal(t, int64(2), updated.Version)

	_, err = repo.Save(ctx, saved.WithBalance(money.MustBalance("9.00")))
	assert.ErrorIs(t, err, repository.ErrStaleAccount)

	got, err := repo.Get(ctx, acc.ID)
	require.NoError(err)
	assert.Equal(t, "5.00", got.Balance.String())
}

func TestAccountRepository_ListExistsDelete(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	ctx := context.Background()
	uow := NewUoW(NewStore())
	repo, _ := uow.AccountRepository()
	owner := user.NewID()

	first := newAccount(t, owner)
	_, err := repo.Save(ctx, first)
	require.NoError(err)
	second, err := account.New().
		WithOwnerID(owner).
		WithName("Second").
		WithType(account.TypeSavings).
		WithCreatedAt(first.CreatedAt.Add(time.Second)).
		Build()
	require.NoError(err)
	_, err = repo.Save(ctx, second)
	require.NoError(err)
	_, err = repo.Save(ctx, newAccount(t, user.NewID()))
	require.NoError(err)

	list, err := repo.ListByOwner(ctx, owner)
	require.NoError(err)
	require.Len(list, 2)
	assert.Equal(t, first.ID, list[0].ID)

	exists, err := repo.ExistsByNumber(ctx, first.Number)
	require.NoError(err)
	assert.True(t, exists)

	require.NoError(repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), domain.ErrNotFound)
	_, err = repo.Get(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUoW_RollbackDiscardsWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow := NewUoW(NewStore())
	acc := newAccount(t, user.NewID())
	boom := errors.New("boom")

	err := uow.Do(ctx, func(tx repository.UnitOfWork) error {
		accounts, _ := tx.AccountRepository()
		if _, err := accounts.Save(ctx, acc); err != nil {
			return err
		}
		txns, _ := tx.TransactionRepository()
		txn, err := account.NewTransaction(acc.ID, account.TransactionDeposit, money.MustAmount("1"), acc.Currency)
		if err != nil {
			return err
		}
		if err := txns.Save(ctx, txn); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	accounts, _ := uow.AccountRepository()
	_, err = accounts.Get(ctx, acc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	txns, _ := uow.TransactionRepository()
	list, err := txns.ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUoW_CommitPersistsWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow := NewUoW(NewStore())
	acc := newAccount(t, user.NewID())

	err := uow.Do(ctx, func(tx repository.UnitOfWork) error {
		accounts, _ := tx.AccountRepository()
		_, err := accounts.Save(ctx, acc)
		return err
	})
	require.NoError(t, err)

	accounts, _ := uow.AccountRepository()
	got, err := accounts.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, acc.Name, got.Name)
}

func TestUoW_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := NewUoW(NewStore()).Do(ctx, func(repository.UnitOfWork) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTransactionRepository(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	ctx := context.Background()
	repo, _ := NewUoW(NewStore()).TransactionRepository()
	accID := account.NewID()

	txn, err := account.NewTransaction(accID, account.TransactionDeposit, money.MustAmount("10"), "GBP")
	require.NoError(err)
	require.NoError(repo.Save(ctx, txn))
	assert.ErrorIs(t, repo.Save(ctx, txn), domain.ErrConflict)

	got, err := repo.Get(ctx, txn.ID)
	require.NoError(err)
	assert.Equal(t, txn.ID, got.ID)

	_, err = repo.Get(ctx, account.NewTransactionID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	ctx := context.Background()
	repo, _ := NewUoW(NewStore()).UserRepository()

	dob, err := user.NewDateOfBirth(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(err)
	u, err := user.Create("Ada", "Lovelace", dob, "ada@example.com", "hash")
	require.NoError(err)
	require.NoError(repo.Save(ctx, u))

	other, err := user.Create("Grace", "Hopper", dob, "ada@example.com", "hash")
	require.NoError(err)
	assert.ErrorIs(t, repo.Save(ctx, other), domain.ErrConflict)

	got, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(repo.Save(ctx, u.WithFirstName("Augusta")))
	got, err = repo.Get(ctx, u.ID)
	require.NoError(err)
	assert.Equal(t, user.FirstName("Augusta"), got.FirstName)

	require.NoError(repo.Delete(ctx, u.ID))
	_, err = repo.GetByEmail(ctx, "ada@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountRepository_DeleteKeepsTransactions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow := NewUoW(NewStore())
	accounts, _ := uow.AccountRepository()
	txns, _ := uow.TransactionRepository()

	acc := newAccount(t, user.NewID())
	_, err := accounts.Save(ctx, acc)
	require.NoError(t, err)
	txn, err := account.NewTransaction(acc.ID, account.TransactionDeposit, money.MustAmount("3"), acc.Currency)
	require.NoError(t, err)
	require.NoError(t, txns.Save(ctx, txn))

	require.NoError(t, accounts.Delete(ctx, acc.ID))
	kept, err := txns.Get(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, kept.AccountID)
	listed, err := txns.ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestTransactionRepository_EqualTimestampsOrderByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow := NewUoW(NewStore())
	txns, _ := uow.TransactionRepository()

	acc := newAccount(t, user.NewID())
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for range 8 {
		txn, err := account.NewTransaction(acc.ID, account.TransactionDeposit, money.MustAmount("1"), acc.Currency)
		require.NoError(t, err)
		txn.Timestamp = at
		require.NoError(t, txns.Save(ctx, txn))
		ids = append(ids, txn.ID.String())
	}
	sort.Strings(ids)

	for range 3 {
		listed, err := txns.ListByAccount(ctx, acc.ID)
		require.NoError(t, err)
		got := make([]string, 0, len(listed))
		for _, txn := range listed {
			got = append(got, txn.ID.String())
		}
		assert.Equal(t, ids, got)
	}
}
