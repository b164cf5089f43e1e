package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/money"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func newAccount(t *testing.T) *account.Account {
	t.Helper()
	acc, err := account.Create(user.NewID(), "Savings", account.TypeSavings)
	require.NoError(t, err)
	return acc
}

var accountColumns = []string{
	"id", "user_id", "name", "balance", "number", "sort_code",
	"type", "currency", "created_at", "updated_at", "version",
}

func TestAccountRepository_SaveInsert(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	acc := newAccount(t)

	mock.ExpectExec(`INSERT INTO "accounts" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	saved, err := repo.Save(context.Background(), acc)
	require.NoError(err)
	assert.Equal(t, int64(1), saved.Version)
	assert.Equal(t, acc.ID, saved.ID)
	require.NoError(mock.ExpectationsWereMet())
}

func TestAccountRepository_SaveInsertDuplicateNumber(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(`INSERT INTO "accounts"`).WillReturnError(gorm.ErrDuplicatedKey)

	_, err := repo.Save(context.Background(), newAccount(t))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAccountRepository_SaveUpdate(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	acc := newAccount(t)
	acc.Version = 3
	acc = acc.WithBalance(money.MustBalance("50.00"))

	mock.ExpectExec(`UPDATE "accounts" SET (.+) WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	saved, err := repo.Save(context.Background(), acc)
	require.NoError(err)
	assert.Equal(t, int64(4), saved.Version)
	assert.Equal(t, "50.00", saved.Balance.String())

	mock.ExpectExec(`UPDATE "accounts" SET (.+) WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = repo.Save(context.Background(), acc)
	require.ErrorIs(err, repository.ErrStaleAccount)
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(mock.ExpectationsWereMet())
}

func TestAccountRepository_Get(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	id := account.NewID()
	owner := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(accountColumns).
		AddRow(id.UUID(), owner, "Main", "30.00", "12345678", "123456", "CHECKING", "GBP", now, now, 2)
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 ORDER BY "accounts"\."id" LIMIT \$2`).
		WillReturnRows(rows)

	acc, err := repo.Get(context.Background(), id)
	require.NoError(err)
	assert.Equal(t, id, acc.ID)
	assert.Equal(t, owner, acc.OwnerID.UUID())
	assert.Equal(t, "30.00", acc.Balance.String())
	assert.Equal(t, int64(2), acc.Version)

	mock.ExpectQuery(`SELECT \* FROM "accounts"`).WillReturnError(gorm.ErrRecordNotFound)
	acc, err = repo.Get(context.Background(), account.NewID())
	require.ErrorIs(err, domain.ErrNotFound)
	assert.Nil(t, acc)
}

func TestAccountRepository_ListByOwner(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	owner := user.NewID()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(accountColumns).
		AddRow(uuid.New(), owner.UUID(), "A", "0.00", "00000001", "123456", "CHECKING", "GBP", now, now, 1).
		AddRow(uuid.New(), owner.UUID(), "B", "10.50", "00000002", "123456", "SAVINGS", "GBP", now, now, 4)
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE user_id = \$1 ORDER BY created_at,id`).
		WillReturnRows(rows)

	list, err := repo.ListByOwner(context.Background(), owner)
	require.NoError(err)
	require.Len(list, 2)
	assert.Equal(t, account.TypeSavings, list[1].Type)
}

func TestAccountRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(`DELETE FROM "accounts" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), account.NewID()))

	mock.ExpectExec(`DELETE FROM "accounts" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), account.NewID()), domain.ErrNotFound)
}

func TestAccountRepository_ExistsByNumber(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts" WHERE number = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	exists, err := repo.ExistsByNumber(context.Background(), "12345678")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	exists, err = repo.ExistsByNumber(context.Background(), "87654321")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTransactionRepository_SaveAndGet(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)
	accID := account.NewID()
	txn, err := account.NewTransaction(accID, account.TransactionDeposit, money.MustAmount("50.00"), "GBP")
	require.NoError(err)

	mock.ExpectExec(`INSERT INTO "transactions" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(repo.Save(context.Background(), txn))

	mock.ExpectExec(`INSERT INTO "transactions"`).WillReturnError(errors.New("create error"))
	require.Error(repo.Save(context.Background(), txn))

	rows := sqlmock.NewRows([]string{"id", "account_id", "type", "amount", "currency", "posted_at"}).
		AddRow(txn.ID.UUID(), accID.UUID(), "DEPOSIT", "50.00", "GBP", txn.Timestamp)
	mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE id = \$1`).WillReturnRows(rows)

	got, err := repo.Get(context.Background(), txn.ID)
	require.NoError(err)
	assert.Equal(t, txn.ID, got.ID)
	assert.True(t, got.Amount.Equal(txn.Amount))

	mock.ExpectQuery(`SELECT \* FROM "transactions"`).WillReturnError(gorm.ErrRecordNotFound)
	_, err = repo.Get(context.Background(), account.NewTransactionID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionRepository_ListByAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)
	accID := account.NewID()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "account_id", "type", "amount", "currency", "posted_at"}).
		AddRow(uuid.New(), accID.UUID(), "DEPOSIT", "50", "GBP", now).
		AddRow(uuid.New(), accID.UUID(), "WITHDRAWAL", "20", "GBP", now.Add(time.Second))
	mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE account_id = \$1 ORDER BY posted_at,id`).
		WillReturnRows(rows)

	list, err := repo.ListByAccount(context.Background(), accID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, account.TransactionWithdrawal, list[1].Type)
}

func TestUserRepository(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	dob, err := user.NewDateOfBirth(time.Date(1985, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(err)
	u, err := user.Create("Ada", "Lovelace", dob, "ada@example.com", "$2a$10$hash")
	require.NoError(err)

	mock.ExpectExec(`INSERT INTO "users" (.+) VALUES (.+) ON CONFLICT \("id"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(repo.Save(context.Background(), u))

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, repo.Save(context.Background(), u), domain.ErrConflict)

	cols := []string{"id", "first_name", "last_name", "date_of_birth", "email", "password_hash", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(u.ID.UUID(), "Ada", "Lovelace", dob.Time(), "ada@example.com", "$2a$10$hash", u.CreatedAt, u.UpdatedAt))
	got, err := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(err)
	assert.Equal(t, u.ID, got.ID)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).WillReturnError(gorm.ErrRecordNotFound)
	_, err = repo.Get(context.Background(), user.NewID())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), u.ID))
	require.NoError(mock.ExpectationsWereMet())
}

func TestUoW_DoCommitsAndRollsBack(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	uow := NewUoW(db)
	acc := newAccount(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "accounts"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(txUow repository.UnitOfWork) error {
		repo, err := txUow.AccountRepository()
		require.NoError(err)
		_, err = repo.Save(context.Background(), acc)
		return err
	})
	require.NoError(err)

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()
	err = uow.Do(context.Background(), func(repository.UnitOfWork) error { return boom })
	require.ErrorIs(err, boom)
	require.NoError(mock.ExpectationsWereMet())
}

func TestUoW_TypeSafeMethods(t *testing.T) {
	db, _ := newMockDB(t)
	uow := NewUoW(db)

	accountRepo, err := uow.AccountRepository()
	require.NoError(t, err)
	assert.IsType(t, &accountRepository{}, accountRepo)

	transactionRepo, err := uow.TransactionRepository()
	require.NoError(t, err)
	assert.IsType(t, &transactionRepository{}, transactionRepo)

	userRepo, err := uow.UserRepository()
	require.NoError(t, err)
	assert.IsType(t, &userRepository{}, userRepo)
}

func TestMapGormErrorToDomain(t *testing.T) {
	t.Parallel()

	assert.NoError(t, MapGormErrorToDomain(nil))
	assert.ErrorIs(t, MapGormErrorToDomain(gorm.ErrDuplicatedKey), domain.ErrConflict)
	assert.ErrorIs(t, MapGormErrorToDomain(gorm.ErrRecordNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, MapGormErrorToDomain(errors.Join(errors.New("outer"), gorm.ErrRecordNotFound)), domain.ErrNotFound)

	overflow := fmt.Errorf("save account: %w", &pgconn.PgError{Code: pgerrcode.NumericValueOutOfRange})
	assert.ErrorIs(t, MapGormErrorToDomain(overflow), domain.ErrInvalidInput)

	other := errors.New("some other error")
	assert.Equal(t, other, MapGormErrorToDomain(other))
}
