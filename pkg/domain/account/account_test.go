package account_test

import (
	"io"
	"log"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/amirasaad/eaglebank/pkg/currency"
	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/money"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	exitVal := m.Run()
	os.Exit(exitVal)
}

func mustName(t *testing.T, s string) account.Name {
	t.Helper()
	n, err := account.NewName(s)
	require.NoError(t, err)
	return n
}

func TestCreate(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	owner := user.NewID()

	acc, err := account.Create(owner, mustName(t, "Savings"), account.TypeSavings)
	require.NoError(err)

	assert.False(t, acc.ID.IsZero())
	assert.Equal(t, owner, acc.OwnerID)
	assert.Equal(t, "0.00", acc.Balance.String())
	assert.Regexp(t, regexp.MustCompile(`^\d{8}$`), acc.Number.String())
	assert.Equal(t, account.SortCode("123456"), acc.SortCode)
	assert.Equal(t, currency.Code("GBP"), acc.Currency)
	assert.Equal(t, account.TypeSavings, acc.Type)
	assert.Equal(t, acc.CreatedAt, acc.UpdatedAt)
	assert.Zero(t, acc.Version)
}

func TestCreate_MissingFields(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		owner user.ID
		acct  account.Name
		typ   account.Type
	}{
		{"zero owner", user.ID{}, "Main", account.TypeChecking},
		{"zero name", user.NewID(), "", account.TypeChecking},
		{"bad type", user.NewID(), "Main", account.Type("GOLD")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := account.Create(tt.owner, tt.acct, tt.typ)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestNewName(t *testing.T) {
	t.Parallel()

	n, err := account.NewName("  Holiday fund  ")
	require.NoError(t, err)
	assert.Equal(t, account.Name("Holiday fund"), n)

	_, err = account.NewName(strings.Repeat("x", 100))
	assert.NoError(t, err, "exactly 100 characters")

	_, err = account.NewName(strings.Repeat("x", 101))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = account.NewName(" " + strings.Repeat("x", 100) + " ")
	assert.NoError(t, err, "length is measured after trimming")

	_, err = account.NewName("   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseType(t *testing.T) {
	t.Parallel()
	typ, err := account.ParseType("business")
	require.NoError(t, err)
	assert.Equal(t, account.TypeBusiness, typ)

	_, err = account.ParseType("LOAN")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValueConstructors(t *testing.T) {
	t.Parallel()
	_, err := account.NewNumber("1234567")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = account.NewNumber("12345678")
	assert.NoError(t, err)

	_, err = account.NewSortCode("12-34-56")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = account.IDFrom(uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = account.ParseID("nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = account.TransactionIDFrom(uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	for range 100 {
		assert.Regexp(t, `^\d{8}$`, account.GenerateNumber().String())
	}
}

func TestWithBalance(t *testing.T) {
	t.Parallel()
	acc, err := account.Create(user.NewID(), mustName(t, "Main"), account.TypeChecking)
	require.NoError(t, err)

	updated := acc.WithBalance(money.MustBalance("50.00"))

	assert.Equal(t, "0.00", acc.Balance.String(), "receiver must be unchanged")
	assert.Equal(t, "50.00", updated.Balance.String())
	assert.True(t, updated.UpdatedAt.After(acc.UpdatedAt))
	assert.Equal(t, acc.ID, updated.ID)
	assert.Equal(t, acc.Number, updated.Number)
	assert.Equal(t, acc.SortCode, updated.SortCode)
	assert.Equal(t, acc.CreatedAt, updated.CreatedAt)
}

func TestAuthorize(t *testing.T) {
	t.Parallel()
	owner := user.NewID()
	acc, err := account.Create(owner, mustName(t, "Main"), account.TypeChecking)
	require.NoError(t, err)

	assert.NoError(t, acc.Authorize(owner))
	err = acc.Authorize(user.NewID())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestWithName(t *testing.T) {
	t.Parallel()
	acc, err := account.Create(user.NewID(), mustName(t, "Main"), account.TypeChecking)
	require.NoError(t, err)

	renamed, err := acc.WithName(mustName(t, "Bills"))
	require.NoError(t, err)
	assert.Equal(t, account.Name("Bills"), renamed.Name)
	assert.Equal(t, account.Name("Main"), acc.Name)
	assert.True(t, renamed.UpdatedAt.After(acc.UpdatedAt))

	for _, raw := range []account.Name{"", "   ", account.Name(strings.Repeat("x", account.MaxNameLength+1))} {
		_, err = acc.WithName(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%q", raw)
	}

	trimmed, err := acc.WithName("  Padded  ")
	require.NoError(t, err)
	assert.Equal(t, account.Name("Padded"), trimmed.Name)
}

func TestBuilder_Rehydrate(t *testing.T) {
	t.Parallel()
	id := account.NewID()
	owner := user.NewID()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	acc, err := account.New().
		WithID(id).
		WithOwnerID(owner).
		WithName("Stored").
		WithBalance(money.MustBalance("12.34")).
		WithNumber("00000042").
		WithType(account.TypeBusiness).
		WithCreatedAt(created).
		WithUpdatedAt(created.Add(time.Hour)).
		WithVersion(7).
		Build()
	require.NoError(t, err)
	assert.Equal(t, id, acc.ID)
	assert.Equal(t, account.Number("00000042"), acc.Number)
	assert.Equal(t, int64(7), acc.Version)
	assert.Equal(t, created, acc.CreatedAt)

	_, err = account.New().WithOwnerID(owner).WithName("x").WithType(account.TypeSavings).WithNumber("12").Build()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = account.New().WithOwnerID(owner).WithName(" \t ").WithType(account.TypeSavings).Build()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestErrInsufficientFunds_Kind(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, account.ErrInsufficientFunds, domain.ErrInvalidInput)
	assert.ErrorIs(t, account.ErrCurrencyMismatch, domain.ErrInvalidInput)
	assert.Equal(t, "insufficient funds", account.ErrInsufficientFunds.Error())
}

func TestNewTransaction(t *testing.T) {
	t.Parallel()
	accID := account.NewID()

	txn, err := account.NewTransaction(accID, account.TransactionDeposit, money.MustAmount("50.00"), currency.DefaultCurrency)
	require.NoError(t, err)
	assert.False(t, txn.ID.IsZero())
	assert.Equal(t, accID, txn.AccountID)
	assert.Equal(t, account.TransactionDeposit, txn.Type)
	assert.True(t, txn.Amount.Equal(money.MustAmount("50")))
	assert.WithinDuration(t, time.Now(), txn.Timestamp, time.Minute)

	_, err = account.NewTransaction(account.ID{}, account.TransactionDeposit, money.Amount{}, "GBP")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = account.NewTransaction(accID, "REFUND", money.Amount{}, "GBP")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = account.NewTransaction(accID, account.TransactionWithdrawal, money.Amount{}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
