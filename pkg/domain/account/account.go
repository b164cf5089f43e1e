package account

import (
	"time"

	"github.com/amirasaad/eaglebank/pkg/currency"
	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/money"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
)

var (
	// ErrInsufficientFunds is returned when a withdrawal exceeds the account balance.
	ErrInsufficientFunds error = &domain.Error{Kind: domain.ErrInvalidInput, Message: "insufficient funds"}

	// ErrCurrencyMismatch is returned when a transaction and its account disagree on currency.
	ErrCurrencyMismatch error = &domain.Error{
		Kind:    domain.ErrInvalidInput,
		Message: "transaction currency does not match account currency",
	}
)

// Account represents one bank account owned by a single user.
//
// Invariants:
//   - Balance is never negative and always carries two decimal places.
//   - Number and SortCode never change after creation.
//   - UpdatedAt strictly advances on every With* call.
//
// Accounts are values: With* methods return a modified copy and leave the
// receiver untouched.
type Account struct {
	ID        ID
	OwnerID   user.ID
	Name      Name
	Balance   money.Balance
	Number    Number
	SortCode  SortCode
	Type      Type
	Currency  currency.Code
	CreatedAt time.Time
	UpdatedAt time.Time
	// Version is the optimistic concurrency token, managed by the repository.
	Version int64
}

// Create opens a new account with a zero balance in the default currency.
func Create(ownerID user.ID, name Name, typ Type) (*Account, error) {
	return New().
		WithOwnerID(ownerID).
		WithName(name).
		WithType(typ).
		Build()
}

// IsOwnedBy reports whether userID owns the account.
func (a *Account) IsOwnedBy(userID user.ID) bool {
	return a.OwnerID == userID
}

// Authorize fails with a Forbidden error unless callerID owns the account.
func (a *Account) Authorize(callerID user.ID) error {
	if !a.IsOwnedBy(callerID) {
		return domain.Forbidden("user %s does not own account %s", callerID, a.ID)
	}
	return nil
}

// WithBalance returns a copy of the account holding balance.
func (a *Account) WithBalance(balance money.Balance) *Account {
	c := a.touched()
	c.Balance = balance
	return c
}

// WithName returns a copy of the account renamed to name. The name is trimmed
// and checked like NewName, whatever path it was built on.
func (a *Account) WithName(name Name) (*Account, error) {
	valid, err := NewName(string(name))
	if err != nil {
		return nil, err
	}
	c := a.touched()
	c.Name = valid
	return c, nil
}

func (a *Account) touched() *Account {
	c := *a
	c.UpdatedAt = nextTimestamp(a.UpdatedAt)
	return &c
}

// Builder provides a fluent API for constructing Account instances. It is used
// by Create and for rehydrating accounts from storage.
type Builder struct {
	id        ID
	ownerID   user.ID
	name      Name
	balance   money.Balance
	number    Number
	sortCode  SortCode
	typ       Type
	currency  currency.Code
	createdAt time.Time
	updatedAt time.Time
	version   int64
}

// New creates a new Builder with sensible defaults: a fresh id, a generated
// number, the bank sort code and the default currency.
func New() *Builder {
	t := now()
	return &Builder{
		id:        NewID(),
		balance:   money.ZeroBalance(),
		number:    GenerateNumber(),
		sortCode:  BankSortCode,
		currency:  currency.DefaultCurrency,
		createdAt: t,
		updatedAt: t,
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id ID) *Builder {
	b.id = id
	return b
}

// WithOwnerID sets the owner. This is a mandatory field.
func (b *Builder) WithOwnerID(ownerID user.ID) *Builder {
	b.ownerID = ownerID
	return b
}

// WithName sets the account name. This is a mandatory field.
func (b *Builder) WithName(name Name) *Builder {
	b.name = name
	return b
}

// WithBalance sets the balance. Only used for hydrating an existing account.
func (b *Builder) WithBalance(balance money.Balance) *Builder {
	b.balance = balance
	return b
}

func (b *Builder) WithNumber(number Number) *Builder {
	b.number = number
	return b
}

func (b *Builder) WithSortCode(sortCode SortCode) *Builder {
	b.sortCode = sortCode
	return b
}

// WithType sets the account type. This is a mandatory field.
func (b *Builder) WithType(typ Type) *Builder {
	b.typ = typ
	return b
}

func (b *Builder) WithCurrency(code currency.Code) *Builder {
	b.currency = code
	return b
}

func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

func (b *Builder) WithVersion(v int64) *Builder {
	b.version = v
	return b
}

// Build validates every invariant and returns the Account.
func (b *Builder) Build() (*Account, error) {
	switch {
	case b.id.IsZero():
		return nil, domain.InvalidInput("account id is required")
	case b.ownerID.IsZero():
		return nil, domain.InvalidInput("account owner is required")
	case !b.typ.Valid():
		return nil, domain.InvalidInput("unknown account type %q", string(b.typ))
	case !currency.IsValidCurrencyFormat(string(b.currency)):
		return nil, domain.InvalidInput("invalid currency code %q", string(b.currency))
	}
	name, err := NewName(string(b.name))
	if err != nil {
		return nil, err
	}
	if _, err := NewNumber(string(b.number)); err != nil {
		return nil, err
	}
	if _, err := NewSortCode(string(b.sortCode)); err != nil {
		return nil, err
	}
	return &Account{
		ID:        b.id,
		OwnerID:   b.ownerID,
		Name:      name,
		Balance:   b.balance,
		Number:    b.number,
		SortCode:  b.sortCode,
		Type:      b.typ,
		Currency:  b.currency,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
		Version:   b.version,
	}, nil
}

// now is truncated to microseconds, the precision timestamps are stored at.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func nextTimestamp(prev time.Time) time.Time {
	t := now()
	if !t.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return t
}
