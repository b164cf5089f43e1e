package repository

import (
	"fmt"
	"time"

	"github.com/amirasaad/eaglebank/pkg/currency"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/money"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Timestamps are owned by the domain, so GORM's auto time tracking is disabled.

// User represents a user record in the database.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string    `gorm:"size:50;not null"`
	LastName     string    `gorm:"size:50;not null"`
	DateOfBirth  time.Time `gorm:"type:date;not null"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

// Account represents an account record in the database.
type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"size:100;not null"`
	Balance   decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	Number    string          `gorm:"type:char(8);not null;uniqueIndex"`
	SortCode  string          `gorm:"type:char(6);not null"`
	Type      string          `gorm:"size:16;not null"`
	Currency  string          `gorm:"type:char(3);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime:false"`
	Version   int64           `gorm:"not null"`
}

// Transaction represents a posted ledger movement.
type Transaction struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type      string          `gorm:"size:16;not null"`
	Amount    decimal.Decimal `gorm:"type:numeric;not null"`
	Currency  string          `gorm:"type:char(3);not null"`
	Timestamp time.Time       `gorm:"column:posted_at;not null"`
}

func mapUserToModel(u *user.User) *User {
	return &User{
		ID:           u.ID.UUID(),
		FirstName:    string(u.FirstName),
		LastName:     string(u.LastName),
		DateOfBirth:  u.DateOfBirth.Time(),
		Email:        string(u.Email),
		PasswordHash: string(u.PasswordHash),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func mapUserToDomain(m *User) (*user.User, error) {
	id, err := user.IDFrom(m.ID)
	if err != nil {
		return nil, err
	}
	dob, err := user.NewDateOfBirth(m.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", m.ID, err)
	}
	return user.Rehydrate(
		id,
		user.FirstName(m.FirstName),
		user.LastName(m.LastName),
		dob,
		user.Email(m.Email),
		user.PasswordHash(m.PasswordHash),
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func mapAccountToModel(a *account.Account) *Account {
	return &Account{
		ID:        a.ID.UUID(),
		UserID:    a.OwnerID.UUID(),
		Name:      string(a.Name),
		Balance:   a.Balance.Decimal(),
		Number:    string(a.Number),
		SortCode:  string(a.SortCode),
		Type:      string(a.Type),
		Currency:  string(a.Currency),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		Version:   a.Version,
	}
}

func mapAccountToDomain(m *Account) (*account.Account, error) {
	id, err := account.IDFrom(m.ID)
	if err != nil {
		return nil, err
	}
	owner, err := user.IDFrom(m.UserID)
	if err != nil {
		return nil, err
	}
	balance, err := money.NewBalance(m.Balance)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", m.ID, err)
	}
	return account.New().
		WithID(id).
		WithOwnerID(owner).
		WithName(account.Name(m.Name)).
		WithBalance(balance).
		WithNumber(account.Number(m.Number)).
		WithSortCode(account.SortCode(m.SortCode)).
		WithType(account.Type(m.Type)).
		WithCurrency(currency.Code(m.Currency)).
		WithCreatedAt(m.CreatedAt).
		WithUpdatedAt(m.UpdatedAt).
		WithVersion(m.Version).
		Build()
}

func mapTransactionToModel(t *account.Transaction) *Transaction {
	return &Transaction{
		ID:        t.ID.UUID(),
		AccountID: t.AccountID.UUID(),
		Type:      string(t.Type),
		Amount:    t.Amount.Decimal(),
		Currency:  string(t.Currency),
		Timestamp: t.Timestamp,
	}
}

func mapTransactionToDomain(m *Transaction) (*account.Transaction, error) {
	id, err := account.TransactionIDFrom(m.ID)
	if err != nil {
		return nil, err
	}
	accountID, err := account.IDFrom(m.AccountID)
	if err != nil {
		return nil, err
	}
	amount, err := money.NewAmount(m.Amount)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", m.ID, err)
	}
	return account.RehydrateTransaction(
		id,
		accountID,
		account.TransactionType(m.Type),
		amount,
		currency.Code(m.Currency),
		m.Timestamp,
	)
}
