package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountOpened is emitted after a new account has been stored.
type AccountOpened struct {
	AccountID   uuid.UUID `json:"account_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Number      string    `json:"number"`
	AccountType string    `json:"type"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e AccountOpened) Type() string { return EventTypeAccountOpened.String() }

// AccountRenamed is emitted after an account name change has been stored.
type AccountRenamed struct {
	AccountID  uuid.UUID `json:"account_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e AccountRenamed) Type() string { return EventTypeAccountRenamed.String() }

// AccountClosed is emitted after an account has been deleted.
type AccountClosed struct {
	AccountID  uuid.UUID `json:"account_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e AccountClosed) Type() string { return EventTypeAccountClosed.String() }

// TransactionPosted is emitted after a deposit or withdrawal has been committed
// together with the new balance.
type TransactionPosted struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func (e TransactionPosted) Type() string { return EventTypeTransactionPosted.String() }

// UserRegistered is emitted after a user has signed up.
type UserRegistered struct {
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e UserRegistered) Type() string { return EventTypeUserRegistered.String() }

// UserDeleted is emitted after a user has been removed.
type UserDeleted struct {
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e UserDeleted) Type() string { return EventTypeUserDeleted.String() }
