package account

import (
	"time"

	"github.com/amirasaad/eaglebank/pkg/currency"
	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/money"
	"github.com/google/uuid"
)

// TransactionID identifies a posted transaction.
type TransactionID uuid.UUID

// NewTransactionID generates a fresh random transaction id.
func NewTransactionID() TransactionID {
	return TransactionID(uuid.New())
}

// TransactionIDFrom wraps an existing uuid. The nil uuid is rejected.
func TransactionIDFrom(raw uuid.UUID) (TransactionID, error) {
	if raw == uuid.Nil {
		return TransactionID{}, domain.InvalidInput("transaction id is required")
	}
	return TransactionID(raw), nil
}

// ParseTransactionID parses the canonical textual form of a transaction id.
func ParseTransactionID(s string) (TransactionID, error) {
	raw, err := uuid.Parse(s)
	if err != nil {
		return TransactionID{}, domain.InvalidInput("malformed transaction id %q", s)
	}
	return TransactionIDFrom(raw)
}

func (id TransactionID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id TransactionID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id TransactionID) String() string  { return uuid.UUID(id).String() }

// TransactionType is the direction of a ledger movement.
type TransactionType string

// Transaction types.
const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionDeposit || t == TransactionWithdrawal
}

func (t TransactionType) String() string { return string(t) }

// Transaction is an immutable record of one deposit or withdrawal.
type Transaction struct {
	ID        TransactionID
	AccountID ID
	Type      TransactionType
	Amount    money.Amount
	Currency  currency.Code
	Timestamp time.Time
}

// NewTransaction records a new movement against accountID, timestamped now.
func NewTransaction(
	accountID ID,
	typ TransactionType,
	amount money.Amount,
	code currency.Code,
) (*Transaction, error) {
	return RehydrateTransaction(NewTransactionID(), accountID, typ, amount, code, now())
}

// RehydrateTransaction reconstructs a Transaction from stored fields.
func RehydrateTransaction(
	id TransactionID,
	accountID ID,
	typ TransactionType,
	amount money.Amount,
	code currency.Code,
	timestamp time.Time,
) (*Transaction, error) {
	switch {
	case id.IsZero():
		return nil, domain.InvalidInput("transaction id is required")
	case accountID.IsZero():
		return nil, domain.InvalidInput("transaction account is required")
	case !typ.Valid():
		return nil, domain.InvalidInput("unknown transaction type %q", string(typ))
	case code == "":
		return nil, domain.InvalidInput("transaction currency is required")
	case timestamp.IsZero():
		return nil, domain.InvalidInput("transaction timestamp is required")
	}
	return &Transaction{
		ID:        id,
		AccountID: accountID,
		Type:      typ,
		Amount:    amount,
		Currency:  code,
		Timestamp: timestamp,
	}, nil
}
