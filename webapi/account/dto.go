package account

import (
	"encoding/json"
	"time"

	"github.com/amirasaad/eaglebank/pkg/domain/account"
)

// CreateAccountInput represents the request body for opening an account.
type CreateAccountInput struct {
	Name        string `json:"name" validate:"required"`
	AccountType string `json:"accountType" validate:"required"`
}

// UpdateAccountInput represents the request body for renaming an account.
type UpdateAccountInput struct {
	Name string `json:"name" validate:"required"`
}

// TransactionInput represents the request body for a deposit or withdrawal.
// Amount is kept as the literal JSON number so no precision is lost.
type TransactionInput struct {
	Amount   json.Number `json:"amount" validate:"required"`
	Type     string      `json:"type" validate:"required,oneof=deposit withdrawal DEPOSIT WITHDRAWAL"`
	Currency string      `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID            string      `json:"id"`
	AccountNumber string      `json:"accountNumber"`
	SortCode      string      `json:"sortCode"`
	Name          string      `json:"name"`
	AccountType   string      `json:"accountType"`
	Balance       json.Number `json:"balance"`
	Currency      string      `json:"currency"`
	CreatedAt     time.Time   `json:"createdTimestamp"`
	UpdatedAt     time.Time   `json:"updatedTimestamp"`
}

// TransactionResponse is the public view of a ledger entry.
type TransactionResponse struct {
	ID        string      `json:"id"`
	AccountID string      `json:"accountId"`
	Type      string      `json:"type"`
	Amount    json.Number `json:"amount"`
	Currency  string      `json:"currency"`
	CreatedAt time.Time   `json:"createdTimestamp"`
}

// ToAccountResponse maps a domain account to its public view.
func ToAccountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:            a.ID.String(),
		AccountNumber: a.Number.String(),
		SortCode:      a.SortCode.String(),
		Name:          a.Name.String(),
		AccountType:   a.Type.String(),
		Balance:       json.Number(a.Balance.String()),
		Currency:      a.Currency.String(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// ToTransactionResponse maps a domain transaction to its public view.
func ToTransactionResponse(t *account.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID.String(),
		AccountID: t.AccountID.String(),
		Type:      t.Type.String(),
		Amount:    json.Number(t.Amount.String()),
		Currency:  t.Currency.String(),
		CreatedAt: t.Timestamp,
	}
}

func toAccountResponses(accounts []*account.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, ToAccountResponse(a))
	}
	return out
}

func toTransactionResponses(txns []*account.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, ToTransactionResponse(t))
	}
	return out
}
