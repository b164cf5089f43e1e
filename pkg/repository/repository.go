package repository

import (
	"context"

	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
)

// ErrStaleAccount is returned by AccountRepository.Save when the stored row
// has moved past the version the caller loaded.
var ErrStaleAccount error = &domain.Error{
	Kind:    domain.ErrConflict,
	Message: "account was modified concurrently",
}

// AccountRepository defines the interface for account data access operations.
//
// Get returns an error of kind domain.ErrNotFound when the account is absent.
type AccountRepository interface {
	// Save inserts the account when Version is 0, otherwise updates it only if
	// the stored version still equals Version. On success the returned account
	// carries the new version.
	Save(ctx context.Context, a *account.Account) (*account.Account, error)
	Get(ctx context.Context, id account.ID) (*account.Account, error)
	ListByOwner(ctx context.Context, ownerID user.ID) ([]*account.Account, error)
	Delete(ctx context.Context, id account.ID) error
	ExistsByNumber(ctx context.Context, number account.Number) (bool, error)
}

// TransactionRepository defines the interface for transaction data access operations.
// Transactions are append-only.
type TransactionRepository interface {
	Save(ctx context.Context, t *account.Transaction) error
	Get(ctx context.Context, id account.TransactionID) (*account.Transaction, error)
	ListByAccount(ctx context.Context, accountID account.ID) ([]*account.Transaction, error)
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Save inserts or updates the user by id.
	Save(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id user.ID) (*user.User, error)
	GetByEmail(ctx context.Context, email user.Email) (*user.User, error)
	Delete(ctx context.Context, id user.ID) error
}
