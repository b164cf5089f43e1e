package repository

import "context"

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Do runs fn inside one storage transaction. Repositories obtained from the
// UnitOfWork passed to fn share that transaction, so every write made through
// them commits together or not at all. If fn returns an error the transaction
// is rolled back and the error is returned unchanged.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
	UserRepository() (UserRepository, error)
}
