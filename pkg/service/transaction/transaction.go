// Package transaction moves money in and out of accounts and reads back the
// resulting ledger.
//
// Deposits and withdrawals write the transaction record and the new balance
// in one unit of work. Two mechanisms keep concurrent requests from working
// against a stale balance: a per-account lock around the whole operation, and
// the account version checked by the repository on save. A save that loses the
// version race is retried from a fresh read.
package transaction

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/events"
	"github.com/amirasaad/eaglebank/pkg/domain/money"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/eventbus"
	"github.com/amirasaad/eaglebank/pkg/lock"
	"github.com/amirasaad/eaglebank/pkg/repository"
)

const defaultMaxRetries = 3

// Service provides deposits, withdrawals and transaction history.
type Service struct {
	uow        repository.UnitOfWork
	locker     lock.Locker
	bus        eventbus.Bus
	logger     *slog.Logger
	maxRetries int
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	retries := defaultMaxRetries
	if deps.Config != nil && deps.Config.Ledger != nil && deps.Config.Ledger.MaxRetries >= 0 {
		retries = deps.Config.Ledger.MaxRetries
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	locker := deps.Locker
	if locker == nil {
		locker = lock.NewMemory()
	}
	return &Service{
		uow:        deps.Uow,
		locker:     locker,
		bus:        deps.EventBus,
		logger:     logger,
		maxRetries: retries,
	}
}

// Deposit credits amount to an account owned by callerID.
func (s *Service) Deposit(
	ctx context.Context,
	accountID account.ID,
	callerID user.ID,
	amount money.Amount,
) (*account.Transaction, error) {
	return s.post(ctx, account.TransactionDeposit, accountID, callerID, amount)
}

// Withdraw debits amount from an account owned by callerID. It fails with
// account.ErrInsufficientFunds, before anything is written, when the balance
// does not cover amount.
func (s *Service) Withdraw(
	ctx context.Context,
	accountID account.ID,
	callerID user.ID,
	amount money.Amount,
) (*account.Transaction, error) {
	return s.post(ctx, account.TransactionWithdrawal, accountID, callerID, amount)
}

func (s *Service) post(
	ctx context.Context,
	kind account.TransactionType,
	accountID account.ID,
	callerID user.ID,
	amount money.Amount,
) (txn *account.Transaction, err error) {
	logger := s.logger.With(
		"type", kind,
		"account_id", accountID,
		"caller_id", callerID,
		"amount", amount.String(),
	)
	logger.Info("Transaction started")

	release, err := s.locker.Lock(ctx, accountID.String())
	if err != nil {
		logger.Error("Transaction failed: lock", "error", err)
		return nil, err
	}
	defer release()

	var updated *account.Account
	for attempt := 0; ; attempt++ {
		txn, updated, err = s.postOnce(ctx, kind, accountID, callerID, amount)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrStaleAccount) || attempt >= s.maxRetries {
			logger.Error("Transaction failed", "error", err, "attempt", attempt+1)
			return nil, err
		}
		logger.Warn("Transaction lost a concurrent update, retrying", "attempt", attempt+1)
	}

	logger.Info("Transaction successful", "transaction_id", txn.ID, "balance", updated.Balance.String())
	eventbus.EmitAll(ctx, s.bus, logger, events.TransactionPosted{
		TransactionID: txn.ID.UUID(),
		AccountID:     updated.ID.UUID(),
		OwnerID:       updated.OwnerID.UUID(),
		Kind:          txn.Type.String(),
		Amount:        txn.Amount.Decimal(),
		Balance:       updated.Balance.Decimal(),
		Currency:      txn.Currency.String(),
		OccurredAt:    txn.Timestamp,
	})
	return txn, nil
}

// postOnce runs one read-check-write cycle inside a unit of work.
func (s *Service) postOnce(
	ctx context.Context,
	kind account.TransactionType,
	accountID account.ID,
	callerID user.ID,
	amount money.Amount,
) (txn *account.Transaction, updated *account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txns, err := uow.TransactionRepository()
		if err != nil {
			return err
		}

		acc, err := fetchOwned(ctx, accounts, accountID, callerID)
		if err != nil {
			return err
		}
		balance, err := nextBalance(kind, acc.Balance, amount)
		if err != nil {
			return err
		}

		t, err := account.NewTransaction(acc.ID, kind, amount, acc.Currency)
		if err != nil {
			return err
		}
		if err = txns.Save(ctx, t); err != nil {
			return err
		}
		updated, err = accounts.Save(ctx, acc.WithBalance(balance))
		if err != nil {
			return err
		}
		txn = t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return txn, updated, nil
}

func nextBalance(kind account.TransactionType, current money.Balance, amount money.Amount) (money.Balance, error) {
	switch kind {
	case account.TransactionDeposit:
		return current.Add(amount)
	case account.TransactionWithdrawal:
		if !current.Covers(amount) {
			return money.Balance{}, account.ErrInsufficientFunds
		}
		return current.Sub(amount)
	default:
		return money.Balance{}, domain.InvalidInput("unknown transaction type %q", kind)
	}
}

// ListTransactions returns the transactions of an account owned by callerID,
// oldest first.
func (s *Service) ListTransactions(
	ctx context.Context,
	accountID account.ID,
	callerID user.ID,
) (txns []*account.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if _, err = fetchOwned(ctx, accounts, accountID, callerID); err != nil {
			return err
		}
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txns, err = repo.ListByAccount(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// FetchTransaction loads one transaction of an account owned by callerID. A
// transaction that belongs to another account is reported as NotFound.
func (s *Service) FetchTransaction(
	ctx context.Context,
	accountID account.ID,
	txnID account.TransactionID,
	callerID user.ID,
) (txn *account.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acc, err := fetchOwned(ctx, accounts, accountID, callerID)
		if err != nil {
			return err
		}
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		t, err := repo.Get(ctx, txnID)
		if err != nil {
			return err
		}
		if t.AccountID != accountID {
			return domain.NotFound("transaction %s not found", txnID)
		}
		if t.Currency != acc.Currency {
			return account.ErrCurrencyMismatch
		}
		txn = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func fetchOwned(
	ctx context.Context,
	repo repository.AccountRepository,
	id account.ID,
	callerID user.ID,
) (*account.Account, error) {
	a, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Authorize(callerID); err != nil {
		return nil, err
	}
	return a, nil
}
