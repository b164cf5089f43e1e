// Package account provides the account lifecycle: opening, listing, fetching,
// renaming and closing accounts. Every operation on an existing account goes
// through an ownership check against the caller's user id.
package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/events"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/eventbus"
	"github.com/amirasaad/eaglebank/pkg/lock"
	"github.com/amirasaad/eaglebank/pkg/repository"
)

const defaultNumberAttempts = 5

// Service provides business logic for account operations.
type Service struct {
	uow            repository.UnitOfWork
	locker         lock.Locker
	bus            eventbus.Bus
	logger         *slog.Logger
	numberAttempts int
	newNumber      func() account.Number
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	attempts := defaultNumberAttempts
	if deps.Config != nil && deps.Config.Ledger != nil && deps.Config.Ledger.AccountNumberAttempts > 0 {
		attempts = deps.Config.Ledger.AccountNumberAttempts
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
		uow:            deps.Uow,
		locker:         locker,
		bus:            deps.EventBus,
		logger:         logger,
		numberAttempts: attempts,
		newNumber:      account.GenerateNumber,
	}
}

// CreateAccount opens a new account for ownerID. Generated account numbers are
// checked against storage and regenerated on collision; when every attempt
// collides the call fails with a Conflict error.
func (s *Service) CreateAccount(
	ctx context.Context,
	ownerID user.ID,
	name account.Name,
	typ account.Type,
) (a *account.Account, err error) {
	logger := s.logger.With("owner_id", ownerID, "type", typ)
	logger.Info("CreateAccount started")

	for attempt := 1; attempt <= s.numberAttempts; attempt++ {
		number := s.newNumber()
		taken := false
		err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			users, err := uow.UserRepository()
			if err != nil {
				return err
			}
			if _, err = users.Get(ctx, ownerID); err != nil {
				return err
			}
			repo, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			taken, err = repo.ExistsByNumber(ctx, number)
			if err != nil || taken {
				return err
			}
			candidate, err := account.New().
				WithOwnerID(ownerID).
				WithName(name).
				WithType(typ).
				WithNumber(number).
				Build()
			if err != nil {
				return err
			}
			a, err = repo.Save(ctx, candidate)
			return err
		})
		switch {
		case err == nil && !taken:
			logger.Info("CreateAccount successful", "account_id", a.ID, "number", a.Number)
			eventbus.EmitAll(ctx, s.bus, logger, events.AccountOpened{
				AccountID:   a.ID.UUID(),
				OwnerID:     a.OwnerID.UUID(),
				Number:      a.Number.String(),
				AccountType: a.Type.String(),
				Currency:    a.Currency.String(),
				OccurredAt:  a.CreatedAt,
			})
			return a, nil
		case err != nil && !errors.Is(err, domain.ErrConflict):
			logger.Error("CreateAccount failed", "error", err)
			return nil, err
		}
		// the number was taken, either seen up front or by the unique index
		logger.Warn("account number collision", "attempt", attempt, "number", number)
		a = nil
	}

	err = domain.Conflict("could not allocate a unique account number after %d attempts", s.numberAttempts)
	logger.Error("CreateAccount failed", "error", err)
	return nil, err
}

// ListAccounts returns every account owned by ownerID, oldest first.
func (s *Service) ListAccounts(ctx context.Context, ownerID user.ID) (accounts []*account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		accounts, err = repo.ListByOwner(ctx, ownerID)
		return err
	})
	if err != nil {
		s.logger.Error("ListAccounts failed", "owner_id", ownerID, "error", err)
		return nil, err
	}
	return accounts, nil
}

// FetchAccount loads an account. It fails with NotFound when the account does
// not exist and with Forbidden when callerID does not own it.
func (s *Service) FetchAccount(ctx context.Context, id account.ID, callerID user.ID) (a *account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = fetchOwned(ctx, repo, id, callerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAccount renames an account owned by callerID.
func (s *Service) UpdateAccount(
	ctx context.Context,
	id account.ID,
	callerID user.ID,
	newName account.Name,
) (a *account.Account, err error) {
	logger := s.logger.With("account_id", id, "caller_id", callerID)
	logger.Info("UpdateAccount started")

	release, err := s.locker.Lock(ctx, id.String())
	if err != nil {
		logger.Error("UpdateAccount failed: lock", "error", err)
		return nil, err
	}
	defer release()

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		current, err := fetchOwned(ctx, repo, id, callerID)
		if err != nil {
			return err
		}
		renamed, err := current.WithName(newName)
		if err != nil {
			return err
		}
		a, err = repo.Save(ctx, renamed)
		return err
	})
	if err != nil {
		logger.Error("UpdateAccount failed", "error", err)
		return nil, err
	}

	logger.Info("UpdateAccount successful")
	eventbus.EmitAll(ctx, s.bus, logger, events.AccountRenamed{
		AccountID:  a.ID.UUID(),
		OwnerID:    a.OwnerID.UUID(),
		Name:       a.Name.String(),
		OccurredAt: a.UpdatedAt,
	})
	return a, nil
}

// DeleteAccount closes an account owned by callerID. Its transactions stay in
// the ledger.
func (s *Service) DeleteAccount(ctx context.Context, id account.ID, callerID user.ID) (err error) {
	logger := s.logger.With("account_id", id, "caller_id", callerID)
	logger.Info("DeleteAccount started")

	release, err := s.locker.Lock(ctx, id.String())
	if err != nil {
		logger.Error("DeleteAccount failed: lock", "error", err)
		return err
	}
	defer release()

	var owner user.ID
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err := fetchOwned(ctx, repo, id, callerID)
		if err != nil {
			return err
		}
		owner = a.OwnerID
		return repo.Delete(ctx, id)
	})
	if err != nil {
		logger.Error("DeleteAccount failed", "error", err)
		return err
	}

	logger.Info("DeleteAccount successful")
	eventbus.EmitAll(ctx, s.bus, logger, events.AccountClosed{
		AccountID:  id.UUID(),
		OwnerID:    owner.UUID(),
		OccurredAt: time.Now().UTC(),
	})
	return nil
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
