// Package user provides business logic for user management operations.
package user

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/events"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/dto"
	"github.com/amirasaad/eaglebank/pkg/eventbus"
	"github.com/amirasaad/eaglebank/pkg/repository"
	"github.com/amirasaad/eaglebank/pkg/utils"
)

// Service provides business logic for user operations including creation,
// updates, and deletion.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	logger *slog.Logger
	cost   int
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cost := utils.DefaultCost
	if deps.Config != nil && deps.Config.Auth != nil && deps.Config.Auth.PasswordCost > 0 {
		cost = deps.Config.Auth.PasswordCost
	}
	return &Service{
		uow:    deps.Uow,
		bus:    deps.EventBus,
		logger: logger,
		cost:   cost,
	}
}

// CreateUser registers a new user. The email address must not be in use.
func (s *Service) CreateUser(ctx context.Context, in dto.UserCreate) (u *user.User, err error) {
	logger := s.logger.With("email", in.Email)
	logger.Info("CreateUser started")

	fn, err := user.NewFirstName(in.FirstName)
	if err != nil {
		return nil, err
	}
	ln, err := user.NewLastName(in.LastName)
	if err != nil {
		return nil, err
	}
	dob, err := user.NewDateOfBirth(in.DateOfBirth)
	if err != nil {
		return nil, err
	}
	email, err := user.NewEmail(user.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if err = ensureEmailFree(ctx, repo, email, user.ID{}); err != nil {
			return err
		}
		u, err = user.Create(fn, ln, dob, email, hash)
		if err != nil {
			return err
		}
		return repo.Save(ctx, u)
	})
	if err != nil {
		logger.Error("CreateUser failed", "error", err)
		return nil, err
	}

	logger.Info("CreateUser successful", "user_id", u.ID)
	eventbus.EmitAll(ctx, s.bus, logger, events.UserRegistered{
		UserID:     u.ID.UUID(),
		Email:      string(u.Email),
		OccurredAt: u.CreatedAt,
	})
	return u, nil
}

// FetchUser loads a user. Users may only read themselves.
func (s *Service) FetchUser(ctx context.Context, id, callerID user.ID) (u *user.User, err error) {
	if err = authorize(id, callerID); err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser applies the non-nil fields of upd to the user.
func (s *Service) UpdateUser(
	ctx context.Context,
	id, callerID user.ID,
	upd dto.UserUpdate,
) (u *user.User, err error) {
	logger := s.logger.With("user_id", id)
	logger.Info("UpdateUser started")

	if err = authorize(id, callerID); err != nil {
		logger.Error("UpdateUser failed", "error", err)
		return nil, err
	}
	if upd.IsEmpty() {
		return nil, domain.InvalidInput("no fields to update")
	}

	var newHash user.PasswordHash
	if upd.Password != nil {
		if newHash, err = s.hashPassword(*upd.Password); err != nil {
			return nil, err
		}
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		updated, err := applyUpdate(ctx, repo, current, upd)
		if err != nil {
			return err
		}
		if newHash != "" {
			updated = updated.WithPasswordHash(newHash)
		}
		if err = repo.Save(ctx, updated); err != nil {
			return err
		}
		u = updated
		return nil
	})
	if err != nil {
		logger.Error("UpdateUser failed", "error", err)
		return nil, err
	}
	logger.Info("UpdateUser successful")
	return u, nil
}

func applyUpdate(
	ctx context.Context,
	repo repository.UserRepository,
	u *user.User,
	upd dto.UserUpdate,
) (*user.User, error) {
	if upd.Email != nil {
		email, err := user.NewEmail(user.NormalizeEmail(*upd.Email))
		if err != nil {
			return nil, err
		}
		if err := ensureEmailFree(ctx, repo, email, u.ID); err != nil {
			return nil, err
		}
		u = u.WithEmail(email)
	}
	if upd.FirstName != nil {
		fn, err := user.NewFirstName(*upd.FirstName)
		if err != nil {
			return nil, err
		}
		u = u.WithFirstName(fn)
	}
	if upd.LastName != nil {
		ln, err := user.NewLastName(*upd.LastName)
		if err != nil {
			return nil, err
		}
		u = u.WithLastName(ln)
	}
	if upd.DateOfBirth != nil {
		dob, err := user.NewDateOfBirth(*upd.DateOfBirth)
		if err != nil {
			return nil, err
		}
		u = u.WithDateOfBirth(dob)
	}
	return u, nil
}

// DeleteUser removes a user. It fails with Conflict while the user still owns
// accounts.
func (s *Service) DeleteUser(ctx context.Context, id, callerID user.ID) (err error) {
	logger := s.logger.With("user_id", id)
	logger.Info("DeleteUser started")

	if err = authorize(id, callerID); err != nil {
		logger.Error("DeleteUser failed", "error", err)
		return err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if _, err = users.Get(ctx, id); err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		owned, err := accounts.ListByOwner(ctx, id)
		if err != nil {
			return err
		}
		if len(owned) > 0 {
			return domain.Conflict("user %s still owns %d account(s)", id, len(owned))
		}
		return users.Delete(ctx, id)
	})
	if err != nil {
		logger.Error("DeleteUser failed", "error", err)
		return err
	}

	logger.Info("DeleteUser successful")
	eventbus.EmitAll(ctx, s.bus, logger, events.UserDeleted{
		UserID:     id.UUID(),
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// FindByEmail looks a user up by email address.
func (s *Service) FindByEmail(ctx context.Context, email string) (u *user.User, err error) {
	addr, err := user.NewEmail(user.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.GetByEmail(ctx, addr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) hashPassword(raw string) (user.PasswordHash, error) {
	hashed, err := utils.HashPasswordWithCost(raw, s.cost)
	if err != nil {
		return "", domain.InvalidInput("invalid password: %v", err)
	}
	return user.NewPasswordHash(hashed)
}

func authorize(id, callerID user.ID) error {
	if id != callerID {
		return domain.Forbidden("user %s cannot access user %s", callerID, id)
	}
	return nil
}

// ensureEmailFree fails with InvalidInput when email belongs to a user other
// than self.
func ensureEmailFree(ctx context.Context, repo repository.UserRepository, email user.Email, self user.ID) error {
	existing, err := repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return domain.InvalidInput("email already in use")
	}
	return nil
}
