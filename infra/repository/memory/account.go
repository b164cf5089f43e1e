package memory

import (
	"context"
	"sort"

	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/repository"
)

type accountRepository struct {
	uow *UoW
}

func (r *accountRepository) Save(ctx context.Context, a *account.Account) (*account.Account, error) {
	var saved account.Account
	err := r.uow.with(func(s *state) error {
		current, exists := s.accounts[a.ID]
		if a.Version == 0 {
			if exists {
				return domain.Conflict("account %s already exists", a.ID)
			}
			for _, other := range s.accounts {
				if other.Number == a.Number {
					return domain.Conflict("account number %s already in use", a.Number)
				}
			}
		} else if !exists || current.Version != a.Version {
			return repository.ErrStaleAccount
		}
		saved = *a
		saved.Version = a.Version + 1
		s.accounts[a.ID] = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *accountRepository) Get(ctx context.Context, id account.ID) (*account.Account, error) {
	var found account.Account
	err := r.uow.with(func(s *state) error {
		a, ok := s.accounts[id]
		if !ok {
			return domain.NotFound("account %s not found", id)
		}
		found = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *accountRepository) ListByOwner(ctx context.Context, ownerID user.ID) ([]*account.Account, error) {
	var out []*account.Account
	_ = r.uow.with(func(s *state) error {
		for _, a := range s.accounts {
			if a.OwnerID == ownerID {
				c := a
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *accountRepository) Delete(ctx context.Context, id account.ID) error {
	return r.uow.with(func(s *state) error {
		if _, ok := s.accounts[id]; !ok {
			return domain.NotFound("account %s not found", id)
		}
		delete(s.accounts, id)
		return nil
	})
}

func (r *accountRepository) ExistsByNumber(ctx context.Context, number account.Number) (bool, error) {
	exists := false
	_ = r.uow.with(func(s *state) error {
		for _, a := range s.accounts {
			if a.Number == number {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, nil
}
