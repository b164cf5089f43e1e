package memory

import (
	"context"

	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
)

type userRepository struct {
	uow *UoW
}

func (r *userRepository) Save(ctx context.Context, u *user.User) error {
	return r.uow.with(func(s *state) error {
		for id, other := range s.users {
			if id != u.ID && other.Email == u.Email {
				return domain.Conflict("email %s already in use", u.Email)
			}
		}
		s.users[u.ID] = *u
		return nil
	})
}

func (r *userRepository) Get(ctx context.Context, id user.ID) (*user.User, error) {
	var found user.User
	err := r.uow.with(func(s *state) error {
		u, ok := s.users[id]
		if !ok {
			return domain.NotFound("user %s not found", id)
		}
		found = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	var found user.User
	err := r.uow.with(func(s *state) error {
		for _, u := range s.users {
			if u.Email == email {
				found = u
				return nil
			}
		}
		return domain.NotFound("no user with email %s", email)
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *userRepository) Delete(ctx context.Context, id user.ID) error {
	return r.uow.with(func(s *state) error {
		if _, ok := s.users[id]; !ok {
			return domain.NotFound("user %s not found", id)
		}
		delete(s.users, id)
		return nil
	})
}
