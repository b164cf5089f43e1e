package memory

import (
	"context"
	"sort"

	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
)

type transactionRepository struct {
	uow *UoW
}

func (r *transactionRepository) Save(ctx context.Context, t *account.Transaction) error {
	return r.uow.with(func(s *state) error {
		if _, exists := s.transactions[t.ID]; exists {
			return domain.Conflict("transaction %s already exists", t.ID)
		}
		s.transactions[t.ID] = *t
		return nil
	})
}

func (r *transactionRepository) Get(ctx context.Context, id account.TransactionID) (*account.Transaction, error) {
	var found account.Transaction
	err := r.uow.with(func(s *state) error {
		t, ok := s.transactions[id]
		if !ok {
			return domain.NotFound("transaction %s not found", id)
		}
		found = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID account.ID) ([]*account.Transaction, error) {
	var out []*account.Transaction
	_ = r.uow.with(func(s *state) error {
		for _, t := range s.transactions {
			if t.AccountID == accountID {
				c := t
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
