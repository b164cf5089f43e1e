package repository

import (
	"context"
	"errors"

	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/repository"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository backed by db.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Save(ctx context.Context, t *account.Transaction) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(mapTransactionToModel(t)).Error
	})
}

func (r *transactionRepository) Get(ctx context.Context, id account.TransactionID) (*account.Transaction, error) {
	var m Transaction
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id.UUID()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("transaction %s not found", id)
		}
		return nil, MapGormErrorToDomain(err)
	}
	return mapTransactionToDomain(&m)
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID account.ID) ([]*account.Transaction, error) {
	var rows []Transaction
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID.UUID()).
		Order("posted_at").
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.Transaction, 0, len(rows))
	for i := range rows {
		t, err := mapTransactionToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
