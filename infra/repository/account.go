package repository

import (
	"context"
	"errors"

	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/repository"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository backed by db.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Save implements repository.AccountRepository using the version column as a
// compare-and-swap token.
func (r *accountRepository) Save(ctx context.Context, a *account.Account) (*account.Account, error) {
	m := mapAccountToModel(a)
	if a.Version == 0 {
		m.Version = 1
		if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
			return nil, MapGormErrorToDomain(err)
		}
		return mapAccountToDomain(m)
	}

	res := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ? AND version = ?", m.ID, a.Version).
		Updates(map[string]any{
			"name":       m.Name,
			"balance":    m.Balance,
			"updated_at": m.UpdatedAt,
			"version":    a.Version + 1,
		})
	if res.Error != nil {
		return nil, MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrStaleAccount
	}
	m.Version = a.Version + 1
	return mapAccountToDomain(m)
}

func (r *accountRepository) Get(ctx context.Context, id account.ID) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id.UUID()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("account %s not found", id)
		}
		return nil, MapGormErrorToDomain(err)
	}
	return mapAccountToDomain(&m)
}

func (r *accountRepository) ListByOwner(ctx context.Context, ownerID user.ID) ([]*account.Account, error) {
	var rows []Account
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID.UUID()).
		Order("created_at").
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.Account, 0, len(rows))
	for i := range rows {
		a, err := mapAccountToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *accountRepository) Delete(ctx context.Context, id account.ID) error {
	res := r.db.WithContext(ctx).Delete(&Account{}, "id = ?", id.UUID())
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("account %s not found", id)
	}
	return nil
}

func (r *accountRepository) ExistsByNumber(ctx context.Context, number account.Number) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("number = ?", string(number)).
		Count(&n).Error; err != nil {
		return false, MapGormErrorToDomain(err)
	}
	return n > 0, nil
}
