package repository

import (
	"context"
	"errors"

	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository backed by db.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Save upserts the user by primary key.
func (r *userRepository) Save(ctx context.Context, u *user.User) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "date_of_birth", "email", "password_hash", "updated_at"}),
			}).
			Create(mapUserToModel(u)).Error
	})
}

func (r *userRepository) Get(ctx context.Context, id user.ID) (*user.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id.UUID()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("user %s not found", id)
		}
		return nil, MapGormErrorToDomain(err)
	}
	return mapUserToDomain(&m)
}

func (r *userRepository) GetByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "email = ?", string(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("no user with email %s", email)
		}
		return nil, MapGormErrorToDomain(err)
	}
	return mapUserToDomain(&m)
}

func (r *userRepository) Delete(ctx context.Context, id user.ID) error {
	res := r.db.WithContext(ctx).Delete(&User{}, "id = ?", id.UUID())
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("user %s not found", id)
	}
	return nil
}
