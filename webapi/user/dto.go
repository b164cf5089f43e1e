package user

import (
	"time"

	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/dto"
)

// NewUser represents the request body for registering a user.
type NewUser struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateUserInput represents the request body for a partial user update.
type UpdateUserInput struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty" validate:"omitnil,datetime=2006-01-02"`
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty" validate:"omitnil,min=8,max=72"`
}

// Response is the public view of a user. The password hash is never exposed.
type Response struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth string    `json:"dateOfBirth"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdTimestamp"`
	UpdatedAt   time.Time `json:"updatedTimestamp"`
}

// ToResponse maps a domain user to its public view.
func ToResponse(u *user.User) Response {
	return Response{
		ID:          u.ID.String(),
		FirstName:   string(u.FirstName),
		LastName:    string(u.LastName),
		DateOfBirth: u.DateOfBirth.String(),
		Email:       string(u.Email),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (in NewUser) toDTO() dto.UserCreate {
	// the datetime validator has already accepted the layout
	dob, _ := time.Parse(time.DateOnly, in.DateOfBirth)
	return dto.UserCreate{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DateOfBirth: dob,
		Email:       in.Email,
		Password:    in.Password,
	}
}

func (in UpdateUserInput) toDTO() dto.UserUpdate {
	upd := dto.UserUpdate{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
	}
	if in.DateOfBirth != nil {
		dob, _ := time.Parse(time.DateOnly, *in.DateOfBirth)
		upd.DateOfBirth = &dob
	}
	return upd
}
