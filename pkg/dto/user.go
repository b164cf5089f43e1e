// Package dto holds plain input structs passed from the transport layers to
// the user service.
package dto

import (
	"time"
)

// UserCreate represents the data needed to register a new user.
type UserCreate struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Email       string
	Password    string
}

// UserUpdate represents the data that can be updated for a user. Nil fields
// are left unchanged.
type UserUpdate struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
	Email       *string
	Password    *string
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.DateOfBirth == nil &&
		u.Email == nil && u.Password == nil
}
