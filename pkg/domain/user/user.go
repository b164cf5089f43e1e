package user

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/google/uuid"
)

const (
	// MaxNameLength bounds first and last names, in characters.
	MaxNameLength = 50
	// MinAge is the minimum age in years a customer must have reached.
	MinAge = 18
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ID identifies a user.
type ID uuid.UUID

// NewID generates a fresh random user id.
func NewID() ID {
	return ID(uuid.New())
}

// IDFrom wraps an existing uuid. The nil uuid is rejected.
func IDFrom(raw uuid.UUID) (ID, error) {
	if raw == uuid.Nil {
		return ID{}, domain.InvalidInput("user id is required")
	}
	return ID(raw), nil
}

// ParseID parses the canonical textual form of a user id.
func ParseID(s string) (ID, error) {
	raw, err := uuid.Parse(s)
	if err != nil {
		return ID{}, domain.InvalidInput("malformed user id %q", s)
	}
	return IDFrom(raw)
}

// UUID returns the id as a uuid.UUID.
func (id ID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

// IsZero reports whether id is the nil uuid.
func (id ID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// FirstName is a customer's given name, 1 to 50 characters.
type FirstName string

// NewFirstName validates a first name.
func NewFirstName(s string) (FirstName, error) {
	if err := validateName("first name", s); err != nil {
		return "", err
	}
	return FirstName(s), nil
}

// LastName is a customer's family name, 1 to 50 characters.
type LastName string

// NewLastName validates a last name.
func NewLastName(s string) (LastName, error) {
	if err := validateName("last name", s); err != nil {
		return "", err
	}
	return LastName(s), nil
}

func validateName(field, s string) error {
	if strings.TrimSpace(s) == "" || utf8.RuneCountInString(s) > MaxNameLength {
		return domain.InvalidInput("%s must be 1-%d characters", field, MaxNameLength)
	}
	return nil
}

// Email is a syntactically valid email address.
type Email string

// NewEmail validates an email address.
func NewEmail(s string) (Email, error) {
	if !emailPattern.MatchString(s) {
		return "", domain.InvalidInput("invalid email address")
	}
	return Email(s), nil
}

// NormalizeEmail trims and lower-cases an address before validation, so
// lookups are case-insensitive.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DateOfBirth is the birth date of a customer who is at least MinAge years old.
type DateOfBirth struct {
	t time.Time
}

// NewDateOfBirth validates dob against the current date.
func NewDateOfBirth(dob time.Time) (DateOfBirth, error) {
	return newDateOfBirthAt(dob, time.Now())
}

func newDateOfBirthAt(dob, now time.Time) (DateOfBirth, error) {
	if dob.IsZero() {
		return DateOfBirth{}, domain.InvalidInput("date of birth is required")
	}
	y, m, d := dob.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if day.After(now.AddDate(-MinAge, 0, 0)) {
		return DateOfBirth{}, domain.InvalidInput("user must be at least %d years old", MinAge)
	}
	return DateOfBirth{t: day}, nil
}

// Time returns the date at midnight UTC.
func (d DateOfBirth) Time() time.Time {
	return d.t
}

func (d DateOfBirth) String() string {
	return d.t.Format(time.DateOnly)
}

// PasswordHash is a non-blank password digest.
type PasswordHash string

// NewPasswordHash validates a password hash.
func NewPasswordHash(s string) (PasswordHash, error) {
	if strings.TrimSpace(s) == "" {
		return "", domain.InvalidInput("password hash cannot be blank")
	}
	return PasswordHash(s), nil
}

// User represents a bank customer.
type User struct {
	ID           ID
	FirstName    FirstName
	LastName     LastName
	DateOfBirth  DateOfBirth
	Email        Email
	PasswordHash PasswordHash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Create builds a new user with a fresh id.
func Create(fn FirstName, ln LastName, dob DateOfBirth, email Email, hash PasswordHash) (*User, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return Rehydrate(NewID(), fn, ln, dob, email, hash, now, now)
}

// Rehydrate reconstructs a user from stored fields.
func Rehydrate(
	id ID,
	fn FirstName,
	ln LastName,
	dob DateOfBirth,
	email Email,
	hash PasswordHash,
	created, updated time.Time,
) (*User, error) {
	switch {
	case id.IsZero():
		return nil, domain.InvalidInput("user id is required")
	case fn == "" || ln == "":
		return nil, domain.InvalidInput("user name is required")
	case dob.t.IsZero():
		return nil, domain.InvalidInput("date of birth is required")
	case email == "":
		return nil, domain.InvalidInput("email is required")
	case hash == "":
		return nil, domain.InvalidInput("password hash is required")
	}
	return &User{
		ID:           id,
		FirstName:    fn,
		LastName:     ln,
		DateOfBirth:  dob,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    created,
		UpdatedAt:    updated,
	}, nil
}

func (u *User) touched() *User {
	c := *u
	c.UpdatedAt = nextTimestamp(u.UpdatedAt)
	return &c
}

// WithEmail returns a copy of u with the email replaced.
func (u *User) WithEmail(email Email) *User {
	c := u.touched()
	c.Email = email
	return c
}

// WithFirstName returns a copy of u with the first name replaced.
func (u *User) WithFirstName(fn FirstName) *User {
	c := u.touched()
	c.FirstName = fn
	return c
}

// WithLastName returns a copy of u with the last name replaced.
func (u *User) WithLastName(ln LastName) *User {
	c := u.touched()
	c.LastName = ln
	return c
}

// WithDateOfBirth returns a copy of u with the date of birth replaced.
func (u *User) WithDateOfBirth(dob DateOfBirth) *User {
	c := u.touched()
	c.DateOfBirth = dob
	return c
}

// WithPasswordHash returns a copy of u with the password hash replaced.
func (u *User) WithPasswordHash(hash PasswordHash) *User {
	c := u.touched()
	c.PasswordHash = hash
	return c
}

// nextTimestamp returns the current time, forced strictly after prev so that
// UpdatedAt advances even when the clock has not moved at storage precision.
func nextTimestamp(prev time.Time) time.Time {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}
