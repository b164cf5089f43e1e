package account

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/google/uuid"
)

const (
	// MaxNameLength is the longest account name accepted, in characters.
	MaxNameLength = 100
	// BankSortCode is the sort code every Eagle Bank account carries.
	BankSortCode SortCode = "123456"
)

var (
	numberPattern   = regexp.MustCompile(`^\d{8}$`)
	sortCodePattern = regexp.MustCompile(`^\d{6}$`)
)

// ID identifies an account.
type ID uuid.UUID

// NewID generates a fresh random account id.
func NewID() ID {
	return ID(uuid.New())
}

// IDFrom wraps an existing uuid. The nil uuid is rejected.
func IDFrom(raw uuid.UUID) (ID, error) {
	if raw == uuid.Nil {
		return ID{}, domain.InvalidInput("account id is required")
	}
	return ID(raw), nil
}

// ParseID parses the canonical textual form of an account id.
func ParseID(s string) (ID, error) {
	raw, err := uuid.Parse(s)
	if err != nil {
		return ID{}, domain.InvalidInput("malformed account id %q", s)
	}
	return IDFrom(raw)
}

func (id ID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id ID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ID) String() string  { return uuid.UUID(id).String() }

// Name is a trimmed, non-blank account name of at most MaxNameLength characters.
type Name string

// NewName trims s and validates the result.
func NewName(s string) (Name, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", domain.InvalidInput("account name must not be blank")
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return "", domain.InvalidInput("account name must be %d characters or less", MaxNameLength)
	}
	return Name(trimmed), nil
}

func (n Name) String() string { return string(n) }

// Number is an 8-digit account number.
type Number string

// NewNumber validates an existing account number.
func NewNumber(s string) (Number, error) {
	if !numberPattern.MatchString(s) {
		return "", domain.InvalidInput("account number must be exactly 8 digits")
	}
	return Number(s), nil
}

// GenerateNumber returns a random 8-digit account number. Uniqueness is the
// caller's concern.
func GenerateNumber() Number {
	return Number(fmt.Sprintf("%08d", rand.IntN(100_000_000)))
}

func (n Number) String() string { return string(n) }

// SortCode is a 6-digit bank sort code.
type SortCode string

// NewSortCode validates a sort code.
func NewSortCode(s string) (SortCode, error) {
	if !sortCodePattern.MatchString(s) {
		return "", domain.InvalidInput("sort code must be exactly 6 digits")
	}
	return SortCode(s), nil
}

func (s SortCode) String() string { return string(s) }

// Type is the product type of an account.
type Type string

// Account types.
const (
	TypeChecking Type = "CHECKING"
	TypeSavings  Type = "SAVINGS"
	TypeBusiness Type = "BUSINESS"
)

// ParseType accepts an account type in any letter case.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", domain.InvalidInput("unknown account type %q", s)
	}
	return t, nil
}

// Valid reports whether t is one of the known account types.
func (t Type) Valid() bool {
	switch t {
	case TypeChecking, TypeSavings, TypeBusiness:
		return true
	}
	return false
}

func (t Type) String() string { return string(t) }
