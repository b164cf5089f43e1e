package money

import (
	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/shopspring/decimal"
)

const (
	// BalanceScale is the number of fractional digits a Balance carries.
	BalanceScale = 2
	// MaxAmountScale is the most fractional digits an Amount may be written with.
	MaxAmountScale = 18
	// maxIntegerDigits matches the NUMERIC(19,2) balance column.
	maxIntegerDigits = 17
)

// Limit is the exclusive upper bound of every Amount and Balance.
var Limit = decimal.New(1, maxIntegerDigits)

// checkRange rejects values outside [0, Limit) and exponents that would make
// arithmetic rescale to an unbounded number of digits. The exponent is looked
// at first since comparing against Limit rescales too.
func checkRange(what string, d decimal.Decimal) error {
	switch {
	case d.IsNegative():
		return domain.InvalidInput("%s must not be negative", what)
	case d.Exponent() < -MaxAmountScale:
		return domain.InvalidInput("%s must have at most %d decimal places", what, MaxAmountScale)
	case d.Exponent() > maxIntegerDigits, d.GreaterThanOrEqual(Limit):
		return domain.InvalidInput("%s must be less than %s", what, Limit.String())
	}
	return nil
}

// Amount is a non-negative decimal of up to MaxAmountScale fractional digits used
// for ledger movements.
// The zero value is a valid zero amount.
type Amount struct {
	value decimal.Decimal
}

// NewAmount wraps d. It fails with an invalid input error when d falls outside
// [0, Limit) or carries more than MaxAmountScale decimal places.
func NewAmount(d decimal.Decimal) (Amount, error) {
	if err := checkRange("amount", d); err != nil {
		return Amount{}, err
	}
	return Amount{value: d}, nil
}

// ParseAmount parses a decimal string such as "50.00" into an Amount.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, domain.InvalidInput("malformed amount %q", s)
	}
	return NewAmount(d)
}

// MustAmount is like ParseAmount but panics on error. Intended for tests and constants.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// Equal compares amounts by numeric value, ignoring scale.
func (a Amount) Equal(other Amount) bool {
	return a.value.Equal(other.value)
}

func (a Amount) String() string {
	return a.value.String()
}

// Balance is a non-negative decimal fixed at two fractional digits.
//
// Invariants:
//   - 0 <= value < Limit
//   - value is stored with exactly BalanceScale fractional digits
//   - value has no more than BalanceScale significant fractional digits; values
//     that cannot be represented exactly are rejected, never rounded.
type Balance struct {
	value decimal.Decimal
}

// ZeroBalance returns a balance of 0.00.
func ZeroBalance() Balance {
	return Balance{value: decimal.New(0, -BalanceScale)}
}

// NewBalance validates d and fixes it to scale 2.
func NewBalance(d decimal.Decimal) (Balance, error) {
	if err := checkRange("balance", d); err != nil {
		return Balance{}, err
	}
	fixed := d.Round(BalanceScale)
	if !fixed.Equal(d) {
		return Balance{}, domain.InvalidInput("balance %s cannot be represented with %d decimal places", d.String(), BalanceScale)
	}
	return Balance{value: fixed}, nil
}

// ParseBalance parses a decimal string into a Balance.
func ParseBalance(s string) (Balance, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Balance{}, domain.InvalidInput("malformed balance %q", s)
	}
	return NewBalance(d)
}

// MustBalance is like ParseBalance but panics on error. Intended for tests and constants.
func MustBalance(s string) Balance {
	b, err := ParseBalance(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Decimal returns the underlying decimal value.
func (b Balance) Decimal() decimal.Decimal {
	return b.value
}

// Covers reports whether the balance is greater than or equal to amount.
func (b Balance) Covers(amount Amount) bool {
	return b.value.GreaterThanOrEqual(amount.value)
}

// Add returns b + amount. The sum must still be exact at scale 2.
func (b Balance) Add(amount Amount) (Balance, error) {
	return NewBalance(b.value.Add(amount.value))
}

// Sub returns b - amount. Callers check Covers first; a negative result fails.
func (b Balance) Sub(amount Amount) (Balance, error) {
	return NewBalance(b.value.Sub(amount.value))
}

// Equal compares balances by numeric value.
func (b Balance) Equal(other Balance) bool {
	return b.value.Equal(other.value)
}

// String renders the balance with exactly two fractional digits.
func (b Balance) String() string {
	return b.value.StringFixed(BalanceScale)
}
