package money_test

import (
	"testing"

	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"zero", "0", false},
		{"cents", "50.00", false},
		{"arbitrary scale", "0.0001", false},
		{"max scale", "0.000000000000000001", false},
		{"largest", "99999999999999999.99", false},
		{"negative", "-0.01", true},
		{"malformed", "ten", true},
		{"too many decimal places", "0.0000000000000000001", true},
		{"tiny exponent", "1e-400000000", true},
		{"zero with tiny exponent", "0e-400000000", true},
		{"huge exponent", "1e400000000", true},
		{"at limit", "100000000000000000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := money.ParseAmount(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.True(t, a.Decimal().Equal(decimal.RequireFromString(tt.raw)))
		})
	}
}

func TestNewBalance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"zero", "0", "0.00", false},
		{"whole", "30", "30.00", false},
		{"trailing zeros", "12.3400", "12.34", false},
		{"negative", "-1.00", "", true},
		{"inexact scale", "10.005", "", true},
		{"at limit", "100000000000000000", "", true},
		{"huge exponent", "5e400000000", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := money.ParseBalance(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.String())
			assert.Equal(t, int32(-money.BalanceScale), b.Decimal().Exponent())
		})
	}
}

func TestBalance_Arithmetic(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	b := money.MustBalance("30.00")

	sum, err := b.Add(money.MustAmount("0.10"))
	require.NoError(err)
	assert.Equal(t, "30.10", sum.String())

	// 0.1 + 0.2 must not drift the way binary floats do
	sum, err = money.ZeroBalance().Add(money.MustAmount("0.1"))
	require.NoError(err)
	sum, err = sum.Add(money.MustAmount("0.2"))
	require.NoError(err)
	assert.True(t, sum.Equal(money.MustBalance("0.30")))

	diff, err := b.Sub(money.MustAmount("30"))
	require.NoError(err)
	assert.Equal(t, "0.00", diff.String())

	_, err = b.Sub(money.MustAmount("30.01"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = b.Add(money.MustAmount("0.001"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBalance_AddBeyondLimit(t *testing.T) {
	t.Parallel()

	b := money.MustBalance("99999999999999999.00")
	_, err := b.Add(money.MustAmount("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	sum, err := money.ZeroBalance().Add(money.MustAmount("5"))
	require.NoError(t, err)
	assert.Equal(t, int32(-money.BalanceScale), sum.Decimal().Exponent())
	assert.Equal(t, "5.00", sum.String())
}

func TestBalance_Covers(t *testing.T) {
	t.Parallel()
	b := money.MustBalance("30.00")
	assert.True(t, b.Covers(money.MustAmount("30")))
	assert.True(t, b.Covers(money.MustAmount("0")))
	assert.False(t, b.Covers(money.MustAmount("30.01")))
}
