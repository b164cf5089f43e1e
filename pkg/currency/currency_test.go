package currency

import (
	"testing"

	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    Code
		wantErr bool
	}{
		{name: "default", raw: "GBP", want: DefaultCurrency},
		{name: "lowercase", raw: " eur ", want: "EUR"},
		{name: "too short", raw: "GB", wantErr: true},
		{name: "digits", raw: "G8P", wantErr: true},
		{name: "unsupported", raw: "XYZ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	assert.True(t, r.IsSupported("GBP"))
	assert.False(t, r.IsSupported("JPY"))

	r.Register("JPY", Meta{Decimals: 0, Symbol: "¥"})
	meta, ok := r.Get("JPY")
	require.True(t, ok)
	assert.Equal(t, 0, meta.Decimals)
	assert.Equal(t, []string{"EUR", "GBP", "JPY", "USD"}, r.ListSupported())
}
