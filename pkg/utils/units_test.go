package utils

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDisplayUnits(t *testing.T) {
	wei, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)

	v, loaded := ToDisplayUnits(wei)
	require.True(t, loaded)
	assert.True(t, v.Equal(decimal.RequireFromString("1.5")))
}

func TestToDisplayUnitsUnset(t *testing.T) {
	_, loaded := ToDisplayUnits(nil)
	assert.False(t, loaded)

	_, loaded = ToDisplayUnits(big.NewInt(0))
	assert.False(t, loaded)
}

func TestFormatBalance(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"1000000000000000000", "1"},
		{"1234900000000000000", "1.23"},
		{"1235000000000000000", "1.24"},
		{"990000000000000000000", "990"},
	}
	for _, c := range cases {
		raw, ok := new(big.Int).SetString(c.raw, 10)
		require.True(t, ok)
		got := FormatBalance(raw)
		assert.True(t, got.Equal(decimal.RequireFromString(c.want)), "raw=%s got=%s", c.raw, got)
	}
}

func TestFormatBalanceUnset(t *testing.T) {
	assert.True(t, FormatBalance(nil).IsZero())
}

func TestToBaseUnitsRoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("2.5")
	wei := ToBaseUnits(amount)

	back, loaded := ToDisplayUnits(wei)
	require.True(t, loaded)
	assert.True(t, back.Equal(amount))
}
