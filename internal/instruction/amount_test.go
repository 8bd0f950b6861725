package instruction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountFromInt64(t *testing.T) {
	v, err := AmountFromInt64(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v)

	_, err = AmountFromInt64(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAmountFromFloat(t *testing.T) {
	v, err := AmountFromFloat(20000000)
	require.NoError(t, err)
	assert.Equal(t, uint64(20000000), v)

	for _, bad := range []float64{-1, 1.5, math.NaN(), math.Inf(1), math.Inf(-1), 1 << 64, 1e30} {
		_, err := AmountFromFloat(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, "%v", bad)
	}
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount(" 18446744073709551615 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), v)

	for _, bad := range []string{"", "-1", "1.0", "18446744073709551616", "ten"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, bad)
	}
}

func TestLamportsFromSOL(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"1", 1_000_000_000},
		{"0.02", 20_000_000},
		{".5", 500_000_000},
		{"0.000000001", 1},
		{"18446744073.709551615", math.MaxUint64},
	}
	for _, tt := range tests {
		got, err := LamportsFromSOL(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", ".", "-0.1", "0.0000000001", "1e9", "18446744073.709551616", "1.2.3"} {
		_, err := LamportsFromSOL(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, bad)
	}
}

func TestTokenUnits(t *testing.T) {
	v, err := TokenUnits(100, 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000_000_000), v)

	v, err = TokenUnits(10, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v)

	_, err = TokenUnits(100, 19)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseTokenAmount(t *testing.T) {
	v, err := ParseTokenAmount("1.5", 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000), v)

	_, err = ParseTokenAmount("1.5", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCost(t *testing.T) {
	v, err := Cost(20_000_000, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(200_000_000), v)

	v, err = Cost(math.MaxUint64, 0)
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = Cost(math.MaxUint64, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFormatSOL(t *testing.T) {
	assert.Equal(t, "1", FormatSOL(1_000_000_000))
	assert.Equal(t, "0.02", FormatSOL(20_000_000))
	assert.Equal(t, "0.000000001", FormatSOL(1))
	assert.Equal(t, "0", FormatSOL(0))
}
