package utils

import (
	"errors"
	"math/big"
	"testing"

	"beam_automation/internal/domain/entity"

	"github.com/stretchr/testify/require"
)

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, s)
	return v
}

func TestBaseUnitsToDecimal(t *testing.T) {
	require.Equal(t, "1.500000", BaseUnitsToDecimal(big.NewInt(1500000), 6))
	require.Equal(t, "0.000005", BaseUnitsToDecimal(big.NewInt(5), 6))
	require.Equal(t, "42", BaseUnitsToDecimal(big.NewInt(42), 0))
	require.Equal(t, "0.000000000000000000", BaseUnitsToDecimal(nil, 18))
	require.Equal(t, "1.000000000000000000", BaseUnitsToDecimal(mustBig(t, "1000000000000000000"), 18))
}

func TestDecimalToBaseUnits(t *testing.T) {
	t.Run("valid numerals", func(t *testing.T) {
		v, err := DecimalToBaseUnits("1.5", 18)
		require.NoError(t, err)
		require.Equal(t, "1500000000000000000", v.String())

		v, err = DecimalToBaseUnits(".25", 6)
		require.NoError(t, err)
		require.Equal(t, "250000", v.String())

		v, err = DecimalToBaseUnits("7.", 2)
		require.NoError(t, err)
		require.Equal(t, "700", v.String())

		v, err = DecimalToBaseUnits("1.50", 2)
		require.NoError(t, err)
		require.Equal(t, "150", v.String())
	})

	t.Run("invalid numerals", func(t *testing.T) {
		for _, in := range []string{"", ".", "abc", "-1", "1e18", "1,5", "0x10", "1.2.3"} {
			_, err := DecimalToBaseUnits(in, 18)
			require.Error(t, err, in)
			require.True(t, errors.Is(err, entity.ErrInvalidAmount), in)
			require.True(t, errors.Is(err, entity.ErrInvalidInput), in)
		}
	})

	t.Run("too many fractional digits", func(t *testing.T) {
		_, err := DecimalToBaseUnits("1.0000001", 6)
		require.ErrorIs(t, err, entity.ErrInvalidAmount)

		_, err = DecimalToBaseUnits("0.5", 0)
		require.ErrorIs(t, err, entity.ErrInvalidAmount)

		_, err = DecimalToBaseUnits("1.50", 1)
		require.ErrorIs(t, err, entity.ErrInvalidAmount)

		_, err = DecimalToBaseUnits("3.0", 0)
		require.ErrorIs(t, err, entity.ErrInvalidAmount)
	})
}

func TestUnitsRoundTrip(t *testing.T) {
	amounts := []string{
		"0", "1", "9", "10", "999999", "1000000", "123456789",
		"1000000000000000000", "1234567890123456789012345678901234567890",
	}
	for _, d := range []uint8{0, 6, 18} {
		for _, a := range amounts {
			in := mustBig(t, a)
			out, err := DecimalToBaseUnits(BaseUnitsToDecimal(in, d), d)
			require.NoError(t, err)
			require.Equal(t, 0, in.Cmp(out), "amount=%s decimals=%d", a, d)
		}
	}
}

func TestFormatBigInt(t *testing.T) {
	require.Equal(t, "1.2345", FormatBigInt(mustBig(t, "1234500000000000000"), 18))
	require.Equal(t, "0", FormatBigInt(big.NewInt(0), 18))
	require.Equal(t, "0", FormatBigInt(nil, 18))
	require.Equal(t, "2", FormatBigInt(mustBig(t, "2000000"), 6))
	require.Equal(t, "150", FormatBigInt(big.NewInt(150), 0))
}

func TestFormatForDisplay(t *testing.T) {
	require.Equal(t, "0", FormatForDisplay(big.NewInt(0), 18, 4))
	require.Equal(t, "1.2346", FormatForDisplay(mustBig(t, "1234567890000000000"), 18, 4))
	require.Equal(t, "1.2345", FormatForDisplay(mustBig(t, "1234549999999999999"), 18, 4))
	require.Equal(t, "2", FormatForDisplay(mustBig(t, "1999990000000000000"), 18, 4))
	require.Equal(t, "< 0.0001", FormatForDisplay(mustBig(t, "50000000000000"), 18, 4))
	require.Equal(t, "0.0001", FormatForDisplay(mustBig(t, "100000000000000"), 18, 4))
	require.Equal(t, "< 1", FormatForDisplay(mustBig(t, "500000"), 6, 0))
	require.Equal(t, "1.5", FormatForDisplay(big.NewInt(1500000), 6, 8))

	original := mustBig(t, "1234567890000000000")
	FormatForDisplay(original, 18, 2)
	require.Equal(t, "1234567890000000000", original.String())
}

func TestParseBigInt(t *testing.T) {
	v, ok := ParseBigInt("0x10")
	require.True(t, ok)
	require.Equal(t, int64(16), v.Int64())

	v, ok = ParseBigInt(" 42 ")
	require.True(t, ok)
	require.Equal(t, int64(42), v.Int64())

	_, ok = ParseBigInt("0x")
	require.False(t, ok)
	_, ok = ParseBigInt("4.2")
	require.False(t, ok)
}
