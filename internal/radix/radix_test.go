package radix

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		digits   string
		base     int
		expected string
	}{
		{"a", 16, "10"},
		{"A", 16, "10"},
		{"14", 8, "12"},
		{"111", 2, "7"},
		{"zz", 36, "1295"},
		{"ZZ", 36, "1295"},
		{"0000", 10, "0"},
		{"", 10, "0"},
		{"", 2, "0"},
		{"007", 10, "7"},
		{"ffffffffffffffffffffffffffffffff", 16, "340282366920938463463374607431768211455"},
	}

	for _, tt := range tests {
		got, err := Decode(tt.digits, tt.base)
		require.NoError(t, err, "Decode(%q, %d)", tt.digits, tt.base)
		require.Equal(t, tt.expected, got.String(), "Decode(%q, %d)", tt.digits, tt.base)
	}
}

func TestDecodeUnsupportedBase(t *testing.T) {
	for _, base := range []int{-1, 0, 1, 37, 100} {
		_, err := Decode("1", base)
		require.ErrorIs(t, err, ErrUnsupportedBase)

		var baseErr *UnsupportedBaseError
		require.True(t, errors.As(err, &baseErr))
		require.Equal(t, base, baseErr.Base)
	}
}

func TestDecodeUnsupportedBaseBeforeDigits(t *testing.T) {
	// an invalid base is reported even when the digits are also bad
	_, err := Decode("!!", 1)
	require.ErrorIs(t, err, ErrUnsupportedBase)
	require.NotErrorIs(t, err, ErrInvalidDigit)
}

func TestDecodeInvalidDigit(t *testing.T) {
	tests := []struct {
		digits   string
		base     int
		char     rune
		position int
	}{
		{"2", 2, '2', 0},
		{"19", 8, '9', 1},
		{"12g", 16, 'g', 2},
		{"12G", 16, 'G', 2},
		{"1-2", 10, '-', 1},
		{" 1", 10, ' ', 0},
		{"1.5", 10, '.', 1},
		{"1é2", 10, 'é', 1},
		{"ééz", 36, 'é', 0},
		{"1é", 16, 'é', 1},
		{"aé9x", 16, 'é', 1},
		{"12€z", 36, '€', 2},
	}

	for _, tt := range tests {
		_, err := Decode(tt.digits, tt.base)
		require.ErrorIs(t, err, ErrInvalidDigit, "Decode(%q, %d)", tt.digits, tt.base)

		var digitErr *InvalidDigitError
		require.True(t, errors.As(err, &digitErr))
		require.Equal(t, tt.char, digitErr.Char)
		require.Equal(t, tt.position, digitErr.Position)
		require.Equal(t, tt.base, digitErr.Base)
		require.Contains(t, err.Error(), tt.digits)
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		value    int64
		base     int
		expected string
	}{
		{0, 2, "0"},
		{10, 16, "a"},
		{12, 8, "14"},
		{1295, 36, "zz"},
		{-255, 16, "-ff"},
	}

	for _, tt := range tests {
		got, err := Encode(big.NewInt(tt.value), tt.base)
		require.NoError(t, err)
		require.Equal(t, tt.expected, got)
	}

	_, err := Encode(big.NewInt(1), 40)
	require.ErrorIs(t, err, ErrUnsupportedBase)
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "0", Normalize(""))
	require.Equal(t, "0", Normalize("000"))
	require.Equal(t, "ab0", Normalize("00AB0"))
}

func TestDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.IntRange(MinBase, MaxBase).Draw(t, "base")
		alphabet := []rune(digitSet[:base] + strings.ToUpper(digitSet[:base]))
		digits := rapid.StringOfN(rapid.SampledFrom(alphabet), 0, 80, -1).Draw(t, "digits")

		v, err := Decode(digits, base)
		if err != nil {
			t.Fatalf("Decode(%q, %d): %v", digits, base, err)
		}
		if v.Sign() < 0 {
			t.Fatalf("Decode(%q, %d) = %s, want non-negative", digits, base, v)
		}

		got, err := Encode(v, base)
		if err != nil {
			t.Fatalf("Encode(%s, %d): %v", v, base, err)
		}
		if want := Normalize(digits); got != want {
			t.Fatalf("round trip of %q in base %d = %q, want %q", digits, base, got, want)
		}
	})
}

func TestDecodeRejectsOutOfRangeDigits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.IntRange(MinBase, MaxBase-1).Draw(t, "base")
		valid := rapid.StringOfN(rapid.SampledFrom([]rune(digitSet[:base])), 0, 20, -1).Draw(t, "prefix")
		bad := rapid.SampledFrom([]rune(digitSet[base:])).Draw(t, "bad")

		_, err := Decode(valid+string(bad), base)
		if !errors.Is(err, ErrInvalidDigit) {
			t.Fatalf("Decode(%q, %d) error = %v, want invalid digit", valid+string(bad), base, err)
		}
	})
}
