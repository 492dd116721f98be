package radix

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	MinBase = 2
	MaxBase = 36
)

const digitSet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Common errors
var (
	ErrUnsupportedBase = errors.New("unsupported base")
	ErrInvalidDigit    = errors.New("invalid digit")
)

// UnsupportedBaseError is returned when a base is outside [MinBase, MaxBase]
type UnsupportedBaseError struct {
	Base int
}

func (e *UnsupportedBaseError) Error() string {
	return fmt.Sprintf("unsupported base %d (must be %d-%d)", e.Base, MinBase, MaxBase)
}

func (e *UnsupportedBaseError) Is(target error) bool { return target == ErrUnsupportedBase }

// InvalidDigitError is returned when a character is not a digit of the base
type InvalidDigitError struct {
	Char     rune
	Position int // character index, counted in runes
	Base     int
	Digits   string
}

func (e *InvalidDigitError) Error() string {
	return fmt.Sprintf("invalid digit %q at position %d for base %d in value %q",
		e.Char, e.Position, e.Base, e.Digits)
}

func (e *InvalidDigitError) Is(target error) bool { return target == ErrInvalidDigit }

// digitValue maps 0-9 then a-z (case-insensitive) to 0..35, or -1
func digitValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

// CheckBase returns an UnsupportedBaseError unless MinBase <= base <= MaxBase
func CheckBase(base int) error {
	if base < MinBase || base > MaxBase {
		return &UnsupportedBaseError{Base: base}
	}
	return nil
}

// Decode parses digits in the given base into a non-negative integer.
// Digits are read left to right as result = result*base + digit, with no
// intermediate truncation. The empty string decodes to zero.
func Decode(digits string, base int) (*big.Int, error) {
	if err := CheckBase(base); err != nil {
		return nil, err
	}

	b := big.NewInt(int64(base))
	d := new(big.Int)
	result := new(big.Int)
	pos := 0
	for _, c := range digits {
		v := digitValue(c)
		if v < 0 || v >= base {
			return nil, &InvalidDigitError{Char: c, Position: pos, Base: base, Digits: digits}
		}
		result.Mul(result, b)
		result.Add(result, d.SetInt64(int64(v)))
		pos++
	}
	return result, nil
}

// Encode renders v in the given base using lower-case digits.
// Zero encodes to "0"; negative values get a leading '-'.
func Encode(v *big.Int, base int) (string, error) {
	if err := CheckBase(base); err != nil {
		return "", err
	}
	if v.Sign() == 0 {
		return "0", nil
	}

	b := big.NewInt(int64(base))
	q := new(big.Int).Abs(v)
	r := new(big.Int)

	var out []byte
	for q.Sign() > 0 {
		q.QuoRem(q, b, r)
		out = append(out, digitSet[r.Int64()])
	}
	if v.Sign() < 0 {
		out = append(out, '-')
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

// Normalize strips leading zeros and lower-cases digits. An all-zero or empty
// string normalizes to "0".
func Normalize(digits string) string {
	s := strings.TrimLeft(strings.ToLower(digits), "0")
	if s == "" {
		return "0"
	}
	return s
}
