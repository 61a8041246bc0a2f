package valueobjects

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// Amount is a decimal-string token quantity. It is unit-agnostic: the token's
// decimals are applied at payment time, not at creation time.
type Amount struct {
	value string
}

// NewAmount validates a positive decimal string.
func NewAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return Amount{}, fmt.Errorf("invalid amount: %q", s)
	}
	a := Amount{value: s}
	if !a.IsPositive() {
		return Amount{}, fmt.Errorf("amount must be positive: %q", s)
	}
	return a, nil
}

func (a Amount) String() string {
	return a.value
}

func (a Amount) IsZero() bool {
	return a.value == ""
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	r, ok := new(big.Rat).SetString(a.value)
	return ok && r.Sign() > 0
}

// ToBaseUnits converts the decimal string to an integer in the token's base
// units, the equivalent of ethers' parseUnits. Fails when the fractional part
// carries more digits than the token supports.
func (a Amount) ToBaseUnits(decimals uint8) (*big.Int, error) {
	whole, frac := a.value, ""
	if i := strings.IndexByte(a.value, '.'); i >= 0 {
		whole, frac = a.value[:i], a.value[i+1:]
	}

	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", a.value, decimals)
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	units, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %q", a.value)
	}
	return units, nil
}

// FormatBaseUnits renders a base-unit integer as a decimal string, trimming
// trailing fractional zeros. Inverse of ToBaseUnits for display purposes.
func FormatBaseUnits(units *big.Int, decimals uint8) string {
	s := units.String()
	if decimals == 0 {
		return s
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for len(s) <= int(decimals) {
		s = "0" + s
	}
	whole := s[:len(s)-int(decimals)]
	frac := strings.TrimRight(s[len(s)-int(decimals):], "0")
	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
