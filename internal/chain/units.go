package chain

import (
	"fmt"
	"math/big"
	"strings"
)

// Decimals is the number of base-unit digits in one whole token on the
// payment chain.
const Decimals = 18

var unitScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// ToBaseUnits converts a human-decimal amount string ("1.5") to base-unit
// integers. Amounts with more than Decimals fractional digits cannot be
// represented and fail rather than truncate.
func ToBaseUnits(amount string) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	// Only digits past the leading sign; SetString would otherwise accept a
	// second sign or a signed fraction and quietly compute the wrong value.
	if !isDigits(whole) || !isDigits(frac) {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > Decimals {
		return nil, fmt.Errorf("amount %q exceeds %d decimal places", amount, Decimals)
	}

	wholeInt, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	wholeInt.Mul(wholeInt, unitScale)

	if frac != "" {
		// Right-pad the fraction to Decimals digits.
		fracInt, ok := new(big.Int).SetString(frac+strings.Repeat("0", Decimals-len(frac)), 10)
		if !ok {
			return nil, fmt.Errorf("invalid amount %q", amount)
		}
		wholeInt.Add(wholeInt, fracInt)
	}

	if neg {
		wholeInt.Neg(wholeInt)
	}
	return wholeInt, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FromBaseUnits converts base-unit integers back to a human-decimal string.
// The output always carries at least one fractional digit ("0.0", "12.5") and
// trailing zeros beyond the first are trimmed, so ToBaseUnits(FromBaseUnits(v))
// round-trips exactly.
func FromBaseUnits(v *big.Int) string {
	if v == nil {
		return "0.0"
	}
	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)

	quo, rem := new(big.Int).QuoRem(abs, unitScale, new(big.Int))

	frac := fmt.Sprintf("%0*s", Decimals, rem.String())
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}

	out := quo.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
