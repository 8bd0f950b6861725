package instruction

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"solana-token-sale/internal/solana"
)

// AmountFromInt64 converts a signed amount, rejecting negatives.
func AmountFromInt64(v int64) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: negative amount %d", ErrInvalidArgument, v)
	}
	return uint64(v), nil
}

// AmountFromFloat converts a float amount. The value must be finite,
// non-negative, integral and representable as u64.
func AmountFromFloat(v float64) (uint64, error) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0, fmt.Errorf("%w: non-finite amount %v", ErrInvalidArgument, v)
	case v < 0:
		return 0, fmt.Errorf("%w: negative amount %v", ErrInvalidArgument, v)
	case v != math.Trunc(v):
		return 0, fmt.Errorf("%w: non-integral amount %v", ErrInvalidArgument, v)
	case v >= 1<<64:
		return 0, fmt.Errorf("%w: amount %v exceeds u64", ErrInvalidArgument, v)
	}
	return uint64(v), nil
}

// ParseAmount parses a base-10 unsigned integer amount.
func ParseAmount(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse amount %q: %v", ErrInvalidArgument, s, err)
	}
	return v, nil
}

// LamportsFromSOL converts a decimal SOL string such as "0.02" to lamports.
// More than nine fractional digits is an error.
func LamportsFromSOL(sol string) (uint64, error) {
	return scaleDecimal(sol, 9)
}

// TokenUnits converts a whole-token amount to base units: amount * 10^decimals.
func TokenUnits(amount uint64, decimals uint8) (uint64, error) {
	v := new(big.Int).SetUint64(amount)
	v.Mul(v, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %d tokens with %d decimals exceeds u64", ErrInvalidArgument, amount, decimals)
	}
	return v.Uint64(), nil
}

// ParseTokenAmount converts a decimal token string such as "1.5" to base units.
func ParseTokenAmount(s string, decimals uint8) (uint64, error) {
	return scaleDecimal(s, int(decimals))
}

// Cost returns the lamports a buyer pays for amount tokens at price lamports each.
func Cost(price, amount uint64) (uint64, error) {
	if amount != 0 && price > math.MaxUint64/amount {
		return 0, fmt.Errorf("%w: cost of %d at %d overflows u64", ErrInvalidArgument, amount, price)
	}
	return price * amount, nil
}

// FormatSOL renders lamports as a decimal SOL string.
func FormatSOL(lamports uint64) string {
	whole := lamports / solana.LamportsPerSOL
	frac := lamports % solana.LamportsPerSOL
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	return strings.TrimRight(fmt.Sprintf("%d.%09d", whole, frac), "0")
}

func scaleDecimal(s string, decimals int) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidArgument)
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: negative amount %q", ErrInvalidArgument, s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: malformed amount %q", ErrInvalidArgument, s)
	}
	if len(frac) > decimals {
		return 0, fmt.Errorf("%w: amount %q has more than %d fractional digits", ErrInvalidArgument, s, decimals)
	}
	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	if digits == "" || strings.Trim(digits, "0123456789") != "" {
		return 0, fmt.Errorf("%w: malformed amount %q", ErrInvalidArgument, s)
	}

	v, ok := new(big.Int).SetString(digits, 10)
	if !ok || !v.IsUint64() {
		return 0, fmt.Errorf("%w: amount %q exceeds u64", ErrInvalidArgument, s)
	}
	return v.Uint64(), nil
}
