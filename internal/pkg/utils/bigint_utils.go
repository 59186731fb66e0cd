package utils

import (
	"math/big"
	"strings"

	"beam_automation/internal/domain/entity"
)

var bigTen = big.NewInt(10)

// Pow10 returns 10^n as a new big.Int.
func Pow10(n int) *big.Int {
	return new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
}

// BaseUnitsToDecimal converts an integer base-unit amount to its exact decimal
// representation. All `decimals` fractional digits are kept.
// Example: amount=1500000, decimals=6 => "1.500000"
func BaseUnitsToDecimal(amount *big.Int, decimals uint8) string {
	if amount == nil {
		amount = new(big.Int)
	}
	neg := amount.Sign() < 0
	digits := new(big.Int).Abs(amount).String()

	if decimals > 0 {
		if len(digits) <= int(decimals) {
			digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
		}
		cut := len(digits) - int(decimals)
		digits = digits[:cut] + "." + digits[cut:]
	}
	if neg {
		return "-" + digits
	}
	return digits
}

// DecimalToBaseUnits parses a non-negative decimal numeral into base units.
// More than `decimals` fractional digits is an error, zeros included.
func DecimalToBaseUnits(amount string, decimals uint8) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, entity.NewInvalidAmountError("amount is empty")
	}

	intPart, fracPart, hasPoint := strings.Cut(s, ".")
	if hasPoint && intPart == "" && fracPart == "" {
		return nil, entity.NewInvalidAmountError("amount %q is not a decimal number", amount)
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return nil, entity.NewInvalidAmountError("amount %q is not a decimal number", amount)
	}

	if len(fracPart) > int(decimals) {
		return nil, entity.NewInvalidAmountError("amount %q has more than %d fractional digits", amount, decimals)
	}
	fracPart += strings.Repeat("0", int(decimals)-len(fracPart))

	combined := strings.TrimLeft(intPart+fracPart, "0")
	if combined == "" {
		return new(big.Int), nil
	}
	out, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, entity.NewInvalidAmountError("amount %q is not a decimal number", amount)
	}
	return out, nil
}

// FormatBigInt converts a base-unit amount to a human-readable string with
// trailing fractional zeros removed.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8) string {
	if amount == nil || amount.Sign() == 0 {
		return "0"
	}
	return trimFraction(BaseUnitsToDecimal(amount, decimals))
}

// FormatForDisplay rounds amount (half up) to displayDecimals fractional
// digits. Non-zero amounts smaller than the smallest displayable unit render as
// "< 0.0001" (for displayDecimals=4). The underlying value is never modified.
func FormatForDisplay(amount *big.Int, decimals uint8, displayDecimals int) string {
	if amount == nil || amount.Sign() == 0 {
		return "0"
	}
	if displayDecimals < 0 {
		displayDecimals = 0
	}
	neg := amount.Sign() < 0
	abs := new(big.Int).Abs(amount)

	if displayDecimals >= int(decimals) {
		out := FormatBigInt(abs, decimals)
		if neg {
			return "-" + out
		}
		return out
	}

	// abs * 10^dd < 10^decimals means the value is below 10^-dd.
	scaled := new(big.Int).Mul(abs, Pow10(displayDecimals))
	if scaled.Cmp(Pow10(int(decimals))) < 0 {
		smallest := "1"
		if displayDecimals > 0 {
			smallest = "0." + strings.Repeat("0", displayDecimals-1) + "1"
		}
		if neg {
			return "> -" + smallest
		}
		return "< " + smallest
	}

	drop := Pow10(int(decimals) - displayDecimals)
	q, r := new(big.Int).QuoRem(abs, drop, new(big.Int))
	if new(big.Int).Mul(r, big.NewInt(2)).Cmp(drop) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	out := trimFraction(BaseUnitsToDecimal(q, uint8(displayDecimals)))
	if neg {
		return "-" + out
	}
	return out
}

// ParseBigInt accepts a decimal or 0x-prefixed hexadecimal integer.
func ParseBigInt(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if len(s) == 2 {
			return nil, false
		}
		return new(big.Int).SetString(s[2:], 16)
	}
	return new(big.Int).SetString(s, 10)
}

func trimFraction(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
