package utils

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// TruncateAddress shortens an address for display: the 0x prefix plus keep
// characters, an ellipsis, and the last keep characters.
func TruncateAddress(address string, keep int) string {
	if address == "" {
		return ""
	}
	if keep <= 0 {
		keep = 4
	}
	if len(address) <= keep*2+2 {
		return address
	}
	return address[:keep+2] + "..." + address[len(address)-keep:]
}

// FormatDuration renders seconds using the two most significant units, e.g.
// "30s", "1m 30s", "1h 1m", "1d 1h".
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	const (
		minute = 60
		hour   = 60 * minute
		day    = 24 * hour
	)
	switch {
	case seconds < minute:
		return fmt.Sprintf("%ds", seconds)
	case seconds < hour:
		return fmt.Sprintf("%dm %ds", seconds/minute, seconds%minute)
	case seconds < day:
		return fmt.Sprintf("%dh %dm", seconds/hour, (seconds%hour)/minute)
	default:
		return fmt.Sprintf("%dd %dh", seconds/day, (seconds%day)/hour)
	}
}

// FormatPercentage renders value (already in percent) with the given number of
// fractional digits and a trailing "%".
func FormatPercentage(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(value, 'f', decimals, 64) + "%"
}

// MaxSafeInteger is 2^53-1, the largest n such that every integer in
// [-n, n] survives a round trip through a float64 JSON number.
const MaxSafeInteger = 1<<53 - 1

var maxSafeBig = big.NewInt(MaxSafeInteger)

// SafeInteger reports whether v survives a round trip through a float64 JSON
// number.
func SafeInteger(v uint64) bool {
	return v <= MaxSafeInteger
}

// SafeBigInt is SafeInteger for signed values of any size.
func SafeBigInt(n *big.Int) bool {
	return n.CmpAbs(maxSafeBig) <= 0
}

// JSONUint returns v as a number when it is a safe integer and as a decimal
// string otherwise.
func JSONUint(v uint64) any {
	if SafeInteger(v) {
		return v
	}
	return strconv.FormatUint(v, 10)
}

// SplitList splits a comma separated parameter, dropping blanks.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
