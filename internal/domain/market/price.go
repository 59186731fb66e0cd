package market

import (
	"fmt"
	"strconv"
)

var stablecoins = map[string]struct{}{ //nolint:gochecknoglobals
	"USDC":   {},
	"USDC.E": {},
	"USDT":   {},
	"DAI":    {},
}

// BestPair picks the pool to price token from: the deepest stablecoin-quoted
// pool if one exists, otherwise the deepest pool overall. Only pools with token
// on the base side and a non-zero price qualify.
func BestPair(pairs []Pair, token string) (Pair, bool) {
	var best, bestStable *Pair
	for i := range pairs {
		p := &pairs[i]
		if !p.HasBase(token) || !p.Priced() {
			continue
		}
		if p.QuotedInStable() && (bestStable == nil || p.LiquidityUSD() > bestStable.LiquidityUSD()) {
			bestStable = p
		}
		if best == nil || p.LiquidityUSD() > best.LiquidityUSD() {
			best = p
		}
	}
	switch {
	case bestStable != nil:
		return *bestStable, true
	case best != nil:
		return *best, true
	default:
		return Pair{}, false
	}
}

// USDPrice parses the pool's USD price.
func (p Pair) USDPrice() (float64, error) {
	v, err := strconv.ParseFloat(p.PriceUSD, 64)
	if err != nil {
		return 0, fmt.Errorf("pair %s has malformed priceUsd %q: %w", p.Address, p.PriceUSD, err)
	}
	return v, nil
}
