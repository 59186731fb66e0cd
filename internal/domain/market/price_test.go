package market

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const gameToken = "0x00000000000000000000000000000000000000aa"

func pool(addr, price, quote string, liquidity float64) Pair {
	p := Pair{Address: addr, PriceUSD: price, Base: Token{Address: gameToken}, Quote: Token{Symbol: quote}}
	if liquidity > 0 {
		p.Liquidity = &Liquidity{USD: liquidity}
	}
	return p
}

func TestBestPairPrefersStablecoinQuote(t *testing.T) {
	pairs := []Pair{
		pool("deep-wbeam", "0.030", "WBEAM", 90000),
		pool("shallow-usdc", "0.029", "usdc", 5000),
		pool("unpriced", "0", "USDT", 1_000_000),
	}
	best, ok := BestPair(pairs, "0x00000000000000000000000000000000000000AA")
	require.True(t, ok)
	require.Equal(t, "shallow-usdc", best.Address)
}

func TestBestPairFallsBackToDeepestPool(t *testing.T) {
	pairs := []Pair{
		pool("thin", "0.031", "WBEAM", 100),
		pool("no-liquidity-block", "0.032", "WBEAM", 0),
		pool("deep", "0.030", "WBEAM", 40000),
	}
	best, ok := BestPair(pairs, gameToken)
	require.True(t, ok)
	require.Equal(t, "deep", best.Address)
	require.Zero(t, pairs[1].LiquidityUSD())
}

func TestBestPairIgnoresQuoteSideMatches(t *testing.T) {
	p := pool("reversed", "1.0", "USDC", 1000)
	p.Base, p.Quote = Token{Symbol: "USDC"}, Token{Address: gameToken}
	_, ok := BestPair([]Pair{p}, gameToken)
	require.False(t, ok)
}

func TestUSDPrice(t *testing.T) {
	v, err := pool("a", "0.0215", "USDC", 1).USDPrice()
	require.NoError(t, err)
	require.InDelta(t, 0.0215, v, 1e-12)

	_, err = pool("b", "n/a", "USDC", 1).USDPrice()
	require.Error(t, err)
}
