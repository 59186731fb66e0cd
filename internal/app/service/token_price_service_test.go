package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/domain/market"
	"beam_automation/internal/pkg/logger"

	"github.com/stretchr/testify/require"
)

type fakeDEXScreener struct {
	calls int
	pairs []market.Pair
	err   error
}

func (f *fakeDEXScreener) TokenPairs(_ context.Context, _ string, _ []string) ([]market.Pair, error) {
	f.calls++
	return f.pairs, f.err
}

func TestGetPriceUSDPrefersStablecoinPair(t *testing.T) {
	token := "0x00000000000000000000000000000000000000aa"
	base := market.Token{Address: token}
	fake := &fakeDEXScreener{pairs: []market.Pair{
		{Address: "deep-wbeam", PriceUSD: "0.030", Base: base, Quote: market.Token{Symbol: "WBEAM"}, Liquidity: &market.Liquidity{USD: 90000}},
		{Address: "usdc", PriceUSD: "0.029", Base: base, Quote: market.Token{Symbol: "USDC"}, Liquidity: &market.Liquidity{USD: 5000}},
		{Address: "empty", PriceUSD: "0", Base: base, Quote: market.Token{Symbol: "USDT"}},
	}}
	feed := NewPriceFeed(fake, "beam", time.Minute, logger.NewSlogAdapter())

	price, pair, err := feed.GetPriceUSD(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, 0.029, price)
	require.Equal(t, "usdc", pair.Address)

	_, _, err = feed.GetPriceUSD(context.Background(), "0x00000000000000000000000000000000000000AA")
	require.NoError(t, err)
	require.Equal(t, 1, fake.calls, "second lookup must be served from cache")
}

func TestGetPriceUSDWithoutPairs(t *testing.T) {
	feed := NewPriceFeed(&fakeDEXScreener{}, "beam", time.Minute, logger.NewSlogAdapter())
	_, _, err := feed.GetPriceUSD(context.Background(), "0x00000000000000000000000000000000000000bb")
	require.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestGetPairsPropagatesTransportErrors(t *testing.T) {
	fake := &fakeDEXScreener{err: entity.NewHTTPTransportError("dexscreener", 429, "slow down")}
	feed := NewPriceFeed(fake, "beam", time.Minute, logger.NewSlogAdapter())
	_, err := feed.GetPairs(context.Background(), "0x00000000000000000000000000000000000000cc")
	require.True(t, errors.Is(err, entity.ErrTransport))
}

func TestPrefetchSkipsNativeTokens(t *testing.T) {
	fake := &fakeDEXScreener{}
	feed := NewPriceFeed(fake, "beam", time.Minute, logger.NewSlogAdapter())
	require.NoError(t, feed.Prefetch(context.Background(), []entity.TokenInfo{{Symbol: "BEAM", IsNative: true}}))
	require.Equal(t, 0, fake.calls)

	require.NoError(t, feed.Prefetch(context.Background(), []entity.TokenInfo{{Symbol: "USDC", Address: "0x01"}}))
	require.Equal(t, 1, fake.calls)
	_, err := feed.GetPairs(context.Background(), "0x01")
	require.NoError(t, err)
	require.Equal(t, 1, fake.calls)
}
