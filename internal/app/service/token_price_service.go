package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"beam_automation/internal/app/port"
	"beam_automation/internal/client"
	"beam_automation/internal/domain/entity"
	"beam_automation/internal/domain/market"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const (
	prefetchPageSize    = 30
	prefetchConcurrency = 4
)

// PriceFeed serves DEXScreener pool data for one chain from an expiring
// cache keyed by lower-cased token address.
type PriceFeed struct {
	source  client.DEXScreenerClient
	chainID string
	pools   *cache.Cache
	logger  port.Logger
}

// NewPriceFeed caches pools for ttl; expired entries are swept every 2*ttl.
func NewPriceFeed(source client.DEXScreenerClient, chainID string, ttl time.Duration, l port.Logger) *PriceFeed {
	return &PriceFeed{
		source:  source,
		chainID: chainID,
		pools:   cache.New(ttl, 2*ttl),
		logger:  l,
	}
}

// GetPairs returns the pools listed for token, from cache when possible.
func (f *PriceFeed) GetPairs(ctx context.Context, token string) ([]market.Pair, error) {
	key := strings.ToLower(token)
	if cached, ok := f.pools.Get(key); ok {
		return cached.([]market.Pair), nil
	}
	pairs, err := f.source.TokenPairs(ctx, f.chainID, []string{token})
	if err != nil {
		return nil, err
	}
	f.remember(pairs, []string{token})
	cached, _ := f.pools.Get(key)
	return cached.([]market.Pair), nil
}

// GetPriceUSD prices token from the pool chosen by market.BestPair.
func (f *PriceFeed) GetPriceUSD(ctx context.Context, token string) (float64, market.Pair, error) {
	pairs, err := f.GetPairs(ctx, token)
	if err != nil {
		return 0, market.Pair{}, err
	}
	best, ok := market.BestPair(pairs, token)
	if !ok {
		return 0, market.Pair{}, entity.NewNotFoundError("no priced pair found for token %s", token)
	}
	price, err := best.USDPrice()
	if err != nil {
		return 0, market.Pair{}, entity.NewTransportError("dexscreener", err)
	}
	f.logger.Debug("Priced token", "token", token, "pair", best.Address, "quote", best.Quote.Symbol, "priceUsd", best.PriceUSD)
	return price, best, nil
}

// Prefetch warms the cache for every registered ERC-20. Native entries are
// skipped since DEXScreener lists only contract tokens.
func (f *PriceFeed) Prefetch(ctx context.Context, tokens []entity.TokenInfo) error {
	addresses := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !t.IsNative && t.Address != "" {
			addresses = append(addresses, t.Address)
		}
	}
	if len(addresses) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchConcurrency)
	for page := range slices.Chunk(addresses, prefetchPageSize) {
		g.Go(func() error {
			pairs, err := f.source.TokenPairs(gctx, f.chainID, page)
			if err != nil {
				f.logger.Warn("Failed to prefetch token pairs", "chain", f.chainID, "count", len(page), "error", err)
				return err
			}
			f.remember(pairs, page)
			return nil
		})
	}
	err := g.Wait()
	f.logger.Info("Token price cache warmed", "chain", f.chainID, "tokens", len(addresses), "cached", f.pools.ItemCount())
	return err
}

// remember files pools under their base token. Requested tokens without pools
// cache an empty list so misses stay local until expiry; a single-token lookup
// also keeps pools where the token sits on the quote side.
func (f *PriceFeed) remember(pairs []market.Pair, requested []string) {
	byToken := make(map[string][]market.Pair, len(requested))
	for _, addr := range requested {
		byToken[strings.ToLower(addr)] = []market.Pair{}
	}
	for _, p := range pairs {
		key := strings.ToLower(p.Base.Address)
		if _, wanted := byToken[key]; !wanted && len(requested) == 1 {
			key = strings.ToLower(requested[0])
		}
		byToken[key] = append(byToken[key], p)
	}
	for k, v := range byToken {
		f.pools.SetDefault(k, v)
	}
}

var _ port.PriceFeed = (*PriceFeed)(nil)
