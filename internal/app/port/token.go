package port

import (
	"context"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/domain/market"
)

// TokenRegistry looks tokens up within a network-scoped registry.
type TokenRegistry interface {
	// BySymbol is case-insensitive.
	BySymbol(network, symbol string) (entity.TokenInfo, error)
	// ByAddress is case-insensitive.
	ByAddress(network, address string) (entity.TokenInfo, error)
	Tokens(network string) ([]entity.TokenInfo, error)
}

// TokenProvider loads extra token definitions per network identifier.
type TokenProvider interface {
	GetTokensByNetwork(networks []entity.NetworkDefinition) (map[string][]entity.TokenInfo, error)
}

// PriceFeed returns market prices for tokens on a DEXScreener chain.
type PriceFeed interface {
	GetPairs(ctx context.Context, tokenAddress string) ([]market.Pair, error)
	GetPriceUSD(ctx context.Context, tokenAddress string) (float64, market.Pair, error)
}

// MetadataFetcher downloads token metadata documents.
type MetadataFetcher interface {
	FetchJSON(ctx context.Context, uri string) (map[string]any, error)
}
