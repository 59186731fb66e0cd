// Package market holds DEX pool data as the price feed sees it and the rules
// for turning a set of pools into one USD price.
package market

import (
	"strconv"
	"strings"
)

// Pair is one pool reported by DEXScreener. Field tags follow the public
// /tokens/v1 response.
type Pair struct {
	ChainID     string     `json:"chainId"`
	DEX         string     `json:"dexId"`
	URL         string     `json:"url"`
	Address     string     `json:"pairAddress"`
	Base        Token      `json:"baseToken"`
	Quote       Token      `json:"quoteToken"`
	PriceNative string     `json:"priceNative"`
	PriceUSD    string     `json:"priceUsd"`
	Volume      Window     `json:"volume"`
	PriceChange Window     `json:"priceChange"`
	Liquidity   *Liquidity `json:"liquidity"` // absent on freshly created pools
	FDV         float64    `json:"fdv"`
	MarketCap   float64    `json:"marketCap"`
	CreatedAt   int64      `json:"pairCreatedAt"`
}

type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type Liquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// Window carries rolling figures; volume and price change share the shape.
type Window struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

// LiquidityUSD is zero when the pool reports no liquidity block.
func (p Pair) LiquidityUSD() float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.USD
}

// Priced reports whether the pool quotes a non-zero USD price.
func (p Pair) Priced() bool {
	v, err := strconv.ParseFloat(p.PriceUSD, 64)
	return err == nil && v > 0
}

// QuotedInStable reports whether the quote side is a USD stablecoin.
func (p Pair) QuotedInStable() bool {
	_, ok := stablecoins[strings.ToUpper(p.Quote.Symbol)]
	return ok
}

// HasBase matches the base token address case-insensitively.
func (p Pair) HasBase(address string) bool {
	return strings.EqualFold(p.Base.Address, address)
}
