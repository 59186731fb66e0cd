package networkdefinition

import (
	"strings"

	"beam_automation/internal/app/port"
	"beam_automation/internal/domain/entity"
)

func nativeToken() entity.TokenInfo {
	return entity.TokenInfo{
		Name:     beamCurrency.Name,
		Symbol:   beamCurrency.Symbol,
		Decimals: beamCurrency.Decimals,
		Address:  entity.ZeroAddress,
		IsNative: true,
	}
}

var defaultTokens = map[string][]entity.TokenInfo{ //nolint:gochecknoglobals
	entity.NetworkMainnet: {
		nativeToken(),
		{Name: "Wrapped Beam", Symbol: "WBEAM", Decimals: 18, Address: "0xD51BFa777609213A653a2CD067c9A0132a2D316A"},
		{Name: "USD Coin", Symbol: "USDC", Decimals: 6, Address: "0x76BF5E7d2Bcb06b1444C0a2742780051D8D0E304"},
	},
	entity.NetworkTestnet: {nativeToken()},
	entity.NetworkCustom:  {nativeToken()},
}

type tokenIndex struct {
	list      []entity.TokenInfo
	bySymbol  map[string]entity.TokenInfo
	byAddress map[string]entity.TokenInfo
}

// TokenRegistry implements port.TokenRegistry over the built-in token list plus
// whatever the token provider loaded from disk.
type TokenRegistry struct {
	networks map[string]*tokenIndex
}

// NewTokenRegistry merges the built-in lists with provider-loaded tokens. The
// first definition of a symbol or address wins.
func NewTokenRegistry(provider port.TokenProvider, networks []entity.NetworkDefinition, log port.Logger) (*TokenRegistry, error) {
	extra := map[string][]entity.TokenInfo{}
	if provider != nil {
		loaded, err := provider.GetTokensByNetwork(networks)
		if err != nil {
			return nil, err
		}
		extra = loaded
	}

	r := &TokenRegistry{networks: make(map[string]*tokenIndex)}
	for network, tokens := range defaultTokens {
		for _, t := range tokens {
			r.add(network, t)
		}
	}
	for network, tokens := range extra {
		for _, t := range tokens {
			if !r.add(network, t) && log != nil {
				log.Warn("Duplicate token definition ignored", "network", network, "symbol", t.Symbol, "address", t.Address)
			}
		}
	}
	return r, nil
}

func (r *TokenRegistry) add(network string, t entity.TokenInfo) bool {
	network = strings.ToLower(network)
	idx, ok := r.networks[network]
	if !ok {
		idx = &tokenIndex{bySymbol: map[string]entity.TokenInfo{}, byAddress: map[string]entity.TokenInfo{}}
		r.networks[network] = idx
	}
	sym := strings.ToUpper(t.Symbol)
	addr := strings.ToLower(t.Address)
	if _, dup := idx.bySymbol[sym]; dup {
		return false
	}
	if _, dup := idx.byAddress[addr]; dup {
		return false
	}
	idx.list = append(idx.list, t)
	idx.bySymbol[sym] = t
	idx.byAddress[addr] = t
	return true
}

func (r *TokenRegistry) index(network string) (*tokenIndex, error) {
	idx, ok := r.networks[strings.ToLower(network)]
	if !ok {
		return nil, entity.NewNotFoundError("no tokens registered for network %q", network)
	}
	return idx, nil
}

func (r *TokenRegistry) BySymbol(network, symbol string) (entity.TokenInfo, error) {
	idx, err := r.index(network)
	if err != nil {
		return entity.TokenInfo{}, err
	}
	t, ok := idx.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return entity.TokenInfo{}, entity.NewNotFoundError("token %q is not registered on %s", symbol, network)
	}
	return t, nil
}

func (r *TokenRegistry) ByAddress(network, address string) (entity.TokenInfo, error) {
	idx, err := r.index(network)
	if err != nil {
		return entity.TokenInfo{}, err
	}
	t, ok := idx.byAddress[strings.ToLower(strings.TrimSpace(address))]
	if !ok {
		return entity.TokenInfo{}, entity.NewNotFoundError("token %s is not registered on %s", address, network)
	}
	return t, nil
}

func (r *TokenRegistry) Tokens(network string) ([]entity.TokenInfo, error) {
	idx, err := r.index(network)
	if err != nil {
		return nil, err
	}
	out := make([]entity.TokenInfo, len(idx.list))
	copy(out, idx.list)
	return out, nil
}
