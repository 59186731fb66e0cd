package provider

import (
	"sort"
	"strings"
	"sync"

	"beam_automation/internal/app/port"
	"beam_automation/internal/domain/entity"
)

type tokenProviderImpl struct {
	inner  port.TokenProvider
	logger port.Logger

	mu          sync.Mutex
	tokensCache map[string]map[string][]entity.TokenInfo // key: sorted network identifiers
}

// NewTokenProvider wraps a token source and caches its result per set of
// networks.
func NewTokenProvider(inner port.TokenProvider, logger port.Logger) port.TokenProvider {
	return &tokenProviderImpl{
		inner:       inner,
		logger:      logger,
		tokensCache: make(map[string]map[string][]entity.TokenInfo),
	}
}

// GetTokensByNetwork loads token definitions once per network set.
func (p *tokenProviderImpl) GetTokensByNetwork(networks []entity.NetworkDefinition) (map[string][]entity.TokenInfo, error) {
	ids := make([]string, 0, len(networks))
	for _, n := range networks {
		ids = append(ids, n.Identifier)
	}
	sort.Strings(ids)
	key := strings.Join(ids, ",")

	p.mu.Lock()
	defer p.mu.Unlock()

	if cached, ok := p.tokensCache[key]; ok {
		p.logger.Debug("Returning cached tokens by network", "networks", key)
		return cached, nil
	}

	tokens, err := p.inner.GetTokensByNetwork(networks)
	if err != nil {
		p.logger.Error("Failed to load tokens", "networks", key, "error", err)
		return nil, err
	}
	p.tokensCache[key] = tokens

	total := 0
	for _, list := range tokens {
		total += len(list)
	}
	p.logger.Info("Tokens loaded and cached successfully", "networks", key, "tokens", total)
	return tokens, nil
}
