package client

import (
	"fmt"
	"sync"
	"time"

	"beam_automation/internal/app/port"
	"beam_automation/internal/domain/entity"
	"beam_automation/internal/infrastructure/configloader"
)

// ClientFactory dials a chain client for a network.
type ClientFactory func(netDef entity.NetworkDefinition) (port.ChainClient, error)

// evmClientProvider implements port.ChainClientProvider with one cached client
// per (chain id, rpc url).
type evmClientProvider struct {
	clients map[string]port.ChainClient
	mu      sync.Mutex
	logger  port.Logger
	factory ClientFactory
}

// NewEVMClientProvider creates a provider that dials go-ethereum clients with
// the configured timeouts.
func NewEVMClientProvider(cfg *configloader.Config, logger port.Logger) port.ChainClientProvider {
	connectionTimeout := time.Duration(cfg.Performance.ConnectionTimeoutSeconds) * time.Second
	rpcCallTimeout := time.Duration(cfg.Performance.RPCCallTimeoutSeconds) * time.Second
	pollInterval := time.Duration(cfg.Performance.ReceiptPollIntervalMillis) * time.Millisecond

	return NewEVMClientProviderWithFactory(logger, func(netDef entity.NetworkDefinition) (port.ChainClient, error) {
		return NewEVMClient(netDef, connectionTimeout, rpcCallTimeout, pollInterval)
	})
}

// NewEVMClientProviderWithFactory is used by tests and alternative transports.
func NewEVMClientProviderWithFactory(logger port.Logger, factory ClientFactory) port.ChainClientProvider {
	return &evmClientProvider{
		clients: make(map[string]port.ChainClient),
		logger:  logger,
		factory: factory,
	}
}

// GetClient returns the cached client for a network, dialing on first use.
func (p *evmClientProvider) GetClient(netDef entity.NetworkDefinition) (port.ChainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	clientKey := fmt.Sprintf("%d|%s", netDef.ChainID, netDef.RPCURL)
	if client, exists := p.clients[clientKey]; exists {
		p.logger.Debug("Returning cached EVM client", "network", netDef.Identifier)
		return client, nil
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Identifier, "chain_id", netDef.ChainID)
	newClient, err := p.factory(netDef)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Identifier, "error", err)
		return nil, err
	}

	p.clients[clientKey] = newClient
	return newClient, nil
}
