package client

import (
	"errors"
	"testing"

	"beam_automation/internal/app/port"
	"beam_automation/internal/domain/entity"
	"beam_automation/internal/mocks"
	"beam_automation/internal/pkg/logger"

	"github.com/stretchr/testify/require"
)

func TestProviderCachesPerEndpoint(t *testing.T) {
	dials := 0
	provider := NewEVMClientProviderWithFactory(logger.NewSlogAdapter(), func(netDef entity.NetworkDefinition) (port.ChainClient, error) {
		dials++
		return mocks.NewChainClient(netDef), nil
	})

	mainnet := entity.NetworkDefinition{Identifier: "mainnet", ChainID: 4337, RPCURL: "https://a"}
	first, err := provider.GetClient(mainnet)
	require.NoError(t, err)
	second, err := provider.GetClient(mainnet)
	require.NoError(t, err)
	require.Same(t, first, second)

	mainnet.RPCURL = "https://b"
	_, err = provider.GetClient(mainnet)
	require.NoError(t, err)
	require.Equal(t, 2, dials)
}

func TestProviderDoesNotCacheFailures(t *testing.T) {
	calls := 0
	provider := NewEVMClientProviderWithFactory(logger.NewSlogAdapter(), func(netDef entity.NetworkDefinition) (port.ChainClient, error) {
		calls++
		return nil, entity.NewTransportError("rpc", errors.New("dial refused"))
	})

	netDef := entity.NetworkDefinition{Identifier: "testnet", ChainID: 13337, RPCURL: "https://t"}
	_, err := provider.GetClient(netDef)
	require.True(t, errors.Is(err, entity.ErrTransport))
	_, err = provider.GetClient(netDef)
	require.Error(t, err)
	require.Equal(t, 2, calls)
}
