package provider

import (
	"context"
	"testing"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/infrastructure/configloader"
	"beam_automation/internal/pkg/logger"

	"github.com/stretchr/testify/require"
)

func TestCredentialProviderEnvOverridesConfig(t *testing.T) {
	cfg := configloader.CredentialsConfig{
		Chain: &entity.ChainCredentials{Network: "testnet", RPCURL: "https://rpc.example"},
		API:   &entity.APICredentials{APIKey: "from-file"},
	}
	fromEnv := envCredentials{
		Chain: entity.ChainCredentials{PrivateKey: "0xabc"},
		API:   entity.APICredentials{APIKey: "from-env", ProjectID: "42"},
	}
	p := newCredentialProvider(cfg, fromEnv, "https://api.example", logger.NewSlogAdapter())

	creds, err := p.Credentials(context.Background())
	require.NoError(t, err)
	require.Equal(t, "testnet", creds.Chain.Network)
	require.Equal(t, "https://rpc.example", creds.Chain.RPCURL)
	require.Equal(t, "0xabc", creds.Chain.PrivateKey)
	require.Equal(t, "from-env", creds.API.APIKey)
	require.Equal(t, "42", creds.API.ProjectID)
	require.Equal(t, "https://api.example", creds.API.Endpoint)

	creds.Chain.Network = "mainnet"
	again, _ := p.Credentials(context.Background())
	require.Equal(t, "testnet", again.Chain.Network)
}

func TestCredentialProviderDefaults(t *testing.T) {
	p := newCredentialProvider(configloader.CredentialsConfig{}, envCredentials{}, "https://api.example", logger.NewSlogAdapter())
	creds, err := p.Credentials(context.Background())
	require.NoError(t, err)
	require.Nil(t, creds.Chain)
	require.Nil(t, creds.API)

	p = newCredentialProvider(configloader.CredentialsConfig{}, envCredentials{Chain: entity.ChainCredentials{RPCURL: "https://rpc.example"}}, "", logger.NewSlogAdapter())
	creds, _ = p.Credentials(context.Background())
	require.Equal(t, entity.NetworkMainnet, creds.Chain.Network)
}

func TestCredentialProviderReadsEnvironment(t *testing.T) {
	t.Setenv("BEAM_NETWORK", "custom")
	t.Setenv("BEAM_CHAIN_ID", "31337")
	t.Setenv("BEAM_RPC_URL", "http://localhost:8545")

	p, err := NewCredentialProvider(configloader.CredentialsConfig{}, "", logger.NewSlogAdapter())
	require.NoError(t, err)
	creds, err := p.Credentials(context.Background())
	require.NoError(t, err)
	require.Equal(t, entity.NetworkCustom, creds.Chain.Network)
	require.Equal(t, uint64(31337), creds.Chain.ChainID)
}

type countingTokens struct{ calls int }

func (c *countingTokens) GetTokensByNetwork(networks []entity.NetworkDefinition) (map[string][]entity.TokenInfo, error) {
	c.calls++
	out := map[string][]entity.TokenInfo{}
	for _, n := range networks {
		out[n.Identifier] = []entity.TokenInfo{{Symbol: "GAME", Decimals: 18}}
	}
	return out, nil
}

func TestTokenProviderCachesPerNetworkSet(t *testing.T) {
	inner := &countingTokens{}
	p := NewTokenProvider(inner, logger.NewSlogAdapter())
	mainnet := entity.NetworkDefinition{Identifier: "mainnet"}
	testnet := entity.NetworkDefinition{Identifier: "testnet"}

	_, err := p.GetTokensByNetwork([]entity.NetworkDefinition{mainnet, testnet})
	require.NoError(t, err)
	tokens, err := p.GetTokensByNetwork([]entity.NetworkDefinition{testnet, mainnet})
	require.NoError(t, err)
	require.Len(t, tokens["mainnet"], 1)
	require.Equal(t, 1, inner.calls)

	_, err = p.GetTokensByNetwork([]entity.NetworkDefinition{mainnet})
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}
