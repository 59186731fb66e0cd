package networkdefinition

import (
	"errors"
	"testing"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

type staticTokenProvider map[string][]entity.TokenInfo

func (p staticTokenProvider) GetTokensByNetwork([]entity.NetworkDefinition) (map[string][]entity.TokenInfo, error) {
	return p, nil
}

func newTestRegistry(t *testing.T, overrides map[string]map[string]string) *Registry {
	t.Helper()
	r, err := NewRegistry(overrides, logger.NewSlogAdapter())
	require.NoError(t, err)
	return r
}

func TestRegistryNetwork(t *testing.T) {
	r := newTestRegistry(t, nil)

	def, err := r.Network("mainnet")
	require.NoError(t, err)
	require.Equal(t, uint64(4337), def.ChainID)
	require.Equal(t, "BEAM", def.NativeCurrency.Symbol)
	require.Equal(t, uint8(18), def.NativeCurrency.Decimals)

	def, err = r.Network("TESTNET")
	require.NoError(t, err)
	require.Equal(t, uint64(13337), def.ChainID)
	require.True(t, def.IsTestnet)

	_, err = r.Network("ropsten")
	require.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestRegistryResolve(t *testing.T) {
	r := newTestRegistry(t, nil)

	def, err := r.Resolve(entity.ChainCredentials{Network: "mainnet", RPCURL: "https://rpc.example.org"})
	require.NoError(t, err)
	require.Equal(t, "https://rpc.example.org", def.RPCURL)
	require.Equal(t, uint64(4337), def.ChainID)

	_, err = r.Resolve(entity.ChainCredentials{Network: "mainnet", ChainID: 1})
	require.True(t, errors.Is(err, entity.ErrInvalidInput))

	def, err = r.Resolve(entity.ChainCredentials{Network: "custom", RPCURL: "http://localhost:8545", ChainID: 31337})
	require.NoError(t, err)
	require.Equal(t, entity.NetworkCustom, def.Identifier)
	require.Equal(t, uint64(31337), def.ChainID)

	_, err = r.Resolve(entity.ChainCredentials{Network: "custom", RPCURL: "http://localhost:8545"})
	require.True(t, errors.Is(err, entity.ErrInvalidInput))

	_, err = r.Resolve(entity.ChainCredentials{Network: "moonbase"})
	require.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestRegistryContracts(t *testing.T) {
	r := newTestRegistry(t, map[string]map[string]string{
		"testnet": {"dex_router": "0x00000000000000000000000000000000000000aa"},
	})

	addr, err := r.ContractAddress("mainnet", "wbeam")
	require.NoError(t, err)
	require.Equal(t, "0xD51BFa777609213A653a2CD067c9A0132a2D316A", addr.Hex())

	addr, err = r.ContractAddress("testnet", ContractDEXRouter)
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0xaa"), addr)

	_, err = r.ContractAddress("testnet", "USDC")
	require.True(t, errors.Is(err, entity.ErrNotFound))

	book, err := r.Contracts("mainnet")
	require.NoError(t, err)
	delete(book, ContractWBEAM)
	_, err = r.ContractAddress("mainnet", ContractWBEAM)
	require.NoError(t, err, "returned book must be a copy")
}

func TestRegistryRejectsBadOverride(t *testing.T) {
	_, err := NewRegistry(map[string]map[string]string{"mainnet": {"DEX_ROUTER": "nope"}}, logger.NewSlogAdapter())
	require.Error(t, err)
}

func TestTokenRegistry(t *testing.T) {
	provider := staticTokenProvider{
		"mainnet": {
			{Name: "Merit Circle", Symbol: "MC", Decimals: 18, Address: "0x00000000000000000000000000000000000000Bb"},
			{Name: "Fake USDC", Symbol: "usdc", Decimals: 18, Address: "0x00000000000000000000000000000000000000cc"},
		},
	}
	r, err := NewTokenRegistry(provider, nil, logger.NewSlogAdapter())
	require.NoError(t, err)

	native, err := r.BySymbol("mainnet", "beam")
	require.NoError(t, err)
	require.True(t, native.IsNative)

	usdc, err := r.BySymbol("mainnet", "USDC")
	require.NoError(t, err)
	require.Equal(t, uint8(6), usdc.Decimals, "built-in definition wins")

	mc, err := r.ByAddress("mainnet", "0x00000000000000000000000000000000000000BB")
	require.NoError(t, err)
	require.Equal(t, "MC", mc.Symbol)

	_, err = r.BySymbol("testnet", "USDC")
	require.True(t, errors.Is(err, entity.ErrNotFound))

	tokens, err := r.Tokens("mainnet")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
}
