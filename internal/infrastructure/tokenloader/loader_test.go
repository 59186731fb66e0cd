package tokenloader

import (
	"os"
	"path/filepath"
	"testing"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestGetTokensByNetwork(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "mainnet.json", `[
		{"name": "Merit Circle", "symbol": "MC", "decimals": 18, "address": "0x00000000000000000000000000000000000000bb"},
		{"name": "Merit Circle again", "symbol": "mc", "decimals": 18, "address": "0x00000000000000000000000000000000000000dd"},
		{"name": "Broken", "symbol": "BRK", "decimals": 18, "address": "not-an-address"},
		{"name": "Wide", "symbol": "WIDE", "decimals": 77, "address": "0x00000000000000000000000000000000000000ee"},
		{"name": "", "symbol": "", "decimals": 18, "address": "0x00000000000000000000000000000000000000cc"}
	]`)
	writeList(t, dir, "testnet.json", "{broken")

	loader := NewTokenLoader(dir, logger.NewSlogAdapter())
	tokens, err := loader.GetTokensByNetwork([]entity.NetworkDefinition{
		{Identifier: "mainnet"}, {Identifier: "testnet"}, {Identifier: "custom"},
	})
	require.NoError(t, err)
	require.Len(t, tokens["mainnet"], 1)
	require.Equal(t, "MC", tokens["mainnet"][0].Symbol)
	require.Equal(t, common.HexToAddress("0xbb").Hex(), tokens["mainnet"][0].Address)
	require.Empty(t, tokens["testnet"])
	require.Empty(t, tokens["custom"])
}

func TestGetTokensByNetworkReadsYAML(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "testnet.yaml", `
- name: Test Beam
  symbol: BEAM
  decimals: 18
  isNative: true
  address: "0x1234"
- name: Game Gold
  symbol: GOLD
  decimals: 6
  address: "0x00000000000000000000000000000000000000aa"
`)

	tokens, err := NewTokenLoader(dir, logger.NewSlogAdapter()).
		GetTokensByNetwork([]entity.NetworkDefinition{{Identifier: "testnet"}})
	require.NoError(t, err)
	require.Len(t, tokens["testnet"], 2)
	require.True(t, tokens["testnet"][0].IsNative)
	require.Equal(t, entity.ZeroAddress, tokens["testnet"][0].Address)
	require.Equal(t, uint8(6), tokens["testnet"][1].Decimals)
}

func TestGetTokensByNetworkMissingDirectory(t *testing.T) {
	loader := NewTokenLoader(filepath.Join(t.TempDir(), "absent"), logger.NewSlogAdapter())
	tokens, err := loader.GetTokensByNetwork([]entity.NetworkDefinition{{Identifier: "mainnet"}})
	require.NoError(t, err)
	require.Empty(t, tokens)
}

func TestGetTokensByNetworkRejectsFilePath(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "tokens", "[]")
	_, err := NewTokenLoader(filepath.Join(dir, "tokens"), logger.NewSlogAdapter()).
		GetTokensByNetwork([]entity.NetworkDefinition{{Identifier: "mainnet"}})
	require.Error(t, err)
}
