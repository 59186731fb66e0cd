package executor

import (
	"context"
	"crypto/ecdsa"
	"testing"
	"time"

	"beam_automation/internal/domain/entity"
	definition "beam_automation/internal/infrastructure/network/definition"
	"beam_automation/internal/pkg/logger"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// Well-known development key; never funded on Beam.
const testKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

const testSignerAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

func testKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.HexToECDSA(testKeyHex)
	require.NoError(t, err)
	return key
}

func mapParams(values map[string]any) Params {
	return NewParams(func(name string, _ int) (any, bool) {
		v, ok := values[name]
		return v, ok
	}, 0)
}

func testEnv(t *testing.T) *Env {
	t.Helper()
	networks, err := definition.NewRegistry(nil, logger.NewSlogAdapter())
	require.NoError(t, err)
	tokens, err := definition.NewTokenRegistry(nil, []entity.NetworkDefinition{definition.BeamMainnet}, nil)
	require.NoError(t, err)
	return &Env{
		Network:        definition.BeamMainnet,
		Networks:       networks,
		Tokens:         tokens,
		ConfirmTimeout: time.Minute,
		Now:            func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func run(t *testing.T, env *Env, r Resource, op Operation, params map[string]any) (entity.Fields, error) {
	t.Helper()
	d, err := Lookup(string(r), string(op))
	require.NoError(t, err)
	return d.Run(context.Background(), env, mapParams(params))
}

func TestCatalogueCoversEveryDeclaredOperation(t *testing.T) {
	cat := Catalogue()
	declared := 0
	for _, r := range Resources() {
		for _, op := range Operations(r) {
			declared++
			d, ok := cat[OperationKey{Resource: r, Operation: op}]
			require.True(t, ok, "missing descriptor for %s.%s", r, op)
			require.NotNil(t, d.Run)
		}
	}
	require.Equal(t, declared, len(cat), "catalogue has descriptors that are not declared")
	require.Len(t, Resources(), 17)
}

func TestLookupUnknownOperation(t *testing.T) {
	_, err := Lookup("wallet", "mine")
	require.ErrorIs(t, err, entity.ErrUnsupportedOperation)

	_, err = Lookup("spaceship", "getBalance")
	require.ErrorIs(t, err, entity.ErrUnsupportedOperation)
}

func TestKeysAreSorted(t *testing.T) {
	keys := Keys()
	require.NotEmpty(t, keys)
	for i := 1; i < len(keys); i++ {
		prev, cur := keys[i-1], keys[i]
		require.True(t, prev.Resource < cur.Resource || (prev.Resource == cur.Resource && prev.Operation < cur.Operation))
	}
}

func TestWritesDeclareSigner(t *testing.T) {
	writes := []OperationKey{
		{ResourceWallet, OpTransfer},
		{ResourceWallet, OpTransferToken},
		{ResourceNFT, OpTransfer},
		{ResourceDEX, OpSwap},
		{ResourceBridge, OpBridgeTokens},
		{ResourceStaking, OpStake},
		{ResourceContract, OpWrite},
		{ResourceMinting, OpMintNFT},
	}
	for _, k := range writes {
		d := Catalogue()[k]
		require.True(t, d.Needs.Has(NeedChain|NeedSigner), k.String())
	}
}
