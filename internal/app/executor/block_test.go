package executor

import (
	"errors"
	"math/big"
	"testing"

	"beam_automation/internal/domain/entity"
	definition "beam_automation/internal/infrastructure/network/definition"
	"beam_automation/internal/mocks"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testBlock(number int64, unix uint64) *types.Block {
	return types.NewBlockWithHeader(&types.Header{
		Number:   big.NewInt(number),
		Time:     unix,
		GasLimit: 30_000_000,
		GasUsed:  1_234_567,
		BaseFee:  big.NewInt(10_000_000_000),
	})
}

func TestBlockGetBlockNumber(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain
	chain.On("BlockNumber", mock.Anything).Return(uint64(4_200_000), nil)

	out, err := run(t, env, ResourceBlock, OpGetBlockNumber, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(4_200_000), out["blockNumber"])
	require.Equal(t, "mainnet", out["network"])
}

func TestBlockGetBlockByNumber(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain
	chain.On("BlockByNumber", mock.Anything, mock.MatchedBy(func(n *big.Int) bool { return n != nil && n.Int64() == 123 })).Return(testBlock(123, 1_700_000_000), nil)

	out, err := run(t, env, ResourceBlock, OpGetBlock, map[string]any{"blockNumber": "123", "includeTransactions": true})
	require.NoError(t, err)
	require.Equal(t, uint64(30_000_000), out["gasLimit"])
	require.Equal(t, "10000000000", out["baseFeePerGas"])
	require.Equal(t, "2023-11-14T22:13:20Z", out["blockTime"])
	require.Empty(t, out["transactions"])
}

func TestBlockGetBlockRejectsBadHash(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain

	_, err := run(t, env, ResourceBlock, OpGetBlock, map[string]any{"blockHash": "0x1234"})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
	chain.AssertNotCalled(t, "BlockByHash", mock.Anything, mock.Anything)
}

func TestBlockGetLatestBlockReportsAge(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain
	// env.Now is 2024-01-01T00:00:00Z
	latest := uint64(1_704_067_200 - 12)
	chain.On("BlockByNumber", mock.Anything, mock.MatchedBy(func(n *big.Int) bool { return n == nil })).Return(testBlock(9, latest), nil)

	out, err := run(t, env, ResourceBlock, OpGetLatestBlock, nil)
	require.NoError(t, err)
	require.Equal(t, int64(12), out["ageSeconds"])
}

func TestBlockGetFeeData(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain
	chain.On("FeeData", mock.Anything).Return(entity.FeeData{
		GasPrice:             big.NewInt(12_500_000_000),
		MaxPriorityFeePerGas: big.NewInt(1_000_000_000),
	}, nil)

	out, err := run(t, env, ResourceBlock, OpGetFeeData, nil)
	require.NoError(t, err)
	require.Equal(t, "12500000000", out["gasPrice"])
	require.Equal(t, "12.5", out["gasPriceGwei"])
	require.Equal(t, "1", out["maxPriorityFeePerGasGwei"])
	require.Nil(t, out["baseFeePerGas"])
}

func TestBlockTransportErrorsAreTagged(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain
	chain.On("BlockByHash", mock.Anything, common.HexToHash("0x01")).Return(nil, errors.New("connection refused"))

	_, err := run(t, env, ResourceBlock, OpGetBlock, map[string]any{"blockHash": common.HexToHash("0x01").Hex()})
	require.ErrorIs(t, err, entity.ErrTransport)
	require.Contains(t, err.Error(), "[rpc]")
}
