package executor

import (
	"context"
	"math/big"
	"testing"
	"time"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/domain/market"
	definition "beam_automation/internal/infrastructure/network/definition"
	"beam_automation/internal/mocks"
	"beam_automation/internal/pkg/contracts"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestContractRead(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain

	target := common.HexToAddress("0x00000000000000000000000000000000000000cc")
	word := common.LeftPadBytes(big.NewInt(42).Bytes(), 32)
	chain.On("CallContract", mock.Anything, mock.MatchedBy(func(msg ethereum.CallMsg) bool {
		return msg.To != nil && *msg.To == target && len(msg.Data) == 36
	})).Return(word, nil)

	out, err := run(t, env, ResourceContract, OpRead, map[string]any{
		"contractAddress":   target.Hex(),
		"functionSignature": "function balanceOf(address owner) view returns (uint256 balance)",
		"args":              []any{testSignerAddress},
	})
	require.NoError(t, err)
	require.Equal(t, "42", out["result"])
	require.Equal(t, map[string]any{"balance": "42"}, out["outputs"])
	chain.AssertExpectations(t)
}

func TestContractEncodeFunctionFromABI(t *testing.T) {
	out, err := run(t, testEnv(t), ResourceContract, OpEncodeFunction, map[string]any{
		"abi":          contracts.ERC20ABI,
		"functionName": "approve",
		"args":         `["` + testSignerAddress + `", "1"]`,
	})
	require.NoError(t, err)
	require.Equal(t, "0x095ea7b3", out["selector"])
	require.Len(t, out["data"], 2+8+128)
}

func TestContractWriteRejectsValueOnNonPayable(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain
	env.Signer = testKey(t)

	_, err := run(t, env, ResourceContract, OpWrite, map[string]any{
		"contractAddress":   testSignerAddress,
		"functionSignature": "setValue(uint256)",
		"args":              []any{"1"},
		"value":             "1",
	})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
	chain.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionWaitForConfirmationTimeout(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain

	hash := common.HexToHash("0xabc")
	chain.On("WaitForReceipt", mock.Anything, hash, 5*time.Second).Return(nil, entity.NewTimeoutError("still pending"))

	out, err := run(t, env, ResourceTransaction, OpWaitForConfirmation, map[string]any{
		"transactionHash": hash.Hex(),
		"timeoutSeconds":  float64(5),
	})
	require.NoError(t, err)
	require.Equal(t, entity.TxStatusTimeout, out["status"])
	require.Equal(t, int64(5), out["timeoutSeconds"])
}

func TestTransactionGetReceipt(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain

	hash := common.HexToHash("0xdef")
	chain.On("TransactionReceipt", mock.Anything, hash).Return(&types.Receipt{
		Status:      types.ReceiptStatusFailed,
		TxHash:      hash,
		BlockNumber: big.NewInt(7),
		GasUsed:     50000,
	}, nil)

	out, err := run(t, env, ResourceTransaction, OpGetReceipt, map[string]any{"transactionHash": hash.Hex()})
	require.NoError(t, err)
	require.Equal(t, entity.TxStatusFailed, out["status"])
	require.Nil(t, out["contractAddress"])

	_, err = run(t, env, ResourceTransaction, OpGetReceipt, map[string]any{"transactionHash": "0x1234"})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestEventsGetTransferEventsDecodesERC721(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain

	contract := common.HexToAddress("0x00000000000000000000000000000000000000dd")
	to := common.HexToAddress(testSignerAddress)
	chain.On("FilterLogs", mock.Anything, mock.MatchedBy(func(q ethereum.FilterQuery) bool {
		return q.FromBlock.Int64() == 10 && q.ToBlock.Int64() == 20 && q.Topics[0][0] == contracts.TransferEventTopic()
	})).Return([]types.Log{{
		Address: contract,
		Topics: []common.Hash{
			contracts.TransferEventTopic(),
			{},
			common.BytesToHash(to.Bytes()),
			common.BigToHash(big.NewInt(77)),
		},
		BlockNumber: 15,
	}}, nil)

	out, err := run(t, env, ResourceEvents, OpGetTransferEvents, map[string]any{
		"contractAddress": contract.Hex(),
		"fromBlock":       float64(10),
		"toBlock":         float64(20),
	})
	require.NoError(t, err)
	transfers := out["transfers"].([]map[string]any)
	require.Len(t, transfers, 1)
	require.Equal(t, "77", transfers[0]["tokenId"])
	require.Equal(t, testSignerAddress, transfers[0]["to"])
	require.Equal(t, "0x0000000000000000000000000000000000000000", transfers[0]["from"])
}

func TestEventsRejectInvertedRange(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain

	_, err := run(t, env, ResourceEvents, OpGetLogs, map[string]any{
		"contractAddress": testSignerAddress,
		"fromBlock":       float64(20),
		"toBlock":         float64(10),
	})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
	chain.AssertNotCalled(t, "FilterLogs", mock.Anything, mock.Anything)
}

type fakePrices struct {
	price float64
	pair  market.Pair
	err   error
}

func (f fakePrices) GetPairs(_ context.Context, _ string) ([]market.Pair, error) {
	return []market.Pair{f.pair}, f.err
}

func (f fakePrices) GetPriceUSD(_ context.Context, _ string) (float64, market.Pair, error) {
	return f.price, f.pair, f.err
}

func TestDEXGetTokenPriceBySymbol(t *testing.T) {
	env := testEnv(t)
	env.Prices = fakePrices{price: 0.021, pair: market.Pair{
		DEX:       "beamswap",
		Base:      market.Token{Address: "0xD51BFa777609213A653a2CD067c9A0132a2D316A", Symbol: "WBEAM"},
		Quote:     market.Token{Symbol: "USDC"},
		Liquidity: &market.Liquidity{USD: 125000},
	}}

	out, err := run(t, env, ResourceDEX, OpGetTokenPrice, map[string]any{"tokenAddress": "BEAM"})
	require.NoError(t, err)
	require.Equal(t, 0.021, out["priceUsd"])
	require.Equal(t, "WBEAM", out["symbol"])
	require.Equal(t, 125000.0, out["liquidityUsd"])

	env.Prices = fakePrices{err: entity.NewNotFoundError("no pairs")}
	_, err = run(t, env, ResourceDEX, OpGetTokenPrice, map[string]any{"tokenAddress": "USDC"})
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestBridgeEstimateFeeRequiresRegisteredOFT(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain

	_, err := run(t, env, ResourceBridge, OpEstimateFee, map[string]any{
		"destinationChain": "ethereum",
		"amount":           "1",
		"toAddress":        testSignerAddress,
	})
	require.ErrorIs(t, err, entity.ErrNotFound)

	_, err = run(t, env, ResourceBridge, OpEstimateFee, map[string]any{
		"destinationChain": "sepolia",
		"amount":           "1",
		"toAddress":        testSignerAddress,
	})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
	chain.AssertNotCalled(t, "CallContract", mock.Anything, mock.Anything)
}

func TestMeritCircleConvert(t *testing.T) {
	out, err := run(t, testEnv(t), ResourceMeritCircle, OpConvertMcToBeam, map[string]any{"amount": "2.5"})
	require.NoError(t, err)
	require.Equal(t, "250", out["beamAmount"])
	require.Equal(t, "2.5", out["mcAmount"])
}

func TestDEXGetPairChecksAddressesBeforeCalling(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain

	for _, params := range []map[string]any{
		{"tokenA": "BEAM", "tokenB": "USDC", "wbeamAddress": "0x12"},
		{"tokenA": "BEAM", "tokenB": "USDC", "factoryAddress": "not-an-address"},
		{"tokenA": "BEAM", "tokenB": "USDC", "routerAddress": "0x99"},
	} {
		_, err := run(t, env, ResourceDEX, OpGetPair, params)
		require.ErrorIs(t, err, entity.ErrInvalidInput, params)
	}
	chain.AssertNotCalled(t, "CallContract", mock.Anything, mock.Anything)
}
