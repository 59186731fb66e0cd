package executor

import (
	"bytes"
	"math/big"
	"testing"

	"beam_automation/internal/domain/entity"
	definition "beam_automation/internal/infrastructure/network/definition"
	"beam_automation/internal/mocks"
	"beam_automation/internal/pkg/contracts"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	ownerAddress = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
	poolAddress  = "0x5fbdb2315678afecb367f032d93f642f64180aa3"
)

// callTo matches an eth_call by its method selector.
func callTo(parsed abi.ABI, method string) any {
	id := parsed.Methods[method].ID
	return mock.MatchedBy(func(msg ethereum.CallMsg) bool { return bytes.HasPrefix(msg.Data, id) })
}

func packed(t *testing.T, parsed abi.ABI, method string, values ...any) []byte {
	t.Helper()
	out, err := parsed.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)
	return out
}

func TestNFTGetOwner(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain
	erc721 := contracts.ERC721()
	owner := common.HexToAddress(ownerAddress)
	chain.On("CallContract", mock.Anything, callTo(erc721, "ownerOf")).
		Return(packed(t, erc721, "ownerOf", owner), nil)

	out, err := run(t, env, ResourceNFT, OpGetOwner, map[string]any{"contractAddress": heroesAddress, "tokenId": "7"})
	require.NoError(t, err)
	require.Equal(t, owner.Hex(), out["owner"])
	require.Equal(t, "7", out["tokenId"])
	require.Equal(t, definition.BeamMainnet.Identifier, out["network"])
}

func TestNFTGetOwnerRejectsERC1155(t *testing.T) {
	env := testEnv(t)
	env.Chain = mocks.NewChainClient(definition.BeamMainnet)

	_, err := run(t, env, ResourceNFT, OpGetOwner, map[string]any{
		"contractAddress": heroesAddress,
		"tokenId":         1,
		"standard":        "ERC1155",
	})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestNFTGetBalanceERC1155(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain
	erc1155 := contracts.ERC1155()
	chain.On("CallContract", mock.Anything, callTo(erc1155, "balanceOf")).
		Return(packed(t, erc1155, "balanceOf", big.NewInt(12)), nil)

	out, err := run(t, env, ResourceNFT, OpGetBalance, map[string]any{
		"contractAddress": heroesAddress,
		"owner":           ownerAddress,
		"standard":        "erc1155",
		"tokenId":         "3",
	})
	require.NoError(t, err)
	require.Equal(t, "12", out["balance"])
	require.Equal(t, "3", out["tokenId"])
	require.Equal(t, "erc1155", out["standard"])
}

func TestNFTGetBalanceNeedsOwnerWithoutSigner(t *testing.T) {
	env := testEnv(t)
	env.Chain = mocks.NewChainClient(definition.BeamMainnet)

	_, err := run(t, env, ResourceNFT, OpGetBalance, map[string]any{"contractAddress": heroesAddress})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestNFTIsApprovedForAll(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain
	erc721 := contracts.ERC721()
	chain.On("CallContract", mock.Anything, callTo(erc721, "isApprovedForAll")).
		Return(packed(t, erc721, "isApprovedForAll", true), nil)

	out, err := run(t, env, ResourceNFT, OpIsApprovedForAll, map[string]any{
		"contractAddress": heroesAddress,
		"owner":           ownerAddress,
		"operator":        poolAddress,
	})
	require.NoError(t, err)
	require.Equal(t, true, out["isApproved"])
	require.Equal(t, common.HexToAddress(poolAddress).Hex(), out["operator"])
}

func TestStakingGetStakeInfo(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain
	pool := contracts.TimeLockPool()
	oneAndHalf, _ := new(big.Int).SetString("1500000000000000000", 10)
	rewards, _ := new(big.Int).SetString("250000000000000000", 10)
	shares, _ := new(big.Int).SetString("1000000000000000000000", 10)

	chain.On("CallContract", mock.Anything, callTo(pool, "getTotalDeposit")).
		Return(packed(t, pool, "getTotalDeposit", oneAndHalf), nil)
	chain.On("CallContract", mock.Anything, callTo(pool, "getDepositsOfLength")).
		Return(packed(t, pool, "getDepositsOfLength", big.NewInt(3)), nil)
	chain.On("CallContract", mock.Anything, callTo(pool, "withdrawableRewardsOf")).
		Return(packed(t, pool, "withdrawableRewardsOf", rewards), nil)
	chain.On("CallContract", mock.Anything, callTo(pool, "totalSupply")).
		Return(packed(t, pool, "totalSupply", shares), nil)

	out, err := run(t, env, ResourceStaking, OpGetStakeInfo, map[string]any{
		"address":     ownerAddress,
		"poolAddress": poolAddress,
	})
	require.NoError(t, err)
	require.Equal(t, "1.5", out["totalStaked"])
	require.Equal(t, "1500000000000000000", out["totalStakedRaw"])
	require.Equal(t, "3", out["depositCount"])
	require.Equal(t, "0.25", out["pendingRewards"])
	require.Equal(t, "1000", out["poolTotalShares"])
	require.Equal(t, true, out["hasActiveDeposit"])
	chain.AssertNumberOfCalls(t, "CallContract", 4)
}

func TestMintingGetMintStatus(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain
	hash := common.HexToHash("0xabc1")
	collection := common.HexToAddress(heroesAddress)
	recipient := common.HexToAddress(ownerAddress)
	topic := contracts.TransferEventTopic()

	mint := func(id int64) *types.Log {
		return &types.Log{
			Address: collection,
			Topics: []common.Hash{
				topic,
				{},
				common.BytesToHash(recipient.Bytes()),
				common.BigToHash(big.NewInt(id)),
			},
		}
	}
	// A plain transfer between holders is not a mint.
	transfer := &types.Log{
		Address: collection,
		Topics: []common.Hash{
			topic,
			common.BytesToHash(recipient.Bytes()),
			common.BytesToHash(collection.Bytes()),
			common.BigToHash(big.NewInt(99)),
		},
	}
	chain.On("TransactionReceipt", mock.Anything, hash).Return(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		GasUsed:     120000,
		BlockNumber: big.NewInt(500),
		Logs:        []*types.Log{mint(4), transfer, mint(5)},
	}, nil)

	out, err := run(t, env, ResourceMinting, OpGetMintStatus, map[string]any{"transactionHash": hash.Hex()})
	require.NoError(t, err)
	require.Equal(t, entity.TxStatusSuccess, out["status"])
	require.Equal(t, []string{"4", "5"}, out["tokenIds"])
	require.Equal(t, 2, out["mintedCount"])
	require.Equal(t, collection.Hex(), out["contractAddress"])
}

func TestMintingGetMintStatusPending(t *testing.T) {
	env := testEnv(t)
	chain := mocks.NewChainClient(definition.BeamMainnet)
	env.Chain = chain
	hash := common.HexToHash("0xabc2")
	chain.On("TransactionReceipt", mock.Anything, hash).Return(nil, entity.ErrNotFound)

	out, err := run(t, env, ResourceMinting, OpGetMintStatus, map[string]any{"transactionHash": hash.Hex()})
	require.NoError(t, err)
	require.Equal(t, entity.TxStatusPending, out["status"])
	require.Empty(t, out["tokenIds"])
}
