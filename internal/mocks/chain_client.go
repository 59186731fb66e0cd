package mocks

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"beam_automation/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

type ChainClient struct {
	mock.Mock
	netDef entity.NetworkDefinition
}

func NewChainClient(netDef entity.NetworkDefinition) *ChainClient {
	return &ChainClient{netDef: netDef}
}

func (c *ChainClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

func (c *ChainClient) BlockNumber(arg1 context.Context) (uint64, error) {
	args := c.Called(arg1)

	if args.Get(0) == nil {
		return 0, args.Error(1)
	}
	return args.Get(0).(uint64), args.Error(1)
}

func (c *ChainClient) BalanceAt(arg1 context.Context, arg2 common.Address) (*big.Int, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (c *ChainClient) BatchBalances(arg1 context.Context, arg2 []entity.BalanceQuery) ([]entity.BalanceReading, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.BalanceReading), args.Error(1)
}

func (c *ChainClient) NonceAt(arg1 context.Context, arg2 common.Address, arg3 bool) (uint64, error) {
	args := c.Called(arg1, arg2, arg3)

	if args.Get(0) == nil {
		return 0, args.Error(1)
	}
	return args.Get(0).(uint64), args.Error(1)
}

func (c *ChainClient) CodeAt(arg1 context.Context, arg2 common.Address) ([]byte, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (c *ChainClient) CallContract(arg1 context.Context, arg2 ethereum.CallMsg) ([]byte, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (c *ChainClient) EstimateGas(arg1 context.Context, arg2 ethereum.CallMsg) (uint64, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return 0, args.Error(1)
	}
	return args.Get(0).(uint64), args.Error(1)
}

func (c *ChainClient) FeeData(arg1 context.Context) (entity.FeeData, error) {
	args := c.Called(arg1)

	if args.Get(0) == nil {
		return entity.FeeData{}, args.Error(1)
	}
	return args.Get(0).(entity.FeeData), args.Error(1)
}

func (c *ChainClient) SendTransaction(arg1 context.Context, arg2 *ecdsa.PrivateKey, arg3 entity.TxRequest) (common.Hash, error) {
	args := c.Called(arg1, arg2, arg3)

	if args.Get(0) == nil {
		return common.Hash{}, args.Error(1)
	}
	return args.Get(0).(common.Hash), args.Error(1)
}

func (c *ChainClient) WaitForReceipt(arg1 context.Context, arg2 common.Hash, arg3 time.Duration) (*ethtypes.Receipt, error) {
	args := c.Called(arg1, arg2, arg3)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethtypes.Receipt), args.Error(1)
}

func (c *ChainClient) TransactionByHash(arg1 context.Context, arg2 common.Hash) (*ethtypes.Transaction, bool, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*ethtypes.Transaction), args.Bool(1), args.Error(2)
}

func (c *ChainClient) TransactionReceipt(arg1 context.Context, arg2 common.Hash) (*ethtypes.Receipt, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethtypes.Receipt), args.Error(1)
}

func (c *ChainClient) BlockByNumber(arg1 context.Context, arg2 *big.Int) (*ethtypes.Block, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethtypes.Block), args.Error(1)
}

func (c *ChainClient) BlockByHash(arg1 context.Context, arg2 common.Hash) (*ethtypes.Block, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethtypes.Block), args.Error(1)
}

func (c *ChainClient) FilterLogs(arg1 context.Context, arg2 ethereum.FilterQuery) ([]ethtypes.Log, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ethtypes.Log), args.Error(1)
}
