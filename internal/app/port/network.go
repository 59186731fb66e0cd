package port

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"beam_automation/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ChainClient is the RPC transport executors talk to. Implementations are
// read-only from the executor's perspective.
type ChainClient interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	// BatchBalances reads many balances in a single JSON-RPC batch.
	BatchBalances(ctx context.Context, queries []entity.BalanceQuery) ([]entity.BalanceReading, error)
	NonceAt(ctx context.Context, account common.Address, pending bool) (uint64, error)
	CodeAt(ctx context.Context, account common.Address) ([]byte, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	FeeData(ctx context.Context) (entity.FeeData, error)

	// SendTransaction fills nonce, gas and fees, signs with key and submits.
	// It returns as soon as the node accepts the transaction.
	SendTransaction(ctx context.Context, key *ecdsa.PrivateKey, req entity.TxRequest) (common.Hash, error)
	// WaitForReceipt polls until the transaction is mined or timeout elapses,
	// in which case it returns an entity.ErrTimeout error.
	WaitForReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*types.Receipt, error)

	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)
	BlockByHash(ctx context.Context, hash common.Hash) (*types.Block, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)

	// Definition returns the network definition associated with this client.
	Definition() entity.NetworkDefinition
}

// ChainClientProvider hands out (cached) clients per network.
type ChainClientProvider interface {
	GetClient(networkDefinition entity.NetworkDefinition) (ChainClient, error)
}

// NetworkRegistry resolves network definitions and their address books.
type NetworkRegistry interface {
	// Network returns the definition for "mainnet" or "testnet".
	Network(identifier string) (entity.NetworkDefinition, error)
	// Resolve builds the definition for a set of chain credentials, including
	// "custom" networks.
	Resolve(creds entity.ChainCredentials) (entity.NetworkDefinition, error)
	// ContractAddress resolves a logical contract name ("DEX_ROUTER") on a network.
	ContractAddress(network, name string) (common.Address, error)
	Contracts(network string) (map[string]common.Address, error)
}
