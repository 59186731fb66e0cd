package client

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"beam_automation/internal/app/port"
	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/contracts"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/sync/errgroup"
)

const rpcSource = "rpc"

// gasLimitBufferPercent is added on top of estimated gas for writes.
const gasLimitBufferPercent = 20

// EVMClient implements port.ChainClient over go-ethereum's ethclient.
type EVMClient struct {
	ethClient         *ethclient.Client
	netDef            entity.NetworkDefinition
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
	pollInterval      time.Duration

	mu       sync.Mutex
	verified bool
}

// NewEVMClient prepares a client for the network's RPC endpoint. HTTP
// endpoints are not contacted until the first call, which also checks that
// the node serves the expected chain.
func NewEVMClient(netDef entity.NetworkDefinition, connectionTimeout, rpcCallTimeout, pollInterval time.Duration) (*EVMClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	ethClient, err := ethclient.DialContext(ctx, netDef.RPCURL)
	if err != nil {
		return nil, entity.NewTransportError(rpcSource, fmt.Errorf("failed to connect to RPC %s: %w", netDef.RPCURL, err))
	}
	return &EVMClient{
		ethClient:         ethClient,
		netDef:            netDef,
		connectionTimeout: connectionTimeout,
		rpcCallTimeout:    rpcCallTimeout,
		pollInterval:      pollInterval,
	}, nil
}

// verifyChain runs eth_chainId once per client. Failures are not cached so a
// recovered endpoint is picked up by the next call.
func (c *EVMClient) verifyChain(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verified {
		return nil
	}
	if c.connectionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.connectionTimeout)
		defer cancel()
	}
	chainID, err := c.ethClient.ChainID(ctx)
	if err != nil {
		return entity.NewTransportError(rpcSource, fmt.Errorf("failed to read chain id from %s: %w", c.netDef.RPCURL, err))
	}
	if chainID.Uint64() != c.netDef.ChainID {
		return entity.NewInvalidInputError("rpc endpoint serves chain %d, expected %d", chainID.Uint64(), c.netDef.ChainID)
	}
	c.verified = true
	return nil
}

func (c *EVMClient) callContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := c.verifyChain(ctx); err != nil {
		return nil, nil, err
	}
	if c.rpcCallTimeout <= 0 {
		ctx, cancel := context.WithCancel(ctx)
		return ctx, cancel, nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	return ctx, cancel, nil
}

func rpcError(err error) error {
	if errors.Is(err, ethereum.NotFound) {
		return entity.NewNotFoundError("%v", err)
	}
	return entity.NewTransportError(rpcSource, err)
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}

func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()
	n, err := c.ethClient.BlockNumber(ctx)
	if err != nil {
		return 0, rpcError(err)
	}
	return n, nil
}

func (c *EVMClient) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	bal, err := c.ethClient.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, rpcError(err)
	}
	return bal, nil
}

func (c *EVMClient) NonceAt(ctx context.Context, account common.Address, pending bool) (uint64, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()
	var nonce uint64
	if pending {
		nonce, err = c.ethClient.PendingNonceAt(ctx, account)
	} else {
		nonce, err = c.ethClient.NonceAt(ctx, account, nil)
	}
	if err != nil {
		return 0, rpcError(err)
	}
	return nonce, nil
}

func (c *EVMClient) CodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	code, err := c.ethClient.CodeAt(ctx, account, nil)
	if err != nil {
		return nil, rpcError(err)
	}
	return code, nil
}

func (c *EVMClient) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	out, err := c.ethClient.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, rpcError(err)
	}
	return out, nil
}

func (c *EVMClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()
	gas, err := c.ethClient.EstimateGas(ctx, msg)
	if err != nil {
		return 0, rpcError(err)
	}
	return gas, nil
}

// FeeData reads gas price, tip and base fee concurrently. MaxFeePerGas follows
// the usual 2*baseFee + tip rule.
func (c *EVMClient) FeeData(ctx context.Context) (entity.FeeData, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return entity.FeeData{}, err
	}
	defer cancel()

	var (
		gasPrice *big.Int
		tip      *big.Int
		head     *types.Header
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		gasPrice, err = c.ethClient.SuggestGasPrice(gctx)
		return err
	})
	g.Go(func() (err error) {
		tip, err = c.ethClient.SuggestGasTipCap(gctx)
		return err
	})
	g.Go(func() (err error) {
		head, err = c.ethClient.HeaderByNumber(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.FeeData{}, rpcError(err)
	}

	fees := entity.FeeData{GasPrice: gasPrice, MaxPriorityFeePerGas: tip}
	if head != nil && head.BaseFee != nil {
		fees.BaseFee = head.BaseFee
		fees.MaxFeePerGas = new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(2)), tip)
	}
	return fees, nil
}

// SendTransaction fills in nonce, gas and EIP-1559 fees, signs with key and
// submits the transaction.
func (c *EVMClient) SendTransaction(ctx context.Context, key *ecdsa.PrivateKey, req entity.TxRequest) (common.Hash, error) {
	if key == nil {
		return common.Hash{}, entity.NewInvalidInputError("a private key is required to send transactions")
	}
	from := crypto.PubkeyToAddress(key.PublicKey)
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	var nonce uint64
	if req.Nonce != nil {
		nonce = *req.Nonce
	} else {
		n, err := c.NonceAt(ctx, from, true)
		if err != nil {
			return common.Hash{}, err
		}
		nonce = n
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		estimated, err := c.EstimateGas(ctx, ethereum.CallMsg{From: from, To: req.To, Value: value, Data: req.Data})
		if err != nil {
			return common.Hash{}, err
		}
		gasLimit = estimated + estimated*gasLimitBufferPercent/100
	}

	fees, err := c.FeeData(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	chainID := new(big.Int).SetUint64(c.netDef.ChainID)
	var tx *types.Transaction
	if fees.MaxFeePerGas != nil {
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: fees.MaxPriorityFeePerGas,
			GasFeeCap: fees.MaxFeePerGas,
			Gas:       gasLimit,
			To:        req.To,
			Value:     value,
			Data:      req.Data,
		})
	} else {
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: fees.GasPrice,
			Gas:      gasLimit,
			To:       req.To,
			Value:    value,
			Data:     req.Data,
		})
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sendCtx, cancel, err := c.callContext(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	defer cancel()
	if err := c.ethClient.SendTransaction(sendCtx, signed); err != nil {
		return common.Hash{}, rpcError(err)
	}
	return signed.Hash(), nil
}

// WaitForReceipt polls for the receipt until it appears or timeout elapses.
func (c *EVMClient) WaitForReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, entity.ErrNotFound) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, entity.NewTransportError(rpcSource, ctx.Err())
		case <-deadline.C:
			return nil, entity.NewTimeoutError("transaction %s not confirmed within %s", hash.Hex(), timeout)
		case <-ticker.C:
		}
	}
}

func (c *EVMClient) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, false, err
	}
	defer cancel()
	tx, pending, err := c.ethClient.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, false, entity.NewNotFoundError("transaction %s not found", hash.Hex())
		}
		return nil, false, rpcError(err)
	}
	return tx, pending, nil
}

func (c *EVMClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	receipt, err := c.ethClient.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, entity.NewNotFoundError("receipt for %s not found", hash.Hex())
		}
		return nil, rpcError(err)
	}
	return receipt, nil
}

func (c *EVMClient) BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	block, err := c.ethClient.BlockByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, entity.NewNotFoundError("block %v not found", number)
		}
		return nil, rpcError(err)
	}
	return block, nil
}

func (c *EVMClient) BlockByHash(ctx context.Context, hash common.Hash) (*types.Block, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	block, err := c.ethClient.BlockByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, entity.NewNotFoundError("block %s not found", hash.Hex())
		}
		return nil, rpcError(err)
	}
	return block, nil
}

func (c *EVMClient) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	logs, err := c.ethClient.FilterLogs(ctx, q)
	if err != nil {
		return nil, rpcError(err)
	}
	return logs, nil
}

// BatchBalances reads native and ERC-20 balances in one JSON-RPC batch.
// Failures of single elements land on the reading; only a failed batch call
// returns an error.
func (c *EVMClient) BatchBalances(ctx context.Context, queries []entity.BalanceQuery) ([]entity.BalanceReading, error) {
	readings := make([]entity.BalanceReading, len(queries))
	if len(queries) == 0 {
		return readings, nil
	}

	erc20 := contracts.ERC20()
	elems := make([]rpc.BatchElem, len(queries))
	for i, q := range queries {
		readings[i].BalanceQuery = q
		if q.IsNative() {
			elems[i] = rpc.BatchElem{
				Method: "eth_getBalance",
				Args:   []any{q.Account, "latest"},
				Result: new(hexutil.Big),
			}
			continue
		}
		data, err := erc20.Pack("balanceOf", q.Account)
		if err != nil {
			return nil, fmt.Errorf("failed to pack balanceOf: %w", err)
		}
		elems[i] = rpc.BatchElem{
			Method: "eth_call",
			Args:   []any{map[string]any{"to": *q.Token, "data": hexutil.Bytes(data)}, "latest"},
			Result: new(hexutil.Bytes),
		}
	}

	ctx, cancel, err := c.callContext(ctx)
	if err != nil {
		return readings, err
	}
	defer cancel()
	if err := c.ethClient.Client().BatchCallContext(ctx, elems); err != nil {
		return readings, entity.NewTransportError(rpcSource, fmt.Errorf("RPC batch call failed: %w", err))
	}

	for i, elem := range elems {
		r := &readings[i]
		if elem.Error != nil {
			r.Err = entity.NewTransportError(rpcSource, fmt.Errorf("failed to read %s balance of %s: %w", r.Symbol, r.Account.Hex(), elem.Error))
			continue
		}
		if r.IsNative() {
			r.Balance = (*big.Int)(elem.Result.(*hexutil.Big))
		} else {
			r.Balance, r.Err = decodeBalanceOf(erc20, *elem.Result.(*hexutil.Bytes), r.Symbol)
		}
		if r.Err == nil && r.Balance == nil {
			r.Balance = new(big.Int)
		}
	}
	return readings, nil
}

// decodeBalanceOf treats an empty return as zero; some tokens revert silently
// for unknown holders.
func decodeBalanceOf(erc20 abi.ABI, raw []byte, symbol string) (*big.Int, error) {
	if len(raw) == 0 {
		return new(big.Int), nil
	}
	values, err := erc20.Unpack("balanceOf", raw)
	if err != nil || len(values) == 0 {
		return nil, entity.NewTransportError(rpcSource, fmt.Errorf("failed to decode balanceOf for %s: %v", symbol, err))
	}
	bal, ok := values[0].(*big.Int)
	if !ok {
		return nil, entity.NewTransportError(rpcSource, fmt.Errorf("unexpected balanceOf result %T for %s", values[0], symbol))
	}
	return bal, nil
}

var _ port.ChainClient = (*EVMClient)(nil)
