package executor

import (
	"context"
	"errors"
	"math/big"
	"time"

	"beam_automation/internal/app/port"
	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/contracts"
	"beam_automation/internal/pkg/utils"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/errgroup"
)

// writeOptions are the knobs shared by every state-changing operation.
type writeOptions struct {
	wait     bool
	gasLimit uint64
}

func readWriteOptions(p Params) (writeOptions, error) {
	wait, err := p.Bool("waitForConfirmation", false)
	if err != nil {
		return writeOptions{}, err
	}
	gas, err := p.Int64Or("gasLimit", 0)
	if err != nil {
		return writeOptions{}, err
	}
	if gas < 0 {
		return writeOptions{}, invalid("gasLimit", "must not be negative")
	}
	return writeOptions{wait: wait, gasLimit: uint64(gas)}, nil
}

// submit signs and sends req, optionally waiting for the receipt. A receipt
// wait that runs out of time is reported as status "timeout", not an error.
func submit(ctx context.Context, env *Env, req entity.TxRequest, opts writeOptions) (entity.Fields, error) {
	if env.Signer == nil {
		return nil, entity.NewInvalidInputError("chain credentials do not include a private key")
	}
	if req.GasLimit == 0 {
		req.GasLimit = opts.gasLimit
	}
	hash, err := env.Chain.SendTransaction(ctx, env.Signer, req)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}

	out := entity.Fields{
		"transactionHash": hash.Hex(),
		"status":          entity.TxStatusSubmitted,
		"network":         env.Network.Identifier,
	}
	if u := env.Network.TxURL(hash.Hex()); u != "" {
		out["explorerUrl"] = u
	}
	if !opts.wait {
		return out, nil
	}

	receipt, err := env.Chain.WaitForReceipt(ctx, hash, env.confirmTimeout())
	if err != nil {
		if errors.Is(err, entity.ErrTimeout) {
			out["status"] = entity.TxStatusTimeout
			return out, nil
		}
		return nil, entity.NewTransportError("rpc", err)
	}
	for k, v := range receiptSummary(receipt) {
		out[k] = v
	}
	return out, nil
}

func receiptStatus(r *types.Receipt) string {
	if r.Status == types.ReceiptStatusSuccessful {
		return entity.TxStatusSuccess
	}
	return entity.TxStatusFailed
}

func receiptSummary(r *types.Receipt) entity.Fields {
	out := entity.Fields{
		"status":  receiptStatus(r),
		"gasUsed": utils.JSONUint(r.GasUsed),
	}
	if r.BlockNumber != nil {
		out["blockNumber"] = normalize(r.BlockNumber)
	}
	if r.EffectiveGasPrice != nil {
		out["effectiveGasPrice"] = r.EffectiveGasPrice.String()
	}
	if r.ContractAddress != (common.Address{}) {
		out["contractAddress"] = r.ContractAddress.Hex()
	}
	return out
}

// callView packs method args, runs eth_call against to and unpacks the result.
func callView(ctx context.Context, chain port.ChainClient, to common.Address, parsed abi.ABI, method string, args ...any) ([]any, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, entity.NewInvalidInputError("failed to encode %s: %v", method, err)
	}
	raw, err := chain.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data})
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	values, err := parsed.Unpack(method, raw)
	if err != nil {
		return nil, entity.NewTransportError("rpc", errors.New("failed to decode "+method+" result: "+err.Error()))
	}
	return values, nil
}

// callBig reads a single uint256 return value.
func callBig(ctx context.Context, chain port.ChainClient, to common.Address, parsed abi.ABI, method string, args ...any) (*big.Int, error) {
	values, err := callView(ctx, chain, to, parsed, method, args...)
	if err != nil {
		return nil, err
	}
	n, ok := firstValue(values).(*big.Int)
	if !ok || n == nil {
		return nil, entity.NewTransportError("rpc", errors.New(method+" returned an unexpected value"))
	}
	return n, nil
}

func callAddress(ctx context.Context, chain port.ChainClient, to common.Address, parsed abi.ABI, method string, args ...any) (common.Address, error) {
	values, err := callView(ctx, chain, to, parsed, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := firstValue(values).(common.Address)
	if !ok {
		return common.Address{}, entity.NewTransportError("rpc", errors.New(method+" returned an unexpected value"))
	}
	return addr, nil
}

func firstValue(values []any) any {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// packTx encodes a contract call into a transaction request.
func packTx(to common.Address, parsed abi.ABI, value *big.Int, method string, args ...any) (entity.TxRequest, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return entity.TxRequest{}, entity.NewInvalidInputError("failed to encode %s: %v", method, err)
	}
	return entity.TxRequest{To: &to, Value: value, Data: data}, nil
}

// readERC20Info reads name, symbol and decimals concurrently.
func readERC20Info(ctx context.Context, chain port.ChainClient, token common.Address) (entity.TokenInfo, error) {
	if chain == nil {
		return entity.TokenInfo{}, entity.NewNotFoundError("token %s is not registered", token.Hex())
	}
	erc20 := contracts.ERC20()
	info := entity.TokenInfo{Address: token.Hex()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := callView(gctx, chain, token, erc20, "name")
		if err != nil {
			return err
		}
		info.Name, _ = firstValue(v).(string)
		return nil
	})
	var symbol string
	g.Go(func() error {
		v, err := callView(gctx, chain, token, erc20, "symbol")
		if err != nil {
			return err
		}
		symbol, _ = firstValue(v).(string)
		return nil
	})
	var decimals uint8
	g.Go(func() error {
		v, err := callView(gctx, chain, token, erc20, "decimals")
		if err != nil {
			return err
		}
		decimals, _ = firstValue(v).(uint8)
		return nil
	})
	if err := g.Wait(); err != nil {
		return entity.TokenInfo{}, err
	}
	info.Symbol = symbol
	info.Decimals = decimals
	return info, nil
}

func txFields(tx *types.Transaction, pending bool, chainID *big.Int) entity.Fields {
	out := entity.Fields{
		"hash":     tx.Hash().Hex(),
		"nonce":    utils.JSONUint(tx.Nonce()),
		"value":    tx.Value().String(),
		"gas":      utils.JSONUint(tx.Gas()),
		"type":     int(tx.Type()),
		"input":    hexutil.Encode(tx.Data()),
		"pending":  pending,
		"gasPrice": tx.GasPrice().String(),
	}
	if to := tx.To(); to != nil {
		out["to"] = to.Hex()
	} else {
		out["to"] = nil
	}
	if tx.Type() == types.DynamicFeeTxType {
		out["maxFeePerGas"] = tx.GasFeeCap().String()
		out["maxPriorityFeePerGas"] = tx.GasTipCap().String()
	}
	if chainID != nil && chainID.Sign() > 0 {
		if from, err := types.Sender(types.LatestSignerForChainID(chainID), tx); err == nil {
			out["from"] = from.Hex()
		}
	}
	return out
}

func receiptFields(r *types.Receipt) entity.Fields {
	out := receiptSummary(r)
	out["transactionHash"] = r.TxHash.Hex()
	out["blockHash"] = r.BlockHash.Hex()
	out["transactionIndex"] = r.TransactionIndex
	out["cumulativeGasUsed"] = utils.JSONUint(r.CumulativeGasUsed)
	out["logsCount"] = len(r.Logs)
	if r.ContractAddress == (common.Address{}) {
		out["contractAddress"] = nil
	}
	return out
}

func blockFields(b *types.Block, includeTxs bool) entity.Fields {
	out := entity.Fields{
		"number":           normalize(b.Number()),
		"hash":             b.Hash().Hex(),
		"parentHash":       b.ParentHash().Hex(),
		"timestamp":        utils.JSONUint(b.Time()),
		"gasLimit":         utils.JSONUint(b.GasLimit()),
		"gasUsed":          utils.JSONUint(b.GasUsed()),
		"miner":            b.Coinbase().Hex(),
		"transactionCount": len(b.Transactions()),
	}
	if b.BaseFee() != nil {
		out["baseFeePerGas"] = b.BaseFee().String()
	}
	out["blockTime"] = time.Unix(int64(b.Time()), 0).UTC().Format(time.RFC3339)
	if includeTxs {
		hashes := make([]string, 0, len(b.Transactions()))
		for _, tx := range b.Transactions() {
			hashes = append(hashes, tx.Hash().Hex())
		}
		out["transactions"] = hashes
	}
	return out
}

func logFields(l types.Log) map[string]any {
	topics := make([]string, len(l.Topics))
	for i, t := range l.Topics {
		topics[i] = t.Hex()
	}
	return map[string]any{
		"address":         l.Address.Hex(),
		"topics":          topics,
		"data":            hexutil.Encode(l.Data),
		"blockNumber":     utils.JSONUint(l.BlockNumber),
		"transactionHash": l.TxHash.Hex(),
		"logIndex":        l.Index,
		"removed":         l.Removed,
	}
}

// blockRange reads fromBlock/toBlock. Missing bounds default to the last
// defaultSpan blocks ending at latest.
func blockRange(ctx context.Context, chain port.ChainClient, p Params, defaultSpan uint64) (*big.Int, *big.Int, error) {
	from, hasFrom, err := optionalBlock(p, "fromBlock")
	if err != nil {
		return nil, nil, err
	}
	to, hasTo, err := optionalBlock(p, "toBlock")
	if err != nil {
		return nil, nil, err
	}
	if hasFrom && hasTo && from != nil && to != nil && from.Cmp(to) > 0 {
		return nil, nil, invalid("fromBlock", "must not be greater than toBlock")
	}
	if hasFrom {
		return from, to, nil
	}
	latest, err := chain.BlockNumber(ctx)
	if err != nil {
		return nil, nil, entity.NewTransportError("rpc", err)
	}
	start := uint64(0)
	if latest > defaultSpan {
		start = latest - defaultSpan
	}
	return new(big.Int).SetUint64(start), to, nil
}

// optionalBlock accepts a block number or "latest" (nil).
func optionalBlock(p Params, name string) (*big.Int, bool, error) {
	if !p.Has(name) {
		return nil, false, nil
	}
	if s := p.StringOr(name, ""); s == "latest" {
		return nil, true, nil
	}
	n, err := p.BigInt(name)
	if err != nil {
		return nil, false, err
	}
	return n, true, nil
}

func formatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	return utils.FormatBigInt(amount, decimals)
}
