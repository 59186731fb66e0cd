package executor

import (
	"context"
	"errors"
	"math/big"
	"time"

	"beam_automation/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const maxConfirmTimeoutSeconds = 600

func transactionDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceTransaction, OpGetTransaction, NeedChain, transactionGet),
		describe(ResourceTransaction, OpGetReceipt, NeedChain, transactionGetReceipt),
		describe(ResourceTransaction, OpWaitForConfirmation, NeedChain, transactionWaitForConfirmation),
		describe(ResourceTransaction, OpEstimateGas, NeedChain, transactionEstimateGas),
	}
}

func transactionGet(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	hash, err := p.Hash("transactionHash")
	if err != nil {
		return nil, err
	}
	tx, pending, err := env.Chain.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	out := txFields(tx, pending, new(big.Int).SetUint64(env.Network.ChainID))
	if u := env.Network.TxURL(hash.Hex()); u != "" {
		out["explorerUrl"] = u
	}
	return out, nil
}

func transactionGetReceipt(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	hash, err := p.Hash("transactionHash")
	if err != nil {
		return nil, err
	}
	receipt, err := env.Chain.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	return receiptFields(receipt), nil
}

// transactionWaitForConfirmation reports status "timeout" when the receipt
// does not arrive in time.
func transactionWaitForConfirmation(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	hash, err := p.Hash("transactionHash")
	if err != nil {
		return nil, err
	}
	timeout := env.confirmTimeout()
	if p.Has("timeoutSeconds") {
		secs, err := p.Int64("timeoutSeconds")
		if err != nil {
			return nil, err
		}
		if secs <= 0 || secs > maxConfirmTimeoutSeconds {
			return nil, invalid("timeoutSeconds", "must be between 1 and %d", maxConfirmTimeoutSeconds)
		}
		timeout = time.Duration(secs) * time.Second
	}

	start := env.now()
	receipt, err := env.Chain.WaitForReceipt(ctx, hash, timeout)
	if err != nil {
		if errors.Is(err, entity.ErrTimeout) {
			return entity.Fields{
				"transactionHash": hash.Hex(),
				"status":          entity.TxStatusTimeout,
				"timeoutSeconds":  int64(timeout / time.Second),
			}, nil
		}
		return nil, entity.NewTransportError("rpc", err)
	}
	out := receiptFields(receipt)
	out["waitedSeconds"] = int64(env.now().Sub(start) / time.Second)
	return out, nil
}

func transactionEstimateGas(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	to, err := p.Address("to")
	if err != nil {
		return nil, err
	}
	value, err := optionalValue(env, p)
	if err != nil {
		return nil, err
	}
	var data []byte
	if p.Has("data") {
		if data, err = hexutil.Decode(p.StringOr("data", "")); err != nil {
			return nil, invalid("data", "expected 0x-prefixed hex")
		}
	}
	from, err := env.addressOrSigner(p, "from")
	if err != nil && p.Has("from") {
		return nil, err
	}
	gas, err := env.Chain.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Value: value, Data: data})
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	out := entity.Fields{
		"to":          to.Hex(),
		"gasEstimate": gas,
	}
	return withGasCost(ctx, env, out, gas)
}
