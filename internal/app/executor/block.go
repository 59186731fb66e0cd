package executor

import (
	"context"
	"math/big"
	"strings"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/core/types"
)

func blockDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceBlock, OpGetBlockNumber, NeedChain, blockGetBlockNumber),
		describe(ResourceBlock, OpGetBlock, NeedChain, blockGetBlock),
		describe(ResourceBlock, OpGetLatestBlock, NeedChain, blockGetLatestBlock),
		describe(ResourceBlock, OpGetFeeData, NeedChain, blockGetFeeData),
	}
}

func blockGetBlockNumber(ctx context.Context, env *Env, _ Params) (entity.Fields, error) {
	n, err := env.Chain.BlockNumber(ctx)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	return entity.Fields{
		"blockNumber": utils.JSONUint(n),
		"network":     env.Network.Identifier,
	}, nil
}

// blockGetBlock accepts blockHash, or blockNumber as a number or "latest".
func blockGetBlock(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	includeTxs, err := p.Bool("includeTransactions", false)
	if err != nil {
		return nil, err
	}
	var block *types.Block
	switch {
	case p.Has("blockHash"):
		hash, err := p.Hash("blockHash")
		if err != nil {
			return nil, err
		}
		if block, err = env.Chain.BlockByHash(ctx, hash); err != nil {
			return nil, entity.NewTransportError("rpc", err)
		}
	default:
		var number *big.Int
		if s := p.StringOr("blockNumber", "latest"); !strings.EqualFold(s, "latest") {
			if number, err = p.BigInt("blockNumber"); err != nil {
				return nil, err
			}
		}
		if block, err = env.Chain.BlockByNumber(ctx, number); err != nil {
			return nil, entity.NewTransportError("rpc", err)
		}
	}
	return blockFields(block, includeTxs), nil
}

func blockGetLatestBlock(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	includeTxs, err := p.Bool("includeTransactions", false)
	if err != nil {
		return nil, err
	}
	block, err := env.Chain.BlockByNumber(ctx, nil)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	out := blockFields(block, includeTxs)
	out["ageSeconds"] = env.now().Unix() - int64(block.Time())
	return out, nil
}

func blockGetFeeData(ctx context.Context, env *Env, _ Params) (entity.Fields, error) {
	fees, err := env.Chain.FeeData(ctx)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	out := entity.Fields{"network": env.Network.Identifier}
	put := func(key string, v *big.Int) {
		if v == nil {
			out[key] = nil
			return
		}
		out[key] = v.String()
		out[key+"Gwei"] = utils.FormatBigInt(v, 9)
	}
	put("gasPrice", fees.GasPrice)
	put("maxFeePerGas", fees.MaxFeePerGas)
	put("maxPriorityFeePerGas", fees.MaxPriorityFeePerGas)
	put("baseFeePerGas", fees.BaseFee)
	return out, nil
}
