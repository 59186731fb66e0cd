package executor

import (
	"context"
	"math/big"

	"beam_automation/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

func contractDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceContract, OpRead, NeedChain, contractRead),
		describe(ResourceContract, OpWrite, NeedChain|NeedSigner, contractWrite),
		describe(ResourceContract, OpIsContract, NeedChain, contractIsContract),
		describe(ResourceContract, OpEncodeFunction, 0, contractEncodeFunction),
		describe(ResourceContract, OpEstimateGas, NeedChain, contractEstimateGas),
	}
}

// readMethod resolves the target function from either a JSON ABI plus
// functionName or a human readable functionSignature.
func readMethod(p Params) (abi.Method, error) {
	if p.Has("abi") {
		name, err := p.String("functionName")
		if err != nil {
			return abi.Method{}, err
		}
		raw, err := p.JSON("abi")
		if err != nil {
			return abi.Method{}, err
		}
		doc, err := json.Marshal(raw)
		if err != nil {
			return abi.Method{}, invalid("abi", "%v", err)
		}
		return methodFromABI(string(doc), name)
	}
	sig, err := p.String("functionSignature")
	if err != nil {
		return abi.Method{}, err
	}
	return parseFunctionSignature(sig)
}

func readArgs(p Params) ([]any, error) {
	if !p.Has("args") {
		return nil, nil
	}
	v, err := p.JSON("args")
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, invalid("args", "expected a JSON array")
	}
	return list, nil
}

// callData is the encoded call plus its target.
type callData struct {
	to     common.Address
	method abi.Method
	data   []byte
}

func readCallData(p Params, needTarget bool) (callData, error) {
	var c callData
	var err error
	if needTarget {
		if c.to, err = p.Address("contractAddress"); err != nil {
			return c, err
		}
	}
	if c.method, err = readMethod(p); err != nil {
		return c, err
	}
	args, err := readArgs(p)
	if err != nil {
		return c, err
	}
	if c.data, err = encodeCall(c.method, args); err != nil {
		return c, err
	}
	return c, nil
}

func optionalValue(env *Env, p Params) (*big.Int, error) {
	if !p.Has("value") {
		return nil, nil
	}
	return p.Amount("value", env.Network.NativeCurrency.Decimals)
}

func contractRead(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	c, err := readCallData(p, true)
	if err != nil {
		return nil, err
	}
	msg := ethereum.CallMsg{To: &c.to, Data: c.data}
	if from, ok, err := p.OptionalAddress("from"); err != nil {
		return nil, err
	} else if ok {
		msg.From = from
	}
	raw, err := env.Chain.CallContract(ctx, msg)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	out := entity.Fields{
		"contractAddress": c.to.Hex(),
		"function":        c.method.Sig,
		"rawResult":       hexutil.Encode(raw),
	}
	if len(c.method.Outputs) == 0 {
		out["result"] = nil
		return out, nil
	}
	values, err := c.method.Outputs.Unpack(raw)
	if err != nil {
		return nil, entity.NewInvalidInputError("result does not match the outputs of %s: %v", c.method.Sig, err)
	}
	if len(values) == 1 {
		out["result"] = normalize(values[0])
	} else {
		out["result"] = normalize(values)
	}
	out["outputs"] = namedOutputs(c.method, values)
	return out, nil
}

func contractWrite(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	c, err := readCallData(p, true)
	if err != nil {
		return nil, err
	}
	value, err := optionalValue(env, p)
	if err != nil {
		return nil, err
	}
	if value != nil && !c.method.Payable {
		return nil, invalid("value", "%s is not payable", c.method.Sig)
	}
	opts, err := readWriteOptions(p)
	if err != nil {
		return nil, err
	}
	out, err := submit(ctx, env, entity.TxRequest{To: &c.to, Value: value, Data: c.data}, opts)
	if err != nil {
		return nil, err
	}
	out["contractAddress"] = c.to.Hex()
	out["function"] = c.method.Sig
	return out, nil
}

func contractIsContract(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	addr, err := p.Address("address")
	if err != nil {
		return nil, err
	}
	code, err := env.Chain.CodeAt(ctx, addr)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	return entity.Fields{
		"address":    addr.Hex(),
		"isContract": len(code) > 0,
		"codeSize":   len(code),
	}, nil
}

func contractEncodeFunction(_ context.Context, _ *Env, p Params) (entity.Fields, error) {
	c, err := readCallData(p, false)
	if err != nil {
		return nil, err
	}
	return entity.Fields{
		"function": c.method.Sig,
		"selector": hexutil.Encode(c.method.ID),
		"data":     hexutil.Encode(c.data),
	}, nil
}

func contractEstimateGas(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	c, err := readCallData(p, true)
	if err != nil {
		return nil, err
	}
	value, err := optionalValue(env, p)
	if err != nil {
		return nil, err
	}
	from, err := env.addressOrSigner(p, "from")
	if err != nil && p.Has("from") {
		return nil, err
	}
	gas, err := env.Chain.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &c.to, Value: value, Data: c.data})
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	out := entity.Fields{
		"contractAddress": c.to.Hex(),
		"function":        c.method.Sig,
		"gasEstimate":     gas,
	}
	return withGasCost(ctx, env, out, gas)
}

// withGasCost adds the fee data and estimated cost for gas units.
func withGasCost(ctx context.Context, env *Env, out entity.Fields, gas uint64) (entity.Fields, error) {
	fees, err := env.Chain.FeeData(ctx)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	price := fees.GasPrice
	if fees.MaxFeePerGas != nil {
		price = fees.MaxFeePerGas
	}
	if price == nil {
		price = new(big.Int)
	}
	cost := new(big.Int).Mul(price, new(big.Int).SetUint64(gas))
	out["gasPrice"] = price.String()
	out["estimatedCost"] = formatUnits(cost, env.Network.NativeCurrency.Decimals)
	out["estimatedCostWei"] = cost.String()
	out["symbol"] = env.Network.NativeCurrency.Symbol
	return out, nil
}
