package executor

import (
	"context"
	"math/big"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/contracts"

	"github.com/ethereum/go-ethereum/common"
)

func walletDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceWallet, OpGetBalance, NeedChain, walletGetBalance),
		describe(ResourceWallet, OpGetTokenBalance, NeedChain, walletGetTokenBalance),
		describe(ResourceWallet, OpGetAllBalances, NeedChain, walletGetAllBalances),
		describe(ResourceWallet, OpGetBalances, NeedChain, walletGetBalances),
		describe(ResourceWallet, OpTransfer, NeedChain|NeedSigner, walletTransfer),
		describe(ResourceWallet, OpTransferToken, NeedChain|NeedSigner, walletTransferToken),
		describe(ResourceWallet, OpGetNonce, NeedChain, walletGetNonce),
		describe(ResourceWallet, OpGetAddress, NeedSigner, walletGetAddress),
	}
}

func walletGetBalance(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	addr, err := env.addressOrSigner(p, "address")
	if err != nil {
		return nil, err
	}
	bal, err := env.Chain.BalanceAt(ctx, addr)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	native := env.Network.NativeCurrency
	return entity.Fields{
		"address":    addr.Hex(),
		"balance":    formatUnits(bal, native.Decimals),
		"balanceWei": bal.String(),
		"symbol":     native.Symbol,
		"decimals":   native.Decimals,
		"network":    env.Network.Identifier,
	}, nil
}

func walletGetTokenBalance(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	ref, err := p.tokenRef("tokenAddress")
	if err != nil {
		return nil, err
	}
	addr, err := env.addressOrSigner(p, "address")
	if err != nil {
		return nil, err
	}
	token, err := env.resolveToken(ctx, ref)
	if err != nil {
		return nil, err
	}

	var bal *big.Int
	if token.IsNative {
		bal, err = env.Chain.BalanceAt(ctx, addr)
		if err != nil {
			return nil, entity.NewTransportError("rpc", err)
		}
	} else {
		bal, err = callBig(ctx, env.Chain, common.HexToAddress(token.Address), contracts.ERC20(), "balanceOf", addr)
		if err != nil {
			return nil, err
		}
	}
	return entity.Fields{
		"address":      addr.Hex(),
		"tokenAddress": token.Address,
		"symbol":       token.Symbol,
		"name":         token.Name,
		"decimals":     token.Decimals,
		"balance":      formatUnits(bal, token.Decimals),
		"balanceRaw":   bal.String(),
		"network":      env.Network.Identifier,
	}, nil
}

// walletGetAllBalances reads the native balance and every registry token in
// one JSON-RPC batch.
func walletGetAllBalances(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	addr, err := env.addressOrSigner(p, "address")
	if err != nil {
		return nil, err
	}
	includeZero, err := p.Bool("includeZero", false)
	if err != nil {
		return nil, err
	}

	var tokens []entity.TokenInfo
	if env.Tokens != nil {
		tokens, err = env.Tokens.Tokens(env.Network.Identifier)
		if err != nil {
			return nil, err
		}
	}
	queries := []entity.BalanceQuery{nativeQuery(env, addr)}
	for _, t := range tokens {
		if t.IsNative {
			continue
		}
		token := common.HexToAddress(t.Address)
		queries = append(queries, entity.BalanceQuery{Account: addr, Token: &token, Symbol: t.Symbol, Decimals: t.Decimals})
	}

	readings, err := env.Chain.BatchBalances(ctx, queries)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	balances := make([]map[string]any, 0, len(readings))
	for _, r := range readings {
		if r.Err != nil {
			env.logger().Warn("Balance read failed", "token", r.Symbol, "error", r.Err)
			continue
		}
		if !includeZero && !r.IsNative() && (r.Balance == nil || r.Balance.Sign() == 0) {
			continue
		}
		balances = append(balances, balanceEntry(r))
	}
	return entity.Fields{
		"address":  addr.Hex(),
		"network":  env.Network.Identifier,
		"balances": balances,
		"count":    len(balances),
	}, nil
}

// walletGetBalances reads the native balance of several addresses at once.
func walletGetBalances(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	addrs, err := p.Addresses("addresses")
	if err != nil {
		return nil, err
	}
	queries := make([]entity.BalanceQuery, len(addrs))
	for i, a := range addrs {
		queries[i] = nativeQuery(env, a)
	}
	readings, err := env.Chain.BatchBalances(ctx, queries)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}

	total := new(big.Int)
	balances := make([]map[string]any, 0, len(readings))
	for _, r := range readings {
		entry := balanceEntry(r)
		if r.Err != nil {
			entry["error"] = r.Err.Error()
		} else if r.Balance != nil {
			total.Add(total, r.Balance)
		}
		balances = append(balances, entry)
	}
	native := env.Network.NativeCurrency
	return entity.Fields{
		"network":      env.Network.Identifier,
		"balances":     balances,
		"count":        len(balances),
		"totalBalance": formatUnits(total, native.Decimals),
		"symbol":       native.Symbol,
	}, nil
}

func nativeQuery(env *Env, addr common.Address) entity.BalanceQuery {
	native := env.Network.NativeCurrency
	return entity.BalanceQuery{Account: addr, Symbol: native.Symbol, Decimals: native.Decimals}
}

func balanceEntry(r entity.BalanceReading) map[string]any {
	raw := "0"
	if r.Balance != nil {
		raw = r.Balance.String()
	}
	return map[string]any{
		"address":      r.Account.Hex(),
		"tokenAddress": r.TokenHex(),
		"symbol":       r.Symbol,
		"decimals":     r.Decimals,
		"isNative":     r.IsNative(),
		"balance":      formatUnits(r.Balance, r.Decimals),
		"balanceRaw":   raw,
	}
}

func walletTransfer(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	to, err := p.Address("to")
	if err != nil {
		return nil, err
	}
	native := env.Network.NativeCurrency
	amount, err := p.Amount("amount", native.Decimals)
	if err != nil {
		return nil, err
	}
	opts, err := readWriteOptions(p)
	if err != nil {
		return nil, err
	}
	from, err := env.SignerAddress()
	if err != nil {
		return nil, err
	}

	out, err := submit(ctx, env, entity.TxRequest{To: &to, Value: amount}, opts)
	if err != nil {
		return nil, err
	}
	out["from"] = from.Hex()
	out["to"] = to.Hex()
	out["amount"] = formatUnits(amount, native.Decimals)
	out["amountWei"] = amount.String()
	out["symbol"] = native.Symbol
	return out, nil
}

func walletTransferToken(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	ref, err := p.tokenRef("tokenAddress")
	if err != nil {
		return nil, err
	}
	to, err := p.Address("to")
	if err != nil {
		return nil, err
	}
	if _, err := p.String("amount"); err != nil {
		return nil, err
	}
	opts, err := readWriteOptions(p)
	if err != nil {
		return nil, err
	}
	if ref.native {
		return walletTransfer(ctx, env, p)
	}
	token, err := env.resolveToken(ctx, ref)
	if err != nil {
		return nil, err
	}
	amount, err := p.Amount("amount", token.Decimals)
	if err != nil {
		return nil, err
	}
	from, err := env.SignerAddress()
	if err != nil {
		return nil, err
	}

	req, err := packTx(common.HexToAddress(token.Address), contracts.ERC20(), nil, "transfer", to, amount)
	if err != nil {
		return nil, err
	}
	out, err := submit(ctx, env, req, opts)
	if err != nil {
		return nil, err
	}
	out["from"] = from.Hex()
	out["to"] = to.Hex()
	out["tokenAddress"] = token.Address
	out["symbol"] = token.Symbol
	out["amount"] = formatUnits(amount, token.Decimals)
	out["amountRaw"] = amount.String()
	return out, nil
}

func walletGetNonce(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	addr, err := env.addressOrSigner(p, "address")
	if err != nil {
		return nil, err
	}
	pending, err := p.Bool("pending", true)
	if err != nil {
		return nil, err
	}
	nonce, err := env.Chain.NonceAt(ctx, addr, pending)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	return entity.Fields{
		"address": addr.Hex(),
		"nonce":   nonce,
		"pending": pending,
		"network": env.Network.Identifier,
	}, nil
}

func walletGetAddress(_ context.Context, env *Env, _ Params) (entity.Fields, error) {
	addr, err := env.SignerAddress()
	if err != nil {
		return nil, err
	}
	out := entity.Fields{
		"address": addr.Hex(),
		"network": env.Network.Identifier,
	}
	if u := env.Network.AddressURL(addr.Hex()); u != "" {
		out["explorerUrl"] = u
	}
	return out, nil
}
