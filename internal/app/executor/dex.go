package executor

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/contracts"
	"beam_automation/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSlippageBps     = 50
	maxSlippageBps         = 5000
	defaultDeadlineMinutes = 20
)

func dexDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceDEX, OpGetQuote, NeedChain, dexGetQuote),
		describe(ResourceDEX, OpSwap, NeedChain|NeedSigner, dexSwap),
		describe(ResourceDEX, OpGetPair, NeedChain, dexGetPair),
		describe(ResourceDEX, OpGetTokenPrice, NeedPrices, dexGetTokenPrice),
	}
}

// swapRoute is a resolved tokenIn -> tokenOut path through the V2 router.
type swapRoute struct {
	router   common.Address
	tokenIn  entity.TokenInfo
	tokenOut entity.TokenInfo
	path     []common.Address
	amountIn *big.Int
}

func readSwapRoute(ctx context.Context, env *Env, p Params) (swapRoute, error) {
	var r swapRoute
	inRef, err := p.tokenRef("tokenIn")
	if err != nil {
		return r, err
	}
	outRef, err := p.tokenRef("tokenOut")
	if err != nil {
		return r, err
	}
	if _, err := p.String("amountIn"); err != nil {
		return r, err
	}
	if r.router, err = env.contractAddress(p, "routerAddress", "DEX_ROUTER"); err != nil {
		return r, err
	}
	if r.tokenIn, err = env.resolveToken(ctx, inRef); err != nil {
		return r, err
	}
	if r.tokenOut, err = env.resolveToken(ctx, outRef); err != nil {
		return r, err
	}
	if r.tokenIn.IsNative && r.tokenOut.IsNative {
		return r, invalid("tokenOut", "tokenIn and tokenOut must differ")
	}
	if r.amountIn, err = p.Amount("amountIn", r.tokenIn.Decimals); err != nil {
		return r, err
	}

	wrapped, err := wrappedNative(ctx, env, r.router, p)
	if err != nil {
		return r, err
	}
	in := pathAddress(r.tokenIn, wrapped)
	out := pathAddress(r.tokenOut, wrapped)
	if in == out {
		return r, invalid("tokenOut", "tokenIn and tokenOut must differ")
	}
	r.path = []common.Address{in, out}
	via, err := p.Bool("routeViaWbeam", false)
	if err != nil {
		return r, err
	}
	if via && in != wrapped && out != wrapped {
		r.path = []common.Address{in, wrapped, out}
	}
	return r, nil
}

func pathAddress(t entity.TokenInfo, wrapped common.Address) common.Address {
	if t.IsNative {
		return wrapped
	}
	return common.HexToAddress(t.Address)
}

// wrappedNative prefers the address book and falls back to router.WETH().
func wrappedNative(ctx context.Context, env *Env, router common.Address, p Params) (common.Address, error) {
	if addr, err := env.contractAddress(p, "wbeamAddress", "WBEAM"); err == nil {
		return addr, nil
	} else if p.Has("wbeamAddress") {
		return common.Address{}, err
	}
	return callAddress(ctx, env.Chain, router, contracts.UniswapV2Router(), "WETH")
}

func (r swapRoute) quote(ctx context.Context, env *Env) (*big.Int, error) {
	values, err := callView(ctx, env.Chain, r.router, contracts.UniswapV2Router(), "getAmountsOut", r.amountIn, r.path)
	if err != nil {
		return nil, err
	}
	amounts, ok := firstValue(values).([]*big.Int)
	if !ok || len(amounts) == 0 {
		return nil, entity.NewTransportError("rpc", errors.New("getAmountsOut returned no amounts"))
	}
	return amounts[len(amounts)-1], nil
}

func pathStrings(path []common.Address) []string {
	out := make([]string, len(path))
	for i, a := range path {
		out[i] = a.Hex()
	}
	return out
}

func slippageBps(p Params) (int64, error) {
	if !p.Has("slippage") {
		return defaultSlippageBps, nil
	}
	pct, err := p.Float64("slippage")
	if err != nil {
		return 0, err
	}
	bps := int64(pct*100 + 0.5)
	if bps < 0 || bps > maxSlippageBps {
		return 0, invalid("slippage", "must be between 0 and 50 percent")
	}
	return bps, nil
}

func minimumOut(amount *big.Int, bps int64) *big.Int {
	out := new(big.Int).Mul(amount, big.NewInt(10000-bps))
	return out.Quo(out, big.NewInt(10000))
}

func dexGetQuote(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	bps, err := slippageBps(p)
	if err != nil {
		return nil, err
	}
	r, err := readSwapRoute(ctx, env, p)
	if err != nil {
		return nil, err
	}
	amountOut, err := r.quote(ctx, env)
	if err != nil {
		return nil, err
	}
	minOut := minimumOut(amountOut, bps)
	out := entity.Fields{
		"tokenIn":          r.tokenIn.Symbol,
		"tokenOut":         r.tokenOut.Symbol,
		"amountIn":         formatUnits(r.amountIn, r.tokenIn.Decimals),
		"amountOut":        formatUnits(amountOut, r.tokenOut.Decimals),
		"amountOutRaw":     amountOut.String(),
		"minimumAmountOut": formatUnits(minOut, r.tokenOut.Decimals),
		"slippage":         utils.FormatPercentage(float64(bps)/100, 2),
		"path":             pathStrings(r.path),
		"router":           r.router.Hex(),
	}
	if price := executionPrice(r.amountIn, r.tokenIn.Decimals, amountOut, r.tokenOut.Decimals); price != "" {
		out["executionPrice"] = price
	}
	return out, nil
}

// executionPrice is amountOut per one unit of tokenIn, display precision.
func executionPrice(in *big.Int, inDec uint8, out *big.Int, outDec uint8) string {
	if in.Sign() == 0 {
		return ""
	}
	// scale to 18 fractional digits before dividing
	num := new(big.Int).Mul(out, utils.Pow10(int(inDec)+18))
	den := new(big.Int).Mul(in, utils.Pow10(int(outDec)))
	return utils.FormatForDisplay(num.Quo(num, den), 18, 8)
}

func dexSwap(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	bps, err := slippageBps(p)
	if err != nil {
		return nil, err
	}
	deadlineMin, err := p.Int64Or("deadlineMinutes", defaultDeadlineMinutes)
	if err != nil {
		return nil, err
	}
	if deadlineMin <= 0 {
		return nil, invalid("deadlineMinutes", "must be positive")
	}
	opts, err := readWriteOptions(p)
	if err != nil {
		return nil, err
	}
	from, err := env.SignerAddress()
	if err != nil {
		return nil, err
	}
	recipient := from
	if p.Has("recipient") {
		if recipient, err = p.Address("recipient"); err != nil {
			return nil, err
		}
	}
	r, err := readSwapRoute(ctx, env, p)
	if err != nil {
		return nil, err
	}

	if !r.tokenIn.IsNative {
		allowance, err := callBig(ctx, env.Chain, r.path[0], contracts.ERC20(), "allowance", from, r.router)
		if err != nil {
			return nil, err
		}
		if allowance.Cmp(r.amountIn) < 0 {
			return nil, entity.NewInvalidInputError("router %s may spend only %s %s, approve it first",
				r.router.Hex(), formatUnits(allowance, r.tokenIn.Decimals), r.tokenIn.Symbol)
		}
	}

	expected, err := r.quote(ctx, env)
	if err != nil {
		return nil, err
	}
	minOut := minimumOut(expected, bps)
	deadline := big.NewInt(env.now().Unix() + deadlineMin*60)

	router := contracts.UniswapV2Router()
	var req entity.TxRequest
	switch {
	case r.tokenIn.IsNative:
		req, err = packTx(r.router, router, r.amountIn, "swapExactETHForTokens", minOut, r.path, recipient, deadline)
	case r.tokenOut.IsNative:
		req, err = packTx(r.router, router, nil, "swapExactTokensForETH", r.amountIn, minOut, r.path, recipient, deadline)
	default:
		req, err = packTx(r.router, router, nil, "swapExactTokensForTokens", r.amountIn, minOut, r.path, recipient, deadline)
	}
	if err != nil {
		return nil, err
	}
	out, err := submit(ctx, env, req, opts)
	if err != nil {
		return nil, err
	}
	out["from"] = from.Hex()
	out["recipient"] = recipient.Hex()
	out["tokenIn"] = r.tokenIn.Symbol
	out["tokenOut"] = r.tokenOut.Symbol
	out["amountIn"] = formatUnits(r.amountIn, r.tokenIn.Decimals)
	out["expectedAmountOut"] = formatUnits(expected, r.tokenOut.Decimals)
	out["minimumAmountOut"] = formatUnits(minOut, r.tokenOut.Decimals)
	out["path"] = pathStrings(r.path)
	return out, nil
}

func dexGetPair(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	aRef, err := p.tokenRef("tokenA")
	if err != nil {
		return nil, err
	}
	bRef, err := p.tokenRef("tokenB")
	if err != nil {
		return nil, err
	}
	// Explicit addresses are checked before anything reaches the node.
	wrapped, wrappedErr := env.contractAddress(p, "wbeamAddress", "WBEAM")
	if wrappedErr != nil && p.Has("wbeamAddress") {
		return nil, wrappedErr
	}
	factory, err := env.contractAddress(p, "factoryAddress", "DEX_FACTORY")
	if err != nil {
		if p.Has("factoryAddress") {
			return nil, err
		}
		router, rerr := env.contractAddress(p, "routerAddress", "DEX_ROUTER")
		if rerr != nil {
			if p.Has("routerAddress") {
				return nil, rerr
			}
			return nil, err
		}
		if factory, err = callAddress(ctx, env.Chain, router, contracts.UniswapV2Router(), "factory"); err != nil {
			return nil, err
		}
	}
	tokenA, err := env.resolveToken(ctx, aRef)
	if err != nil {
		return nil, err
	}
	tokenB, err := env.resolveToken(ctx, bRef)
	if err != nil {
		return nil, err
	}
	if (tokenA.IsNative || tokenB.IsNative) && wrappedErr != nil {
		return nil, wrappedErr
	}
	a, b := pathAddress(tokenA, wrapped), pathAddress(tokenB, wrapped)

	pair, err := callAddress(ctx, env.Chain, factory, contracts.UniswapV2Factory(), "getPair", a, b)
	if err != nil {
		return nil, err
	}
	if pair == (common.Address{}) {
		return nil, entity.NewNotFoundError("no pair for %s/%s", tokenA.Symbol, tokenB.Symbol)
	}

	pairABI := contracts.UniswapV2Pair()
	var token0 common.Address
	var reserves []any
	var supply *big.Int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		token0, err = callAddress(gctx, env.Chain, pair, pairABI, "token0")
		return err
	})
	g.Go(func() (err error) {
		reserves, err = callView(gctx, env.Chain, pair, pairABI, "getReserves")
		return err
	})
	g.Go(func() (err error) {
		supply, err = callBig(gctx, env.Chain, pair, pairABI, "totalSupply")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(reserves) < 2 {
		return nil, entity.NewTransportError("rpc", errors.New("getReserves returned too few values"))
	}
	r0, _ := reserves[0].(*big.Int)
	r1, _ := reserves[1].(*big.Int)
	reserveA, reserveB := r0, r1
	if !strings.EqualFold(token0.Hex(), a.Hex()) {
		reserveA, reserveB = r1, r0
	}
	return entity.Fields{
		"pairAddress": pair.Hex(),
		"tokenA":      map[string]any{"symbol": tokenA.Symbol, "address": a.Hex(), "reserve": formatUnits(reserveA, tokenA.Decimals)},
		"tokenB":      map[string]any{"symbol": tokenB.Symbol, "address": b.Hex(), "reserve": formatUnits(reserveB, tokenB.Decimals)},
		"token0":      token0.Hex(),
		"totalSupply": formatUnits(supply, 18),
		"factory":     factory.Hex(),
	}, nil
}

func dexGetTokenPrice(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	ref, err := p.tokenRef("tokenAddress")
	if err != nil {
		return nil, err
	}
	address := ref.address.Hex()
	symbol := ref.raw
	if !ref.isAddr || ref.native {
		lookup := ref.raw
		if ref.native {
			lookup = "WBEAM"
		}
		if env.Tokens == nil {
			return nil, entity.NewNotFoundError("token %q is not registered", ref.raw)
		}
		t, err := env.Tokens.BySymbol(env.Network.Identifier, lookup)
		if err != nil {
			return nil, err
		}
		address, symbol = t.Address, t.Symbol
	}

	price, pair, err := env.Prices.GetPriceUSD(ctx, address)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(pair.Base.Address, address) {
		symbol = pair.Base.Symbol
	}
	out := entity.Fields{
		"tokenAddress":   address,
		"symbol":         symbol,
		"priceUsd":       price,
		"pairAddress":    pair.Address,
		"dex":            pair.DEX,
		"quoteToken":     pair.Quote.Symbol,
		"priceChange24h": pair.PriceChange.H24,
		"volume24h":      pair.Volume.H24,
		"liquidityUsd":   pair.LiquidityUSD(),
	}
	if pair.URL != "" {
		out["url"] = pair.URL
	}
	return out, nil
}
