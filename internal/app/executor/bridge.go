package executor

import (
	"context"
	"errors"
	"math/big"
	"strconv"
	"strings"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/contracts"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

func bridgeDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceBridge, OpEstimateFee, NeedChain, bridgeEstimateFee),
		describe(ResourceBridge, OpBridgeTokens, NeedChain|NeedSigner, bridgeTokens),
		describe(ResourceBridge, OpGetSupportedChains, 0, bridgeGetSupportedChains),
		describe(ResourceBridge, OpGetBridgeStatus, NeedChain, bridgeGetBridgeStatus),
	}
}

// bridgeChain is a LayerZero v1 destination.
type bridgeChain struct {
	Key       string
	Name      string
	ChainID   uint64
	LZChainID uint16
	Testnet   bool
}

var bridgeChains = []bridgeChain{
	{Key: "ethereum", Name: "Ethereum", ChainID: 1, LZChainID: 101},
	{Key: "bsc", Name: "BNB Chain", ChainID: 56, LZChainID: 102},
	{Key: "avalanche", Name: "Avalanche C-Chain", ChainID: 43114, LZChainID: 106},
	{Key: "polygon", Name: "Polygon", ChainID: 137, LZChainID: 109},
	{Key: "arbitrum", Name: "Arbitrum One", ChainID: 42161, LZChainID: 110},
	{Key: "optimism", Name: "Optimism", ChainID: 10, LZChainID: 111},
	{Key: "beam", Name: "Beam", ChainID: 4337, LZChainID: 198},
	{Key: "sepolia", Name: "Sepolia", ChainID: 11155111, LZChainID: 10161, Testnet: true},
	{Key: "fuji", Name: "Avalanche Fuji", ChainID: 43113, LZChainID: 10106, Testnet: true},
	{Key: "beam-testnet", Name: "Beam Testnet", ChainID: 13337, LZChainID: 10178, Testnet: true},
}

// findBridgeChain accepts a chain key, an EVM chain id or a LayerZero id.
func findBridgeChain(s string) (bridgeChain, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	n, numErr := strconv.ParseUint(s, 10, 64)
	for _, c := range bridgeChains {
		if c.Key == s || strings.ToLower(c.Name) == s {
			return c, true
		}
		if numErr == nil && (c.ChainID == n || uint64(c.LZChainID) == n) {
			return c, true
		}
	}
	return bridgeChain{}, false
}

func bridgeScanURL(testnet bool, hash string) string {
	if testnet {
		return "https://testnet.layerzeroscan.com/tx/" + hash
	}
	return "https://layerzeroscan.com/tx/" + hash
}

type bridgeRequest struct {
	oft         common.Address
	dst         bridgeChain
	to          common.Address
	amount      *big.Int
	adapter     []byte
	nativeToken bool
}

func readBridgeRequest(env *Env, p Params, defaultTo func() (common.Address, error)) (bridgeRequest, error) {
	var r bridgeRequest
	raw, err := p.String("destinationChain")
	if err != nil {
		return r, err
	}
	dst, ok := findBridgeChain(raw)
	if !ok {
		return r, invalid("destinationChain", "unsupported chain %q", raw)
	}
	if dst.Testnet != env.Network.IsTestnet {
		return r, invalid("destinationChain", "%s cannot be reached from %s", dst.Name, env.Network.Name)
	}
	if dst.ChainID == env.Network.ChainID {
		return r, invalid("destinationChain", "source and destination are the same chain")
	}
	r.dst = dst
	if r.amount, err = p.Amount("amount", env.Network.NativeCurrency.Decimals); err != nil {
		return r, err
	}
	if p.Has("toAddress") {
		if r.to, err = p.Address("toAddress"); err != nil {
			return r, err
		}
	} else if r.to, err = defaultTo(); err != nil {
		return r, missing("toAddress")
	}
	if p.Has("adapterParams") {
		if r.adapter, err = hexutil.Decode(p.StringOr("adapterParams", "")); err != nil {
			return r, invalid("adapterParams", "expected 0x-prefixed hex")
		}
	} else {
		r.adapter = []byte{}
	}
	if r.nativeToken, err = p.Bool("nativeToken", true); err != nil {
		return r, err
	}
	if r.oft, err = env.contractAddress(p, "oftAddress", "BEAM_OFT"); err != nil {
		return r, err
	}
	return r, nil
}

func (r bridgeRequest) estimate(ctx context.Context, env *Env) (*big.Int, *big.Int, error) {
	values, err := callView(ctx, env.Chain, r.oft, contracts.OFT(), "estimateSendFee", r.dst.LZChainID, r.to.Bytes(), r.amount, false, r.adapter)
	if err != nil {
		return nil, nil, err
	}
	if len(values) < 2 {
		return nil, nil, entity.NewTransportError("rpc", errors.New("estimateSendFee returned too few values"))
	}
	nativeFee, _ := values[0].(*big.Int)
	zroFee, _ := values[1].(*big.Int)
	if nativeFee == nil {
		nativeFee = new(big.Int)
	}
	if zroFee == nil {
		zroFee = new(big.Int)
	}
	return nativeFee, zroFee, nil
}

func bridgeEstimateFee(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	r, err := readBridgeRequest(env, p, env.SignerAddress)
	if err != nil {
		return nil, err
	}
	nativeFee, zroFee, err := r.estimate(ctx, env)
	if err != nil {
		return nil, err
	}
	dec := env.Network.NativeCurrency.Decimals
	total := new(big.Int).Set(nativeFee)
	if r.nativeToken {
		total.Add(total, r.amount)
	}
	return entity.Fields{
		"destinationChain": r.dst.Name,
		"lzChainId":        r.dst.LZChainID,
		"amount":           formatUnits(r.amount, dec),
		"nativeFee":        formatUnits(nativeFee, dec),
		"nativeFeeWei":     nativeFee.String(),
		"zroFee":           zroFee.String(),
		"totalCost":        formatUnits(total, dec),
		"symbol":           env.Network.NativeCurrency.Symbol,
	}, nil
}

func bridgeTokens(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	r, err := readBridgeRequest(env, p, env.SignerAddress)
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
	nativeFee, _, err := r.estimate(ctx, env)
	if err != nil {
		return nil, err
	}
	value := new(big.Int).Set(nativeFee)
	if r.nativeToken {
		value.Add(value, r.amount)
	}
	req, err := packTx(r.oft, contracts.OFT(), value, "sendFrom", from, r.dst.LZChainID, r.to.Bytes(), r.amount, from, common.Address{}, r.adapter)
	if err != nil {
		return nil, err
	}
	out, err := submit(ctx, env, req, opts)
	if err != nil {
		return nil, err
	}
	dec := env.Network.NativeCurrency.Decimals
	out["from"] = from.Hex()
	out["toAddress"] = r.to.Hex()
	out["destinationChain"] = r.dst.Name
	out["lzChainId"] = r.dst.LZChainID
	out["amount"] = formatUnits(r.amount, dec)
	out["nativeFee"] = formatUnits(nativeFee, dec)
	out["bridgeExplorerUrl"] = bridgeScanURL(env.Network.IsTestnet, out["transactionHash"].(string))
	return out, nil
}

func bridgeGetSupportedChains(_ context.Context, env *Env, p Params) (entity.Fields, error) {
	all, err := p.Bool("includeAll", false)
	if err != nil {
		return nil, err
	}
	chains := make([]map[string]any, 0, len(bridgeChains))
	for _, c := range bridgeChains {
		if !all && (c.Testnet != env.Network.IsTestnet || c.ChainID == env.Network.ChainID) {
			continue
		}
		chains = append(chains, map[string]any{
			"key":       c.Key,
			"name":      c.Name,
			"chainId":   c.ChainID,
			"lzChainId": c.LZChainID,
			"isTestnet": c.Testnet,
		})
	}
	return entity.Fields{
		"sourceNetwork": env.Network.Identifier,
		"chains":        chains,
		"count":         len(chains),
	}, nil
}

// bridgeGetBridgeStatus reports the source-chain leg. Delivery on the
// destination is tracked by LayerZero Scan.
func bridgeGetBridgeStatus(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	hash, err := p.Hash("transactionHash")
	if err != nil {
		return nil, err
	}
	out := entity.Fields{
		"transactionHash":   hash.Hex(),
		"bridgeExplorerUrl": bridgeScanURL(env.Network.IsTestnet, hash.Hex()),
	}
	receipt, err := env.Chain.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			out["sourceStatus"] = entity.TxStatusPending
			out["status"] = entity.TxStatusPending
			return out, nil
		}
		return nil, entity.NewTransportError("rpc", err)
	}
	status := receiptStatus(receipt)
	out["sourceStatus"] = status
	out["blockNumber"] = normalize(receipt.BlockNumber)
	if status == entity.TxStatusSuccess {
		out["status"] = "inflight"
	} else {
		out["status"] = entity.TxStatusFailed
	}
	return out, nil
}
