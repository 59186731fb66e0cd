package executor

import (
	"context"
	"math/big"
	"sort"
	"strings"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

func utilityDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceUtility, OpConvertUnits, 0, utilityConvertUnits),
		describe(ResourceUtility, OpValidateAddress, 0, utilityValidateAddress),
		describe(ResourceUtility, OpFormatAddress, 0, utilityFormatAddress),
		describe(ResourceUtility, OpFormatDuration, 0, utilityFormatDuration),
		describe(ResourceUtility, OpHashMessage, 0, utilityHashMessage),
		describe(ResourceUtility, OpResolveTokenURI, 0, utilityResolveTokenURI),
		describe(ResourceUtility, OpCalculateGasCost, NeedChain, utilityCalculateGasCost),
		describe(ResourceUtility, OpGetNetworkInfo, 0, utilityGetNetworkInfo),
		describe(ResourceUtility, OpGetContractAddress, 0, utilityGetContractAddress),
		describe(ResourceUtility, OpGetTokenInfo, NeedChain, utilityGetTokenInfo),
	}
}

// unitDecimals maps named units to their decimal exponent.
var unitDecimals = map[string]uint8{
	"wei":   0,
	"kwei":  3,
	"mwei":  6,
	"gwei":  9,
	"szabo": 12,
	"ether": 18,
	"beam":  18,
}

func readUnit(p Params, name, def string) (uint8, string, error) {
	s := strings.ToLower(p.StringOr(name, def))
	if d, ok := unitDecimals[s]; ok {
		return d, s, nil
	}
	n, err := p.Int64(name)
	if err != nil || n < 0 || n > 77 {
		return 0, "", invalid(name, "expected a unit name or a decimal count between 0 and 77")
	}
	return uint8(n), s, nil
}

// utilityConvertUnits converts exactly between any two scales.
func utilityConvertUnits(_ context.Context, _ *Env, p Params) (entity.Fields, error) {
	value, err := p.String("value")
	if err != nil {
		return nil, err
	}
	fromDec, fromName, err := readUnit(p, "fromUnit", "beam")
	if err != nil {
		return nil, err
	}
	toDec, toName, err := readUnit(p, "toUnit", "wei")
	if err != nil {
		return nil, err
	}
	base, err := utils.DecimalToBaseUnits(value, fromDec)
	if err != nil {
		return nil, err
	}
	converted := utils.FormatBigInt(base, toDec)
	return entity.Fields{
		"value":    value,
		"fromUnit": fromName,
		"toUnit":   toName,
		"result":   converted,
		"wei":      base.String(),
	}, nil
}

// utilityValidateAddress never fails on a bad address; it reports valid=false.
func utilityValidateAddress(_ context.Context, _ *Env, p Params) (entity.Fields, error) {
	s, err := p.String("address")
	if err != nil {
		return nil, err
	}
	addr, verr := utils.ValidateAddress(s)
	if verr != nil {
		return entity.Fields{"address": s, "isValid": false, "reason": verr.Error()}, nil
	}
	body := s[2:]
	checksumOK := addr.Hex() == s || strings.ToLower(body) == body || strings.ToUpper(body) == body
	return entity.Fields{
		"address":         s,
		"isValid":         true,
		"checksumAddress": addr.Hex(),
		"isChecksumValid": checksumOK,
		"isZeroAddress":   addr == (common.Address{}),
	}, nil
}

func utilityFormatAddress(_ context.Context, _ *Env, p Params) (entity.Fields, error) {
	addr, err := p.Address("address")
	if err != nil {
		return nil, err
	}
	keep, err := p.Int64Or("chars", 4)
	if err != nil {
		return nil, err
	}
	if keep < 1 || keep > 20 {
		return nil, invalid("chars", "must be between 1 and 20")
	}
	return entity.Fields{
		"address":   addr.Hex(),
		"formatted": utils.TruncateAddress(addr.Hex(), int(keep)),
		"lowercase": strings.ToLower(addr.Hex()),
	}, nil
}

func utilityFormatDuration(_ context.Context, _ *Env, p Params) (entity.Fields, error) {
	secs, err := p.Int64("seconds")
	if err != nil {
		return nil, err
	}
	if secs < 0 {
		return nil, invalid("seconds", "must not be negative")
	}
	return entity.Fields{
		"seconds":   secs,
		"formatted": utils.FormatDuration(secs),
	}, nil
}

func utilityHashMessage(_ context.Context, _ *Env, p Params) (entity.Fields, error) {
	msg, err := p.String("message")
	if err != nil {
		return nil, err
	}
	mode, err := p.Enum("hashType", "eip191", "eip191", "keccak256")
	if err != nil {
		return nil, err
	}
	payload := []byte(msg)
	if isHex, _ := p.Bool("isHex", false); isHex {
		if payload, err = hexutil.Decode(msg); err != nil {
			return nil, invalid("message", "expected 0x-prefixed hex")
		}
	}
	var hash []byte
	if mode == "eip191" {
		hash = accounts.TextHash(payload)
	} else {
		hash = crypto.Keccak256(payload)
	}
	return entity.Fields{
		"hash":     hexutil.Encode(hash),
		"hashType": mode,
		"length":   len(payload),
	}, nil
}

func utilityResolveTokenURI(_ context.Context, env *Env, p Params) (entity.Fields, error) {
	uri, err := p.String("uri")
	if err != nil {
		return nil, err
	}
	if p.Has("tokenId") {
		id, err := p.BigInt("tokenId")
		if err != nil {
			return nil, err
		}
		uri = utils.SubstituteTokenID(uri, id.Text(16))
	}
	resolved, err := utils.ResolveTokenURI(uri, p.StringOr("gateway", env.IPFSGateway))
	if err != nil {
		return nil, err
	}
	scheme := "https"
	if i := strings.Index(uri, ":"); i > 0 {
		scheme = strings.ToLower(uri[:i])
	} else if strings.HasPrefix(uri, "/ipfs/") {
		scheme = "ipfs"
	}
	return entity.Fields{
		"uri":         uri,
		"resolvedUri": resolved,
		"scheme":      scheme,
	}, nil
}

// utilityCalculateGasCost uses gasPriceGwei when supplied, otherwise the
// node's current fee data.
func utilityCalculateGasCost(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	gas, err := p.Int64("gasLimit")
	if err != nil {
		return nil, err
	}
	if gas <= 0 {
		return nil, invalid("gasLimit", "must be greater than zero")
	}
	if !p.Has("gasPriceGwei") {
		return withGasCost(ctx, env, entity.Fields{"gasLimit": gas}, uint64(gas))
	}
	priceStr, _ := p.String("gasPriceGwei")
	price, err := utils.DecimalToBaseUnits(priceStr, 9)
	if err != nil {
		return nil, err
	}
	cost := new(big.Int).Mul(price, big.NewInt(gas))
	return entity.Fields{
		"gasLimit":         gas,
		"gasPrice":         price.String(),
		"estimatedCost":    formatUnits(cost, env.Network.NativeCurrency.Decimals),
		"estimatedCostWei": cost.String(),
		"symbol":           env.Network.NativeCurrency.Symbol,
	}, nil
}

func utilityGetNetworkInfo(_ context.Context, env *Env, p Params) (entity.Fields, error) {
	def := env.Network
	if p.Has("network") {
		if env.Networks == nil {
			return nil, entity.NewNotFoundError("no network registry configured")
		}
		var err error
		if def, err = env.Networks.Network(p.StringOr("network", "")); err != nil {
			return nil, err
		}
	}
	out := entity.Fields{
		"network":        def.Identifier,
		"name":           def.Name,
		"chainId":        def.ChainID,
		"rpcUrl":         def.RPCURL,
		"explorerUrl":    def.ExplorerURL,
		"nativeCurrency": def.NativeCurrency,
		"isTestnet":      def.IsTestnet,
	}
	if env.Networks != nil {
		if book, err := env.Networks.Contracts(def.Identifier); err == nil {
			names := make([]string, 0, len(book))
			for name := range book {
				names = append(names, name)
			}
			sort.Strings(names)
			out["contracts"] = names
		}
	}
	return out, nil
}

func utilityGetContractAddress(_ context.Context, env *Env, p Params) (entity.Fields, error) {
	name, err := p.String("contractName")
	if err != nil {
		return nil, err
	}
	if env.Networks == nil {
		return nil, entity.NewNotFoundError("no network registry configured")
	}
	network := p.StringOr("network", env.Network.Identifier)
	addr, err := env.Networks.ContractAddress(network, name)
	if err != nil {
		return nil, err
	}
	out := entity.Fields{
		"contractName": strings.ToUpper(name),
		"address":      addr.Hex(),
		"network":      network,
	}
	if network == env.Network.Identifier {
		if u := env.Network.AddressURL(addr.Hex()); u != "" {
			out["explorerUrl"] = u
		}
	}
	return out, nil
}

func utilityGetTokenInfo(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	ref, err := p.tokenRef("token")
	if err != nil {
		return nil, err
	}
	info, err := env.resolveToken(ctx, ref)
	if err != nil {
		return nil, err
	}
	return entity.Fields{
		"name":     info.Name,
		"symbol":   info.Symbol,
		"decimals": info.Decimals,
		"address":  info.Address,
		"isNative": info.IsNative,
		"network":  env.Network.Identifier,
	}, nil
}
