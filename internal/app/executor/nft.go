package executor

import (
	"context"
	"fmt"
	"math/big"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/contracts"
	"beam_automation/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
)

const (
	standardERC721  = "erc721"
	standardERC1155 = "erc1155"
)

func nftDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceNFT, OpGetOwner, NeedChain, nftGetOwner),
		describe(ResourceNFT, OpGetMetadata, NeedChain|NeedMetadata, nftGetMetadata),
		describe(ResourceNFT, OpGetBalance, NeedChain, nftGetBalance),
		describe(ResourceNFT, OpTransfer, NeedChain|NeedSigner, nftTransfer),
		describe(ResourceNFT, OpApprove, NeedChain|NeedSigner, nftApprove),
		describe(ResourceNFT, OpSetApprovalForAll, NeedChain|NeedSigner, nftSetApprovalForAll),
		describe(ResourceNFT, OpIsApprovedForAll, NeedChain, nftIsApprovedForAll),
	}
}

// nftTarget is the (contract, tokenId) pair most NFT operations take.
type nftTarget struct {
	contract common.Address
	tokenID  *big.Int
	standard string
}

func readNFTTarget(p Params, needTokenID bool) (nftTarget, error) {
	var t nftTarget
	var err error
	if t.contract, err = p.Address("contractAddress"); err != nil {
		return t, err
	}
	if t.standard, err = p.Enum("standard", standardERC721, standardERC721, standardERC1155); err != nil {
		return t, err
	}
	if needTokenID {
		if t.tokenID, err = p.BigInt("tokenId"); err != nil {
			return t, err
		}
	}
	return t, nil
}

func nftGetOwner(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	t, err := readNFTTarget(p, true)
	if err != nil {
		return nil, err
	}
	if t.standard == standardERC1155 {
		return nil, invalid("standard", "ERC-1155 tokens have no single owner, use getBalance")
	}
	owner, err := callAddress(ctx, env.Chain, t.contract, contracts.ERC721(), "ownerOf", t.tokenID)
	if err != nil {
		return nil, err
	}
	return entity.Fields{
		"contractAddress": t.contract.Hex(),
		"tokenId":         t.tokenID.String(),
		"owner":           owner.Hex(),
		"network":         env.Network.Identifier,
	}, nil
}

func nftGetMetadata(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	t, err := readNFTTarget(p, true)
	if err != nil {
		return nil, err
	}
	uri, err := tokenURI(ctx, env, t)
	if err != nil {
		return nil, err
	}
	out := entity.Fields{
		"contractAddress": t.contract.Hex(),
		"tokenId":         t.tokenID.String(),
		"standard":        t.standard,
		"tokenUri":        uri,
	}
	if uri == "" {
		out["metadata"] = nil
		return out, nil
	}
	resolved, err := utils.ResolveTokenURI(uri, env.IPFSGateway)
	if err != nil {
		return nil, entity.NewInvalidInputError("token %s has an unusable URI: %v", t.tokenID, err)
	}
	out["resolvedUri"] = resolved
	meta, err := env.Metadata.FetchJSON(ctx, uri)
	if err != nil {
		return nil, err
	}
	out["metadata"] = meta
	for _, k := range []string{"name", "description", "image", "attributes"} {
		if v, ok := meta[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// tokenURI reads tokenURI (ERC-721) or uri (ERC-1155, with {id} substituted).
func tokenURI(ctx context.Context, env *Env, t nftTarget) (string, error) {
	if t.standard == standardERC1155 {
		v, err := callView(ctx, env.Chain, t.contract, contracts.ERC1155(), "uri", t.tokenID)
		if err != nil {
			return "", err
		}
		s, _ := firstValue(v).(string)
		return utils.SubstituteTokenID(s, fmt.Sprintf("%064x", t.tokenID)), nil
	}
	v, err := callView(ctx, env.Chain, t.contract, contracts.ERC721(), "tokenURI", t.tokenID)
	if err != nil {
		return "", err
	}
	s, _ := firstValue(v).(string)
	return s, nil
}

func nftGetBalance(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	t, err := readNFTTarget(p, false)
	if err != nil {
		return nil, err
	}
	owner, err := env.addressOrSigner(p, "owner")
	if err != nil {
		return nil, err
	}
	out := entity.Fields{
		"contractAddress": t.contract.Hex(),
		"owner":           owner.Hex(),
		"standard":        t.standard,
	}
	var bal *big.Int
	if t.standard == standardERC1155 {
		id, err := p.BigInt("tokenId")
		if err != nil {
			return nil, err
		}
		bal, err = callBig(ctx, env.Chain, t.contract, contracts.ERC1155(), "balanceOf", owner, id)
		if err != nil {
			return nil, err
		}
		out["tokenId"] = id.String()
	} else {
		bal, err = callBig(ctx, env.Chain, t.contract, contracts.ERC721(), "balanceOf", owner)
		if err != nil {
			return nil, err
		}
	}
	out["balance"] = bal.String()
	return out, nil
}

func nftTransfer(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	t, err := readNFTTarget(p, true)
	if err != nil {
		return nil, err
	}
	to, err := p.Address("to")
	if err != nil {
		return nil, err
	}
	amount, err := p.BigIntOr("amount", 1)
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

	var req entity.TxRequest
	if t.standard == standardERC1155 {
		req, err = packTx(t.contract, contracts.ERC1155(), nil, "safeTransferFrom", from, to, t.tokenID, amount, []byte{})
	} else {
		req, err = packTx(t.contract, contracts.ERC721(), nil, "safeTransferFrom", from, to, t.tokenID)
	}
	if err != nil {
		return nil, err
	}
	out, err := submit(ctx, env, req, opts)
	if err != nil {
		return nil, err
	}
	out["contractAddress"] = t.contract.Hex()
	out["tokenId"] = t.tokenID.String()
	out["from"] = from.Hex()
	out["to"] = to.Hex()
	if t.standard == standardERC1155 {
		out["amount"] = amount.String()
	}
	return out, nil
}

func nftApprove(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	t, err := readNFTTarget(p, true)
	if err != nil {
		return nil, err
	}
	if t.standard == standardERC1155 {
		return nil, invalid("standard", "ERC-1155 has no per-token approval, use setApprovalForAll")
	}
	spender, err := p.Address("spender")
	if err != nil {
		return nil, err
	}
	opts, err := readWriteOptions(p)
	if err != nil {
		return nil, err
	}
	req, err := packTx(t.contract, contracts.ERC721(), nil, "approve", spender, t.tokenID)
	if err != nil {
		return nil, err
	}
	out, err := submit(ctx, env, req, opts)
	if err != nil {
		return nil, err
	}
	out["contractAddress"] = t.contract.Hex()
	out["tokenId"] = t.tokenID.String()
	out["spender"] = spender.Hex()
	return out, nil
}

func nftSetApprovalForAll(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	t, err := readNFTTarget(p, false)
	if err != nil {
		return nil, err
	}
	operator, err := p.Address("operator")
	if err != nil {
		return nil, err
	}
	approved, err := p.Bool("approved", true)
	if err != nil {
		return nil, err
	}
	opts, err := readWriteOptions(p)
	if err != nil {
		return nil, err
	}
	parsed := contracts.ERC721()
	if t.standard == standardERC1155 {
		parsed = contracts.ERC1155()
	}
	req, err := packTx(t.contract, parsed, nil, "setApprovalForAll", operator, approved)
	if err != nil {
		return nil, err
	}
	out, err := submit(ctx, env, req, opts)
	if err != nil {
		return nil, err
	}
	out["contractAddress"] = t.contract.Hex()
	out["operator"] = operator.Hex()
	out["approved"] = approved
	return out, nil
}

func nftIsApprovedForAll(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	t, err := readNFTTarget(p, false)
	if err != nil {
		return nil, err
	}
	owner, err := p.Address("owner")
	if err != nil {
		return nil, err
	}
	operator, err := p.Address("operator")
	if err != nil {
		return nil, err
	}
	parsed := contracts.ERC721()
	if t.standard == standardERC1155 {
		parsed = contracts.ERC1155()
	}
	v, err := callView(ctx, env.Chain, t.contract, parsed, "isApprovedForAll", owner, operator)
	if err != nil {
		return nil, err
	}
	approved, _ := firstValue(v).(bool)
	return entity.Fields{
		"contractAddress": t.contract.Hex(),
		"owner":           owner.Hex(),
		"operator":        operator.Hex(),
		"isApproved":      approved,
	}, nil
}
