package executor

import (
	"context"
	"errors"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/contracts"

	"github.com/ethereum/go-ethereum/common"
)

const maxBatchMint = 50

func mintingDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceMinting, OpMintNFT, NeedChain|NeedSigner, mintingMintNFT),
		describe(ResourceMinting, OpMintBatch, NeedChain|NeedSigner, mintingMintBatch),
		describe(ResourceMinting, OpGetMintStatus, NeedChain, mintingGetMintStatus),
	}
}

// mintingMintNFT calls safeMint(to, uri) on an ERC-721 contract the signer
// is allowed to mint from.
func mintingMintNFT(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	contract, err := p.Address("contractAddress")
	if err != nil {
		return nil, err
	}
	uri, err := p.String("tokenUri")
	if err != nil {
		return nil, err
	}
	to, err := env.addressOrSigner(p, "to")
	if err != nil {
		return nil, err
	}
	opts, err := readWriteOptions(p)
	if err != nil {
		return nil, err
	}
	req, err := packTx(contract, contracts.ERC721(), nil, "safeMint", to, uri)
	if err != nil {
		return nil, err
	}
	out, err := submit(ctx, env, req, opts)
	if err != nil {
		return nil, err
	}
	out["contractAddress"] = contract.Hex()
	out["to"] = to.Hex()
	out["tokenUri"] = uri
	return out, nil
}

// mintingMintBatch submits one safeMint per recipient with consecutive
// nonces. It stops at the first rejected submission and reports what was
// sent before it.
func mintingMintBatch(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	contract, err := p.Address("contractAddress")
	if err != nil {
		return nil, err
	}
	recipients, err := p.Addresses("recipients")
	if err != nil {
		return nil, err
	}
	uris, err := p.StringSlice("tokenUris")
	if err != nil {
		return nil, err
	}
	if len(recipients) > maxBatchMint {
		return nil, invalid("recipients", "at most %d per batch", maxBatchMint)
	}
	if len(uris) != 1 && len(uris) != len(recipients) {
		return nil, invalid("tokenUris", "expected 1 or %d entries, got %d", len(recipients), len(uris))
	}
	opts, err := readWriteOptions(p)
	if err != nil {
		return nil, err
	}
	from, err := env.SignerAddress()
	if err != nil {
		return nil, err
	}

	nonce, err := env.Chain.NonceAt(ctx, from, true)
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	mints := make([]map[string]any, 0, len(recipients))
	for i, to := range recipients {
		uri := uris[0]
		if len(uris) > 1 {
			uri = uris[i]
		}
		req, err := packTx(contract, contracts.ERC721(), nil, "safeMint", to, uri)
		if err != nil {
			return nil, err
		}
		n := nonce + uint64(i)
		req.Nonce = &n
		res, err := submit(ctx, env, req, opts)
		if err != nil {
			if len(mints) == 0 {
				return nil, err
			}
			env.logger().Warn("Batch mint stopped early", "submitted", len(mints), "error", err)
			return entity.Fields{
				"contractAddress": contract.Hex(),
				"mints":           mints,
				"submitted":       len(mints),
				"requested":       len(recipients),
				"stoppedReason":   err.Error(),
			}, nil
		}
		res["to"] = to.Hex()
		res["tokenUri"] = uri
		res["nonce"] = n
		mints = append(mints, map[string]any(res))
	}
	return entity.Fields{
		"contractAddress": contract.Hex(),
		"mints":           mints,
		"submitted":       len(mints),
		"requested":       len(recipients),
	}, nil
}

// mintingGetMintStatus decodes Transfer events from the zero address in the
// receipt to report the minted token ids.
func mintingGetMintStatus(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	hash, err := p.Hash("transactionHash")
	if err != nil {
		return nil, err
	}
	receipt, err := env.Chain.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.Fields{"transactionHash": hash.Hex(), "status": entity.TxStatusPending, "tokenIds": []string{}}, nil
		}
		return nil, entity.NewTransportError("rpc", err)
	}

	topic := contracts.TransferEventTopic()
	var ids []string
	var contract string
	for _, l := range receipt.Logs {
		if len(l.Topics) != 4 || l.Topics[0] != topic {
			continue
		}
		if common.BytesToAddress(l.Topics[1].Bytes()) != (common.Address{}) {
			continue
		}
		ids = append(ids, l.Topics[3].Big().String())
		contract = l.Address.Hex()
	}
	out := receiptSummary(receipt)
	out["transactionHash"] = hash.Hex()
	out["tokenIds"] = append([]string{}, ids...)
	out["mintedCount"] = len(ids)
	if contract != "" {
		out["contractAddress"] = contract
	}
	return out, nil
}
