package executor

import (
	"context"
	"math/big"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/contracts"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

const collectionPrefix = "/v1/marketplace/collections"

func collectionDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceCollection, OpGetInfo, NeedChain, collectionGetInfo),
		describe(ResourceCollection, OpGetStats, NeedAPI, collectionGetStats),
		describe(ResourceCollection, OpGetOwners, NeedAPI, collectionGetOwners),
		describe(ResourceCollection, OpGetFloorPrice, NeedAPI, collectionGetFloorPrice),
	}
}

// collectionGetInfo reads name and symbol. totalSupply is optional in
// ERC-721, so a failed read is reported as null.
func collectionGetInfo(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	addr, err := p.Address("contractAddress")
	if err != nil {
		return nil, err
	}
	erc721 := contracts.ERC721()
	var name, symbol string
	var supply *big.Int
	var code []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := callView(gctx, env.Chain, addr, erc721, "name")
		name, _ = firstValue(v).(string)
		return err
	})
	g.Go(func() error {
		v, err := callView(gctx, env.Chain, addr, erc721, "symbol")
		symbol, _ = firstValue(v).(string)
		return err
	})
	g.Go(func() error {
		var err error
		code, err = env.Chain.CodeAt(gctx, addr)
		return entity.NewTransportError("rpc", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return nil, entity.NewNotFoundError("no contract deployed at %s", addr.Hex())
	}
	supply, err = callBig(ctx, env.Chain, addr, erc721, "totalSupply")

	out := entity.Fields{
		"contractAddress": addr.Hex(),
		"name":            name,
		"symbol":          symbol,
		"network":         env.Network.Identifier,
	}
	if err != nil {
		env.logger().Debug("totalSupply not available", "contract", addr.Hex(), "error", err)
		out["totalSupply"] = nil
	} else {
		out["totalSupply"] = supply.String()
	}
	if u := env.Network.AddressURL(addr.Hex()); u != "" {
		out["explorerUrl"] = u
	}
	return out, nil
}

func collectionGetStats(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	addr, err := p.Address("contractAddress")
	if err != nil {
		return nil, err
	}
	var resp any
	if err := env.API.Get(ctx, apiPath(collectionPrefix, addr.Hex(), "stats"), nil, &resp); err != nil {
		return nil, err
	}
	out := objectFields(resp)
	out["contractAddress"] = addr.Hex()
	return out, nil
}

func collectionGetOwners(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	addr, err := p.Address("contractAddress")
	if err != nil {
		return nil, err
	}
	query, err := pagination(p, 50, 200)
	if err != nil {
		return nil, err
	}
	var resp any
	if err := env.API.Get(ctx, apiPath(collectionPrefix, addr.Hex(), "owners"), query, &resp); err != nil {
		return nil, err
	}
	owners := listField(resp, "owners")
	unique := make(map[string]struct{}, len(owners))
	for _, o := range owners {
		m, ok := o.(map[string]any)
		if !ok {
			continue
		}
		if a, ok := m["address"].(string); ok && common.IsHexAddress(a) {
			unique[common.HexToAddress(a).Hex()] = struct{}{}
		}
	}
	return entity.Fields{
		"contractAddress": addr.Hex(),
		"owners":          owners,
		"count":           len(owners),
		"uniqueAddresses": len(unique),
	}, nil
}

// collectionGetFloorPrice takes the cheapest active listing.
func collectionGetFloorPrice(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	addr, err := p.Address("contractAddress")
	if err != nil {
		return nil, err
	}
	query := map[string]string{
		"assetAddress":  addr.Hex(),
		"sortBy":        "price",
		"sortDirection": "asc",
		"limit":         "1",
	}
	var resp any
	if err := env.API.Get(ctx, marketplacePrefix+"/listings", query, &resp); err != nil {
		return nil, err
	}
	out := entity.Fields{"contractAddress": addr.Hex()}
	listings := listField(resp, "listings")
	if len(listings) == 0 {
		out["floorPrice"] = nil
		out["hasListings"] = false
		return out, nil
	}
	cheapest, _ := listings[0].(map[string]any)
	out["hasListings"] = true
	out["floorPrice"] = priceField(cheapest, "price")
	if c, ok := cheapest["currency"]; ok {
		out["currency"] = c
	}
	if id, ok := cheapest["id"]; ok {
		out["listingId"] = id
	}
	return out, nil
}
