package executor

import (
	"context"

	"beam_automation/internal/domain/entity"
)

const assetPrefix = "/v1/player/assets"

func assetDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceAsset, OpGetAssets, NeedAPI, assetGetAssets),
		describe(ResourceAsset, OpGetAsset, NeedAPI, assetGetAsset),
		describe(ResourceAsset, OpTransferAsset, NeedAPI, assetTransferAsset),
		describe(ResourceAsset, OpGetAssetHistory, NeedAPI, assetGetAssetHistory),
	}
}

func assetGetAssets(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	user, err := entityID(p)
	if err != nil {
		return nil, err
	}
	query, err := pagination(p, 50, 200)
	if err != nil {
		return nil, err
	}
	if addr, ok, err := p.OptionalAddress("contractAddress"); err != nil {
		return nil, err
	} else if ok {
		query["contract"] = addr.Hex()
	}
	var resp any
	if err := env.API.Get(ctx, apiPath(assetPrefix+"/users", user), query, &resp); err != nil {
		return nil, err
	}
	assets := listField(resp, "assets")
	return entity.Fields{
		"entityId": user,
		"assets":   assets,
		"count":    len(assets),
	}, nil
}

func assetGetAsset(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	addr, err := p.Address("assetAddress")
	if err != nil {
		return nil, err
	}
	id, err := p.BigInt("assetId")
	if err != nil {
		return nil, err
	}
	var resp any
	if err := env.API.Get(ctx, apiPath(assetPrefix, addr.Hex(), id.String()), nil, &resp); err != nil {
		return nil, err
	}
	out := objectFields(resp)
	out["assetAddress"] = addr.Hex()
	out["assetId"] = id.String()
	return out, nil
}

type assetTransferItem struct {
	AssetAddress string `json:"assetAddress"`
	AssetID      string `json:"assetId"`
	Amount       int64  `json:"amount"`
}

type assetTransferBody struct {
	Receiver   string              `json:"receiverEntityIdOrAddress"`
	Assets     []assetTransferItem `json:"assets"`
	Optimistic bool                `json:"optimistic"`
}

// assetTransferAsset moves an asset through the player API's managed
// wallets. The API signs on behalf of the sender.
func assetTransferAsset(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	user, err := entityID(p)
	if err != nil {
		return nil, err
	}
	receiver, err := p.String("receiver")
	if err != nil {
		return nil, err
	}
	addr, err := p.Address("assetAddress")
	if err != nil {
		return nil, err
	}
	id, err := p.BigInt("assetId")
	if err != nil {
		return nil, err
	}
	amount, err := p.Int64Or("amount", 1)
	if err != nil {
		return nil, err
	}
	if amount < 1 {
		return nil, invalid("amount", "must be at least 1")
	}
	optimistic, err := p.Bool("optimistic", false)
	if err != nil {
		return nil, err
	}
	body := assetTransferBody{
		Receiver:   receiver,
		Assets:     []assetTransferItem{{AssetAddress: addr.Hex(), AssetID: id.String(), Amount: amount}},
		Optimistic: optimistic,
	}
	var resp any
	if err := env.API.Post(ctx, apiPath(assetPrefix+"/users", user, "transfer"), body, &resp); err != nil {
		return nil, err
	}
	out := objectFields(resp)
	out["entityId"] = user
	out["receiver"] = receiver
	out["assetAddress"] = addr.Hex()
	out["assetId"] = id.String()
	out["amount"] = amount
	return out, nil
}

func assetGetAssetHistory(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	addr, err := p.Address("assetAddress")
	if err != nil {
		return nil, err
	}
	id, err := p.BigInt("assetId")
	if err != nil {
		return nil, err
	}
	query, err := pagination(p, 20, 100)
	if err != nil {
		return nil, err
	}
	var resp any
	if err := env.API.Get(ctx, apiPath(assetPrefix, addr.Hex(), id.String(), "history"), query, &resp); err != nil {
		return nil, err
	}
	events := listField(resp, "history", "events")
	return entity.Fields{
		"assetAddress": addr.Hex(),
		"assetId":      id.String(),
		"history":      events,
		"count":        len(events),
	}, nil
}
