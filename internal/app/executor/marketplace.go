package executor

import (
	"context"
	"strconv"

	"beam_automation/internal/domain/entity"
)

const marketplacePrefix = "/v1/marketplace"

func marketplaceDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceMarketplace, OpGetListings, NeedAPI, marketplaceGetListings),
		describe(ResourceMarketplace, OpGetListing, NeedAPI, marketplaceGetListing),
		describe(ResourceMarketplace, OpCreateListing, NeedAPI, marketplaceCreateListing),
		describe(ResourceMarketplace, OpCancelListing, NeedAPI, marketplaceCancelListing),
		describe(ResourceMarketplace, OpBuyListing, NeedAPI, marketplaceBuyListing),
		describe(ResourceMarketplace, OpMakeOffer, NeedAPI, marketplaceMakeOffer),
		describe(ResourceMarketplace, OpGetOffers, NeedAPI, marketplaceGetOffers),
		describe(ResourceMarketplace, OpAcceptOffer, NeedAPI, marketplaceAcceptOffer),
	}
}

func marketplaceGetListings(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	query, err := pagination(p, 20, 100)
	if err != nil {
		return nil, err
	}
	if addr, ok, err := p.OptionalAddress("collectionAddress"); err != nil {
		return nil, err
	} else if ok {
		query["assetAddress"] = addr.Hex()
	}
	if p.Has("sortBy") {
		sort, err := p.Enum("sortBy", "", "price", "createdAt", "expiresAt")
		if err != nil {
			return nil, err
		}
		query["sortBy"] = sort
	}
	if p.Has("sortDirection") {
		dir, err := p.Enum("sortDirection", "", "asc", "desc")
		if err != nil {
			return nil, err
		}
		query["sortDirection"] = dir
	}

	var resp any
	if err := env.API.Get(ctx, marketplacePrefix+"/listings", query, &resp); err != nil {
		return nil, err
	}
	listings := listField(resp, "listings")
	return entity.Fields{
		"listings": listings,
		"count":    len(listings),
		"limit":    query["limit"],
		"offset":   query["offset"],
	}, nil
}

func marketplaceGetListing(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	id, err := p.String("listingId")
	if err != nil {
		return nil, err
	}
	var resp any
	if err := env.API.Get(ctx, apiPath(marketplacePrefix+"/listings", id), nil, &resp); err != nil {
		return nil, err
	}
	out := objectFields(resp)
	out["listingId"] = id
	return out, nil
}

type createListingBody struct {
	AssetAddress string `json:"assetAddress"`
	AssetID      string `json:"assetId"`
	Price        string `json:"price"`
	Quantity     int64  `json:"quantity"`
	Currency     string `json:"currency,omitempty"`
	EndTime      string `json:"endTime,omitempty"`
}

func marketplaceCreateListing(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	user, err := entityID(p)
	if err != nil {
		return nil, err
	}
	asset, err := p.Address("assetAddress")
	if err != nil {
		return nil, err
	}
	tokenID, err := p.BigInt("tokenId")
	if err != nil {
		return nil, err
	}
	price, err := p.Float64("price")
	if err != nil {
		return nil, err
	}
	if price <= 0 {
		return nil, invalid("price", "must be greater than zero")
	}
	quantity, err := p.Int64Or("quantity", 1)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, invalid("quantity", "must be at least 1")
	}
	body := createListingBody{
		AssetAddress: asset.Hex(),
		AssetID:      tokenID.String(),
		Price:        strconv.FormatFloat(price, 'f', -1, 64),
		Quantity:     quantity,
		Currency:     p.StringOr("currency", "BEAM"),
	}
	if p.Has("durationSeconds") {
		secs, err := p.Int64("durationSeconds")
		if err != nil {
			return nil, err
		}
		if secs <= 0 {
			return nil, invalid("durationSeconds", "must be positive")
		}
		body.EndTime = env.now().Add(secondsDuration(secs)).UTC().Format("2006-01-02T15:04:05Z")
	}

	var resp any
	if err := env.API.Post(ctx, apiPath(marketplacePrefix+"/users", user, "listing"), body, &resp); err != nil {
		return nil, err
	}
	out := objectFields(resp)
	out["entityId"] = user
	out["assetAddress"] = body.AssetAddress
	out["tokenId"] = body.AssetID
	out["price"] = body.Price
	out["quantity"] = quantity
	out["currency"] = body.Currency
	return out, nil
}

func marketplaceCancelListing(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	user, err := entityID(p)
	if err != nil {
		return nil, err
	}
	id, err := p.String("listingId")
	if err != nil {
		return nil, err
	}
	var resp any
	if err := env.API.Delete(ctx, apiPath(marketplacePrefix+"/users", user, "listing", id), &resp); err != nil {
		return nil, err
	}
	out := objectFields(resp)
	out["listingId"] = id
	out["cancelled"] = true
	return out, nil
}

func marketplaceBuyListing(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	user, err := entityID(p)
	if err != nil {
		return nil, err
	}
	id, err := p.String("listingId")
	if err != nil {
		return nil, err
	}
	quantity, err := p.Int64Or("quantity", 1)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, invalid("quantity", "must be at least 1")
	}
	var resp any
	body := map[string]any{"quantity": quantity}
	if err := env.API.Post(ctx, apiPath(marketplacePrefix+"/users", user, "listing", id, "buy"), body, &resp); err != nil {
		return nil, err
	}
	out := objectFields(resp)
	out["listingId"] = id
	out["quantity"] = quantity
	return out, nil
}

func marketplaceMakeOffer(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	user, err := entityID(p)
	if err != nil {
		return nil, err
	}
	asset, err := p.Address("assetAddress")
	if err != nil {
		return nil, err
	}
	tokenID, err := p.BigInt("tokenId")
	if err != nil {
		return nil, err
	}
	price, err := p.Float64("price")
	if err != nil {
		return nil, err
	}
	if price <= 0 {
		return nil, invalid("price", "must be greater than zero")
	}
	quantity, err := p.Int64Or("quantity", 1)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, invalid("quantity", "must be at least 1")
	}
	body := map[string]any{
		"assetAddress": asset.Hex(),
		"assetId":      tokenID.String(),
		"price":        strconv.FormatFloat(price, 'f', -1, 64),
		"quantity":     quantity,
		"currency":     p.StringOr("currency", "WBEAM"),
	}
	if p.Has("durationSeconds") {
		secs, err := p.Int64("durationSeconds")
		if err != nil {
			return nil, err
		}
		if secs <= 0 {
			return nil, invalid("durationSeconds", "must be positive")
		}
		body["endTime"] = env.now().Add(secondsDuration(secs)).UTC().Format("2006-01-02T15:04:05Z")
	}

	var resp any
	if err := env.API.Post(ctx, apiPath(marketplacePrefix+"/users", user, "offers"), body, &resp); err != nil {
		return nil, err
	}
	out := objectFields(resp)
	out["assetAddress"] = body["assetAddress"]
	out["tokenId"] = body["assetId"]
	out["price"] = body["price"]
	return out, nil
}

func marketplaceGetOffers(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	asset, err := p.Address("assetAddress")
	if err != nil {
		return nil, err
	}
	tokenID, err := p.BigInt("tokenId")
	if err != nil {
		return nil, err
	}
	query, err := pagination(p, 20, 100)
	if err != nil {
		return nil, err
	}
	var resp any
	path := apiPath(marketplacePrefix+"/assets", asset.Hex(), tokenID.String(), "offers")
	if err := env.API.Get(ctx, path, query, &resp); err != nil {
		return nil, err
	}
	offers := listField(resp, "offers")
	out := entity.Fields{
		"assetAddress": asset.Hex(),
		"tokenId":      tokenID.String(),
		"offers":       offers,
		"count":        len(offers),
	}
	best := 0.0
	for _, o := range offers {
		if m, ok := o.(map[string]any); ok {
			if v := numberField(m, "price"); v > best {
				best = v
				out["bestOffer"] = priceField(m, "price")
			}
		}
	}
	return out, nil
}

func marketplaceAcceptOffer(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	user, err := entityID(p)
	if err != nil {
		return nil, err
	}
	id, err := p.String("offerId")
	if err != nil {
		return nil, err
	}
	quantity, err := p.Int64Or("quantity", 1)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, invalid("quantity", "must be at least 1")
	}
	var resp any
	body := map[string]any{"quantity": quantity}
	if err := env.API.Post(ctx, apiPath(marketplacePrefix+"/users", user, "offers", id, "accept"), body, &resp); err != nil {
		return nil, err
	}
	out := objectFields(resp)
	out["offerId"] = id
	out["accepted"] = true
	return out, nil
}
