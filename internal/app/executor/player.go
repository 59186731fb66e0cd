package executor

import (
	"context"

	"beam_automation/internal/domain/entity"
)

const playerPrefix = "/v1/player"

func playerDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourcePlayer, OpGetProfile, NeedAPI, playerGetProfile),
		describe(ResourcePlayer, OpCreateProfile, NeedAPI, playerCreateProfile),
		describe(ResourcePlayer, OpGetWallets, NeedAPI, playerGetWallets),
		describe(ResourcePlayer, OpGetTransactions, NeedAPI, playerGetTransactions),
	}
}

func playerGetProfile(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	user, err := entityID(p)
	if err != nil {
		return nil, err
	}
	var resp any
	if err := env.API.Get(ctx, apiPath(playerPrefix+"/users", user), nil, &resp); err != nil {
		return nil, err
	}
	out := objectFields(resp)
	out["entityId"] = user
	return out, nil
}

func playerCreateProfile(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	user, err := entityID(p)
	if err != nil {
		return nil, err
	}
	body := map[string]any{"entityId": user}
	if p.Has("chainId") {
		chainID, err := p.Int64("chainId")
		if err != nil {
			return nil, err
		}
		body["chainId"] = chainID
	} else {
		body["chainId"] = env.Network.ChainID
	}
	var resp any
	if err := env.API.Post(ctx, playerPrefix+"/users", body, &resp); err != nil {
		return nil, err
	}
	out := objectFields(resp)
	out["entityId"] = user
	out["created"] = true
	return out, nil
}

func playerGetWallets(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	user, err := entityID(p)
	if err != nil {
		return nil, err
	}
	var resp any
	if err := env.API.Get(ctx, apiPath(playerPrefix+"/users", user, "wallets"), nil, &resp); err != nil {
		return nil, err
	}
	wallets := listField(resp, "wallets")
	return entity.Fields{
		"entityId": user,
		"wallets":  wallets,
		"count":    len(wallets),
	}, nil
}

func playerGetTransactions(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	user, err := entityID(p)
	if err != nil {
		return nil, err
	}
	query, err := pagination(p, 20, 100)
	if err != nil {
		return nil, err
	}
	var resp any
	if err := env.API.Get(ctx, apiPath(playerPrefix+"/users", user, "transactions"), query, &resp); err != nil {
		return nil, err
	}
	txs := listField(resp, "transactions")
	return entity.Fields{
		"entityId":     user,
		"transactions": txs,
		"count":        len(txs),
	}, nil
}
