package executor

import (
	"context"
	"math/big"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/contracts"
	"beam_automation/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// MCToBeamRatio is the fixed MC -> BEAM migration rate.
const MCToBeamRatio = 100

func meritCircleDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceMeritCircle, OpGetStakingInfo, NeedChain, meritCircleGetStakingInfo),
		describe(ResourceMeritCircle, OpGetPendingRewards, NeedChain, meritCircleGetPendingRewards),
		describe(ResourceMeritCircle, OpConvertMcToBeam, 0, meritCircleConvertMcToBeam),
		describe(ResourceMeritCircle, OpGetTokenInfo, NeedChain, meritCircleGetTokenInfo),
	}
}

func mcPool(env *Env, p Params) (common.Address, error) {
	return env.contractAddress(p, "poolAddress", "MC_STAKING_POOL")
}

func meritCircleGetStakingInfo(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	pool, err := mcPool(env, p)
	if err != nil {
		return nil, err
	}
	lockPool := contracts.TimeLockPool()
	var depositToken, rewardToken common.Address
	var supply, minLock, maxLock *big.Int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		depositToken, err = callAddress(gctx, env.Chain, pool, lockPool, "depositToken")
		return err
	})
	g.Go(func() (err error) {
		rewardToken, err = callAddress(gctx, env.Chain, pool, lockPool, "rewardToken")
		return err
	})
	g.Go(func() (err error) {
		supply, err = callBig(gctx, env.Chain, pool, lockPool, "totalSupply")
		return err
	})
	g.Go(func() (err error) {
		minLock, err = callBig(gctx, env.Chain, pool, lockPool, "minLockDuration")
		return err
	})
	g.Go(func() (err error) {
		maxLock, err = callBig(gctx, env.Chain, pool, lockPool, "maxLockDuration")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entity.Fields{
		"poolAddress":            pool.Hex(),
		"depositToken":           depositToken.Hex(),
		"rewardToken":            rewardToken.Hex(),
		"totalShares":            formatUnits(supply, poolDecimals),
		"minLockDurationSeconds": normalize(minLock),
		"maxLockDurationSeconds": normalize(maxLock),
		"minLockDuration":        utils.FormatDuration(minLock.Int64()),
		"maxLockDuration":        utils.FormatDuration(maxLock.Int64()),
	}, nil
}

func meritCircleGetPendingRewards(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	account, err := env.addressOrSigner(p, "address")
	if err != nil {
		return nil, err
	}
	pool, err := mcPool(env, p)
	if err != nil {
		return nil, err
	}
	pos, err := readStakePosition(ctx, env, pool, account)
	if err != nil {
		return nil, err
	}
	return entity.Fields{
		"address":        account.Hex(),
		"poolAddress":    pool.Hex(),
		"pendingRewards": formatUnits(pos.rewards, poolDecimals),
		"pendingRaw":     pos.rewards.String(),
		"totalStaked":    formatUnits(pos.totalDeposit, poolDecimals),
		"depositCount":   normalize(pos.deposits),
	}, nil
}

func meritCircleConvertMcToBeam(_ context.Context, _ *Env, p Params) (entity.Fields, error) {
	s, err := p.String("amount")
	if err != nil {
		return nil, err
	}
	mc, err := utils.DecimalToBaseUnits(s, poolDecimals)
	if err != nil {
		return nil, err
	}
	beam := new(big.Int).Mul(mc, big.NewInt(MCToBeamRatio))
	return entity.Fields{
		"mcAmount":   utils.FormatBigInt(mc, poolDecimals),
		"beamAmount": utils.FormatBigInt(beam, poolDecimals),
		"beamWei":    beam.String(),
		"ratio":      MCToBeamRatio,
	}, nil
}

func meritCircleGetTokenInfo(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	var token common.Address
	var err error
	if p.Has("tokenAddress") {
		if token, err = p.Address("tokenAddress"); err != nil {
			return nil, err
		}
	} else {
		pool, err := mcPool(env, p)
		if err != nil {
			return nil, err
		}
		if token, err = callAddress(ctx, env.Chain, pool, contracts.TimeLockPool(), "depositToken"); err != nil {
			return nil, err
		}
	}
	info, err := readERC20Info(ctx, env.Chain, token)
	if err != nil {
		return nil, err
	}
	supply, err := callBig(ctx, env.Chain, token, contracts.ERC20(), "totalSupply")
	if err != nil {
		return nil, err
	}
	return entity.Fields{
		"address":     token.Hex(),
		"name":        info.Name,
		"symbol":      info.Symbol,
		"decimals":    info.Decimals,
		"totalSupply": formatUnits(supply, info.Decimals),
		"beamRatio":   MCToBeamRatio,
		"network":     env.Network.Identifier,
	}, nil
}
