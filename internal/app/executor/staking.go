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

// Time-lock pools stake and reward 18-decimal tokens.
const poolDecimals uint8 = 18

func stakingDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceStaking, OpStake, NeedChain|NeedSigner, stakingStake),
		describe(ResourceStaking, OpUnstake, NeedChain|NeedSigner, stakingUnstake),
		describe(ResourceStaking, OpClaimRewards, NeedChain|NeedSigner, stakingClaimRewards),
		describe(ResourceStaking, OpGetStakeInfo, NeedChain, stakingGetStakeInfo),
	}
}

func stakingPool(env *Env, p Params) (common.Address, error) {
	return env.contractAddress(p, "poolAddress", "STAKING_POOL")
}

func stakingStake(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	amount, err := p.Amount("amount", poolDecimals)
	if err != nil {
		return nil, err
	}
	duration, err := p.Int64Or("durationSeconds", 0)
	if err != nil {
		return nil, err
	}
	if duration < 0 {
		return nil, invalid("durationSeconds", "must not be negative")
	}
	opts, err := readWriteOptions(p)
	if err != nil {
		return nil, err
	}
	pool, err := stakingPool(env, p)
	if err != nil {
		return nil, err
	}
	from, err := env.SignerAddress()
	if err != nil {
		return nil, err
	}
	return stakeInPool(ctx, env, pool, from, amount, duration, opts)
}

// stakeInPool checks the deposit token allowance before depositing.
func stakeInPool(ctx context.Context, env *Env, pool, from common.Address, amount *big.Int, duration int64, opts writeOptions) (entity.Fields, error) {
	lockPool := contracts.TimeLockPool()
	depositToken, err := callAddress(ctx, env.Chain, pool, lockPool, "depositToken")
	if err != nil {
		return nil, err
	}
	allowance, err := callBig(ctx, env.Chain, depositToken, contracts.ERC20(), "allowance", from, pool)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(amount) < 0 {
		return nil, entity.NewInvalidInputError("pool %s may spend only %s of %s, approve it first",
			pool.Hex(), formatUnits(allowance, poolDecimals), depositToken.Hex())
	}

	req, err := packTx(pool, lockPool, nil, "deposit", amount, big.NewInt(duration), from)
	if err != nil {
		return nil, err
	}
	out, err := submit(ctx, env, req, opts)
	if err != nil {
		return nil, err
	}
	out["poolAddress"] = pool.Hex()
	out["depositToken"] = depositToken.Hex()
	out["amount"] = formatUnits(amount, poolDecimals)
	out["lockDuration"] = utils.FormatDuration(duration)
	out["lockDurationSeconds"] = duration
	return out, nil
}

func stakingUnstake(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	depositID, err := p.BigInt("depositId")
	if err != nil {
		return nil, err
	}
	opts, err := readWriteOptions(p)
	if err != nil {
		return nil, err
	}
	pool, err := stakingPool(env, p)
	if err != nil {
		return nil, err
	}
	from, err := env.SignerAddress()
	if err != nil {
		return nil, err
	}
	req, err := packTx(pool, contracts.TimeLockPool(), nil, "withdraw", depositID, from)
	if err != nil {
		return nil, err
	}
	out, err := submit(ctx, env, req, opts)
	if err != nil {
		return nil, err
	}
	out["poolAddress"] = pool.Hex()
	out["depositId"] = depositID.String()
	return out, nil
}

func stakingClaimRewards(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	opts, err := readWriteOptions(p)
	if err != nil {
		return nil, err
	}
	pool, err := stakingPool(env, p)
	if err != nil {
		return nil, err
	}
	from, err := env.SignerAddress()
	if err != nil {
		return nil, err
	}
	receiver := from
	if p.Has("receiver") {
		if receiver, err = p.Address("receiver"); err != nil {
			return nil, err
		}
	}
	req, err := packTx(pool, contracts.TimeLockPool(), nil, "claimRewards", receiver)
	if err != nil {
		return nil, err
	}
	out, err := submit(ctx, env, req, opts)
	if err != nil {
		return nil, err
	}
	out["poolAddress"] = pool.Hex()
	out["receiver"] = receiver.Hex()
	return out, nil
}

// stakePosition is one account's view of a time-lock pool.
type stakePosition struct {
	totalDeposit *big.Int
	deposits     *big.Int
	rewards      *big.Int
	poolShares   *big.Int
}

func readStakePosition(ctx context.Context, env *Env, pool, account common.Address) (stakePosition, error) {
	var pos stakePosition
	lockPool := contracts.TimeLockPool()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		pos.totalDeposit, err = callBig(gctx, env.Chain, pool, lockPool, "getTotalDeposit", account)
		return err
	})
	g.Go(func() (err error) {
		pos.deposits, err = callBig(gctx, env.Chain, pool, lockPool, "getDepositsOfLength", account)
		return err
	})
	g.Go(func() (err error) {
		pos.rewards, err = callBig(gctx, env.Chain, pool, lockPool, "withdrawableRewardsOf", account)
		return err
	})
	g.Go(func() (err error) {
		pos.poolShares, err = callBig(gctx, env.Chain, pool, lockPool, "totalSupply")
		return err
	})
	return pos, g.Wait()
}

func stakingGetStakeInfo(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	account, err := env.addressOrSigner(p, "address")
	if err != nil {
		return nil, err
	}
	pool, err := stakingPool(env, p)
	if err != nil {
		return nil, err
	}
	pos, err := readStakePosition(ctx, env, pool, account)
	if err != nil {
		return nil, err
	}
	return entity.Fields{
		"address":          account.Hex(),
		"poolAddress":      pool.Hex(),
		"totalStaked":      formatUnits(pos.totalDeposit, poolDecimals),
		"totalStakedRaw":   pos.totalDeposit.String(),
		"depositCount":     normalize(pos.deposits),
		"pendingRewards":   formatUnits(pos.rewards, poolDecimals),
		"poolTotalShares":  formatUnits(pos.poolShares, poolDecimals),
		"hasActiveDeposit": pos.totalDeposit.Sign() > 0,
	}, nil
}
