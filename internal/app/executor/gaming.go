package executor

import (
	"context"
	"sort"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/domain/gaming"
	"beam_automation/internal/pkg/utils"
)

const gamePrefix = "/v1/game"

func gamingDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceGaming, OpCalculateLevel, 0, gamingCalculateLevel),
		describe(ResourceGaming, OpCalculateElo, 0, gamingCalculateElo),
		describe(ResourceGaming, OpGetRank, 0, gamingGetRank),
		describe(ResourceGaming, OpCalculateRarity, 0, gamingCalculateRarity),
		describe(ResourceGaming, OpAchievementProgress, 0, gamingAchievementProgress),
		describe(ResourceGaming, OpGetLeaderboard, NeedAPI, gamingGetLeaderboard),
		describe(ResourceGaming, OpSubmitScore, NeedAPI, gamingSubmitScore),
		describe(ResourceGaming, OpGetPlayerStats, NeedAPI, gamingGetPlayerStats),
	}
}

func gamingCalculateLevel(_ context.Context, _ *Env, p Params) (entity.Fields, error) {
	xp, err := p.Int64("xp")
	if err != nil {
		return nil, err
	}
	prog := gaming.ProgressForXP(xp)
	return entity.Fields{
		"xp":              xp,
		"level":           prog.Level,
		"currentLevelXp":  prog.CurrentLevelXP,
		"nextLevelXp":     prog.NextLevelXP,
		"xpIntoLevel":     prog.XPIntoLevel,
		"xpToNextLevel":   prog.XPToNextLevel,
		"progressPercent": prog.ProgressPercent,
		"progress":        utils.FormatPercentage(prog.ProgressPercent, 2),
		"isMaxLevel":      prog.IsMaxLevel,
	}, nil
}

func gamingCalculateElo(_ context.Context, _ *Env, p Params) (entity.Fields, error) {
	a, err := p.Int64("playerRating")
	if err != nil {
		return nil, err
	}
	b, err := p.Int64("opponentRating")
	if err != nil {
		return nil, err
	}
	raw, err := p.String("outcome")
	if err != nil {
		return nil, err
	}
	outcome, ok := gaming.ParseOutcome(raw)
	if !ok {
		return nil, invalid("outcome", "must be one of win, loss, draw")
	}
	k, err := p.Int64Or("kFactor", gaming.DefaultKFactor)
	if err != nil {
		return nil, err
	}

	newA, newB := gaming.UpdateRatings(int(a), int(b), outcome, int(k))
	return entity.Fields{
		"playerRating":      a,
		"opponentRating":    b,
		"outcome":           string(outcome),
		"expectedScore":     round4(gaming.ExpectedScore(int(a), int(b))),
		"ratingChange":      newA - int(a),
		"newPlayerRating":   newA,
		"newOpponentRating": newB,
		"playerRank":        gaming.RankForRating(newA),
	}, nil
}

func round4(f float64) float64 {
	return float64(int64(f*10000+0.5)) / 10000
}

func gamingGetRank(_ context.Context, _ *Env, p Params) (entity.Fields, error) {
	rating, err := p.Int64("rating")
	if err != nil {
		return nil, err
	}
	out := entity.Fields{
		"rating": rating,
		"rank":   gaming.RankForRating(int(rating)),
	}
	if next, need := gaming.NextRank(int(rating)); next != "" {
		out["nextRank"] = next
		out["pointsToNextRank"] = need
	} else {
		out["nextRank"] = nil
		out["pointsToNextRank"] = 0
	}
	return out, nil
}

func gamingCalculateRarity(_ context.Context, _ *Env, p Params) (entity.Fields, error) {
	var traits []gaming.TraitCount
	if err := p.JSONInto("traits", &traits); err != nil {
		return nil, err
	}
	supply, err := p.Int64("totalSupply")
	if err != nil {
		return nil, err
	}
	if supply <= 0 {
		return nil, invalid("totalSupply", "must be greater than zero")
	}

	breakdown := make([]map[string]any, 0, len(traits))
	for _, t := range traits {
		breakdown = append(breakdown, map[string]any{
			"trait_type": gaming.NormalizeTraitType(t.TraitType),
			"value":      t.Value,
			"count":      t.Count,
			"frequency":  gaming.TraitFrequency(t.Count, supply),
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i]["frequency"].(float64) < breakdown[j]["frequency"].(float64)
	})

	out := entity.Fields{
		"rarityScore": gaming.RarityScore(traits, supply),
		"totalSupply": supply,
		"traitCount":  len(traits),
		"traits":      breakdown,
	}
	if p.Has("rank") {
		rank, err := p.Int64("rank")
		if err != nil {
			return nil, err
		}
		out["rank"] = rank
		out["tier"] = gaming.RarityTier(rank, supply)
	}
	return out, nil
}

func gamingAchievementProgress(_ context.Context, _ *Env, p Params) (entity.Fields, error) {
	current, err := p.Int64("current")
	if err != nil {
		return nil, err
	}
	target, err := p.Int64("target")
	if err != nil {
		return nil, err
	}
	pct, done := gaming.AchievementProgress(current, target)
	remaining := target - current
	if remaining < 0 {
		remaining = 0
	}
	out := entity.Fields{
		"current":         current,
		"target":          target,
		"progressPercent": pct,
		"progress":        utils.FormatPercentage(pct, 1),
		"remaining":       remaining,
		"completed":       done,
	}
	if name := p.StringOr("achievementName", ""); name != "" {
		out["achievementName"] = name
	}
	return out, nil
}

func gamingGetLeaderboard(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	id, err := p.String("leaderboardId")
	if err != nil {
		return nil, err
	}
	query, err := pagination(p, 10, 100)
	if err != nil {
		return nil, err
	}
	var resp any
	if err := env.API.Get(ctx, apiPath(gamePrefix+"/leaderboards", id), query, &resp); err != nil {
		return nil, err
	}
	entries := listField(resp, "entries", "scores")
	return entity.Fields{
		"leaderboardId": id,
		"entries":       entries,
		"count":         len(entries),
	}, nil
}

func gamingSubmitScore(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	id, err := p.String("leaderboardId")
	if err != nil {
		return nil, err
	}
	player, err := p.String("entityId")
	if err != nil {
		return nil, err
	}
	score, err := p.Int64("score")
	if err != nil {
		return nil, err
	}
	if score < 0 {
		return nil, invalid("score", "must not be negative")
	}
	body := map[string]any{"entityId": player, "score": score}
	if p.Has("metadata") {
		meta, err := p.JSON("metadata")
		if err != nil {
			return nil, err
		}
		body["metadata"] = meta
	}
	var resp any
	if err := env.API.Post(ctx, apiPath(gamePrefix+"/leaderboards", id, "scores"), body, &resp); err != nil {
		return nil, err
	}
	out := objectFields(resp)
	out["leaderboardId"] = id
	out["entityId"] = player
	out["score"] = score
	out["submitted"] = true
	return out, nil
}

func gamingGetPlayerStats(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	player, err := p.String("entityId")
	if err != nil {
		return nil, err
	}
	var resp any
	if err := env.API.Get(ctx, apiPath(gamePrefix+"/players", player, "stats"), nil, &resp); err != nil {
		return nil, err
	}
	out := objectFields(resp)
	out["entityId"] = player

	stats := map[string]any(out)
	wins := int64(numberField(stats, "wins"))
	games := int64(numberField(stats, "gamesPlayed"))
	if games == 0 {
		games = wins + int64(numberField(stats, "losses")) + int64(numberField(stats, "draws"))
	}
	out["winRate"] = gaming.WinRate(wins, games)
	out["kdRatio"] = gaming.KDRatio(int64(numberField(stats, "kills")), int64(numberField(stats, "deaths")))
	if _, ok := stats["xp"]; ok {
		out["level"] = gaming.LevelForXP(int64(numberField(stats, "xp")))
	}
	if _, ok := stats["rating"]; ok {
		out["rank"] = gaming.RankForRating(int(numberField(stats, "rating")))
	}
	return out, nil
}
