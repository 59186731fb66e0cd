package executor

import (
	"testing"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/mocks"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGamingCalculators(t *testing.T) {
	env := testEnv(t)

	out, err := run(t, env, ResourceGaming, OpCalculateLevel, map[string]any{"xp": float64(150)})
	require.NoError(t, err)
	require.Equal(t, 2, out["level"])
	require.Equal(t, int64(300), out["nextLevelXp"])

	out, err = run(t, env, ResourceGaming, OpCalculateElo, map[string]any{
		"playerRating": float64(1500), "opponentRating": float64(1500), "outcome": "WIN",
	})
	require.NoError(t, err)
	require.Equal(t, 16, out["ratingChange"])
	require.Equal(t, 1516, out["newPlayerRating"])
	require.Equal(t, 1484, out["newOpponentRating"])

	out, err = run(t, env, ResourceGaming, OpGetRank, map[string]any{"rating": "1999"})
	require.NoError(t, err)
	require.Equal(t, "Platinum", out["rank"])
	require.Equal(t, "Diamond", out["nextRank"])
	require.Equal(t, 1, out["pointsToNextRank"])

	out, err = run(t, env, ResourceGaming, OpAchievementProgress, map[string]any{"current": float64(5), "target": float64(10)})
	require.NoError(t, err)
	require.Equal(t, 50.0, out["progressPercent"])
	require.Equal(t, false, out["completed"])
}

func TestGamingCalculateEloRejectsOutcome(t *testing.T) {
	_, err := run(t, testEnv(t), ResourceGaming, OpCalculateElo, map[string]any{
		"playerRating": float64(1500), "opponentRating": float64(1500), "outcome": "forfeit",
	})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestGamingCalculateRarity(t *testing.T) {
	out, err := run(t, testEnv(t), ResourceGaming, OpCalculateRarity, map[string]any{
		"traits":      `[{"trait_type":"Background","value":"Gold","count":10},{"trait_type":"Eyes","value":"Laser","count":100}]`,
		"totalSupply": float64(1000),
		"rank":        float64(5),
	})
	require.NoError(t, err)
	require.Equal(t, 110.0, out["rarityScore"])
	require.Equal(t, "Legendary", out["tier"])
	traits := out["traits"].([]map[string]any)
	require.Equal(t, "background", traits[0]["trait_type"])
}

func TestGamingGetPlayerStatsDerivesRatios(t *testing.T) {
	env := testEnv(t)
	api := &mocks.GameAPI{}
	env.API = api

	api.On("Get", mock.Anything, "/v1/game/players/player%201/stats", map[string]string(nil)).Return(map[string]any{
		"wins": 6, "losses": 4, "kills": 30, "deaths": 10, "xp": 150,
	}, nil)

	out, err := run(t, env, ResourceGaming, OpGetPlayerStats, map[string]any{"entityId": "player 1"})
	require.NoError(t, err)
	require.Equal(t, 60.0, out["winRate"])
	require.Equal(t, 3.0, out["kdRatio"])
	require.Equal(t, 2, out["level"])
	api.AssertExpectations(t)
}

func TestGamingSubmitScore(t *testing.T) {
	env := testEnv(t)
	api := &mocks.GameAPI{}
	env.API = api

	api.On("Post", mock.Anything, "/v1/game/leaderboards/weekly/scores", map[string]any{
		"entityId": "p1", "score": int64(900),
	}).Return(map[string]any{"rank": 3}, nil)

	out, err := run(t, env, ResourceGaming, OpSubmitScore, map[string]any{
		"leaderboardId": "weekly", "entityId": "p1", "score": float64(900),
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, out["rank"])
	require.Equal(t, true, out["submitted"])

	_, err = run(t, env, ResourceGaming, OpSubmitScore, map[string]any{
		"leaderboardId": "weekly", "entityId": "p1", "score": float64(-1),
	})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
	api.AssertNumberOfCalls(t, "Post", 1)
}
