package gaming

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelForXP(t *testing.T) {
	require.Equal(t, 1, LevelForXP(0))
	require.Equal(t, 1, LevelForXP(-50))
	require.Equal(t, 1, LevelForXP(99))
	require.Equal(t, 2, LevelForXP(100))
	require.Equal(t, 3, LevelForXP(300))
	require.Equal(t, MaxLevel, LevelForXP(math.MaxInt64))

	t.Run("monotonically non-decreasing", func(t *testing.T) {
		prev := LevelForXP(0)
		for xp := int64(0); xp < 600000; xp += 37 {
			lvl := LevelForXP(xp)
			require.GreaterOrEqual(t, lvl, prev, "xp=%d", xp)
			prev = lvl
		}
	})
}

func TestProgressForXP(t *testing.T) {
	p := ProgressForXP(150)
	require.Equal(t, 2, p.Level)
	require.Equal(t, int64(100), p.CurrentLevelXP)
	require.Equal(t, int64(300), p.NextLevelXP)
	require.Equal(t, int64(150), p.XPToNextLevel)
	require.Equal(t, 25.0, p.ProgressPercent)

	top := ProgressForXP(XPForLevel(MaxLevel) + 1)
	require.True(t, top.IsMaxLevel)
	require.Equal(t, 100.0, top.ProgressPercent)
}

func TestEloDelta(t *testing.T) {
	for _, r := range []int{0, 800, 1200, 1500, 2400, 3000} {
		require.Positive(t, EloDelta(r, r, Win, 32), "rating %d", r)
		require.Negative(t, EloDelta(r, r, Loss, 32), "rating %d", r)
		require.Less(t, math.Abs(float64(EloDelta(r, r, Draw, 32))), 5.0, "rating %d", r)
	}

	require.Equal(t, 16, EloDelta(1500, 1500, Win, 32))
	require.Equal(t, 16, EloDelta(1500, 1500, Win, 0))

	t.Run("symmetric", func(t *testing.T) {
		a, b := 1600, 1400
		gainA := EloDelta(a, b, Win, 32)
		lossB := EloDelta(b, a, Loss, 32)
		require.Equal(t, gainA, -lossB)

		newA, newB := UpdateRatings(a, b, Win, 32)
		require.Equal(t, a+gainA, newA)
		require.Equal(t, b+lossB, newB)
	})
}

func TestParseOutcome(t *testing.T) {
	o, ok := ParseOutcome(" WIN ")
	require.True(t, ok)
	require.Equal(t, Win, o)
	_, ok = ParseOutcome("tie")
	require.False(t, ok)
}

func TestRankForRating(t *testing.T) {
	require.Equal(t, "Grandmaster", RankForRating(2500))
	require.Equal(t, "Unranked", RankForRating(500))
	require.Equal(t, "Silver", RankForRating(1000))
	require.Equal(t, "Bronze", RankForRating(999))
	require.Equal(t, "Grandmaster", RankForRating(2400))

	next, need := NextRank(1250)
	require.Equal(t, "Gold", next)
	require.Equal(t, 50, need)

	next, need = NextRank(2600)
	require.Equal(t, "", next)
	require.Zero(t, need)
}

func TestRarity(t *testing.T) {
	traits := []TraitCount{
		{TraitType: "Background", Value: "Gold", Count: 10},
		{TraitType: "Eyes", Value: "Laser", Count: 100},
		{TraitType: "Hat", Value: "None", Count: 0},
	}
	require.Equal(t, 110.0, RarityScore(traits, 1000))
	require.Zero(t, RarityScore(traits, 0))

	require.Equal(t, TierLegendary, RarityTier(1, 1000))
	require.Equal(t, TierEpic, RarityTier(50, 1000))
	require.Equal(t, TierRare, RarityTier(150, 1000))
	require.Equal(t, TierUncommon, RarityTier(400, 1000))
	require.Equal(t, TierCommon, RarityTier(401, 1000))
	require.Equal(t, TierCommon, RarityTier(0, 1000))

	require.Equal(t, 1.0, TraitFrequency(10, 1000))
}

func TestStats(t *testing.T) {
	pct, done := AchievementProgress(5, 10)
	require.Equal(t, 50.0, pct)
	require.False(t, done)

	pct, done = AchievementProgress(15, 10)
	require.Equal(t, 100.0, pct)
	require.True(t, done)

	pct, done = AchievementProgress(5, 0)
	require.Zero(t, pct)
	require.False(t, done)

	require.Zero(t, WinRate(3, 0))
	require.Equal(t, 33.33, WinRate(1, 3))
	require.Equal(t, 5.0, KDRatio(5, 0))
	require.Equal(t, 2.5, KDRatio(5, 2))
	require.Zero(t, KDRatio(0, 2))
}
