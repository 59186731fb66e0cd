package gaming

import "math"

// AchievementProgress returns completion percent (clamped to [0, 100]) and
// whether the target is met.
func AchievementProgress(current, target int64) (float64, bool) {
	if target <= 0 {
		return 0, false
	}
	if current < 0 {
		current = 0
	}
	pct := float64(current) / float64(target) * 100
	if pct > 100 {
		pct = 100
	}
	return round2(pct), current >= target
}

// WinRate is wins/games in percent; 0 when no games were played.
func WinRate(wins, games int64) float64 {
	if games <= 0 || wins < 0 {
		return 0
	}
	if wins > games {
		wins = games
	}
	return round2(float64(wins) / float64(games) * 100)
}

// KDRatio is kills/deaths; deaths of zero report kills unchanged.
func KDRatio(kills, deaths int64) float64 {
	if kills <= 0 {
		return 0
	}
	if deaths <= 0 {
		return float64(kills)
	}
	return round2(float64(kills) / float64(deaths))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
