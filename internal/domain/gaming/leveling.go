// Package gaming holds the pure calculators behind the gaming, player and
// collection operations: leveling, ELO, rank bands, rarity and progress
// statistics. Every function is total over its inputs.
package gaming

import "sort"

// MaxLevel is the last entry of the level table.
const MaxLevel = 100

// levelThresholds[i] is the total XP required to reach level i+1.
var levelThresholds = buildLevelThresholds(MaxLevel)

func buildLevelThresholds(levels int) []int64 {
	out := make([]int64, levels)
	for n := 1; n <= levels; n++ {
		out[n-1] = 50 * int64(n) * int64(n-1)
	}
	return out
}

// LevelForXP returns the highest level whose threshold does not exceed xp.
func LevelForXP(xp int64) int {
	if xp <= 0 {
		return 1
	}
	// first index whose threshold is greater than xp
	i := sort.Search(len(levelThresholds), func(i int) bool { return levelThresholds[i] > xp })
	return i
}

// XPForLevel returns the total XP needed to reach level. Levels are clamped to
// [1, MaxLevel].
func XPForLevel(level int) int64 {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelThresholds[level-1]
}

// LevelProgress describes where xp sits inside its level.
type LevelProgress struct {
	Level           int
	CurrentLevelXP  int64
	NextLevelXP     int64 // 0 at MaxLevel
	XPIntoLevel     int64
	XPToNextLevel   int64
	ProgressPercent float64
	IsMaxLevel      bool
}

func ProgressForXP(xp int64) LevelProgress {
	if xp < 0 {
		xp = 0
	}
	level := LevelForXP(xp)
	p := LevelProgress{
		Level:          level,
		CurrentLevelXP: XPForLevel(level),
		XPIntoLevel:    xp - XPForLevel(level),
	}
	if level >= MaxLevel {
		p.IsMaxLevel = true
		p.ProgressPercent = 100
		return p
	}
	p.NextLevelXP = XPForLevel(level + 1)
	span := p.NextLevelXP - p.CurrentLevelXP
	p.XPToNextLevel = p.NextLevelXP - xp
	p.ProgressPercent = round2(float64(p.XPIntoLevel) / float64(span) * 100)
	return p
}
