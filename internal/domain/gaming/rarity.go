package gaming

import "strings"

// TraitCount is one trait of a token together with how many tokens in the
// collection share it.
type TraitCount struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
	Count     int64  `json:"count"`
}

// RarityScore sums totalSupply/count over the token's traits. Traits with a
// non-positive count are ignored.
func RarityScore(traits []TraitCount, totalSupply int64) float64 {
	if totalSupply <= 0 {
		return 0
	}
	var score float64
	for _, t := range traits {
		if t.Count <= 0 {
			continue
		}
		score += float64(totalSupply) / float64(t.Count)
	}
	return round2(score)
}

// Rarity tiers by percentile rank.
const (
	TierLegendary = "Legendary"
	TierEpic      = "Epic"
	TierRare      = "Rare"
	TierUncommon  = "Uncommon"
	TierCommon    = "Common"
)

// RarityTier classifies a 1-based rank within total tokens.
func RarityTier(rank, total int64) string {
	if rank <= 0 || total <= 0 || rank > total {
		return TierCommon
	}
	pct := float64(rank) / float64(total) * 100
	switch {
	case pct <= 1:
		return TierLegendary
	case pct <= 5:
		return TierEpic
	case pct <= 15:
		return TierRare
	case pct <= 40:
		return TierUncommon
	}
	return TierCommon
}

// TraitFrequency is the share of tokens carrying a trait, in percent.
func TraitFrequency(count, totalSupply int64) float64 {
	if count <= 0 || totalSupply <= 0 {
		return 0
	}
	return round2(float64(count) / float64(totalSupply) * 100)
}

// NormalizeTraitType lowercases and trims a trait key for counting.
func NormalizeTraitType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
