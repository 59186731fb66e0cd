package gaming

// Unranked is reported below the lowest band.
const Unranked = "Unranked"

type rankBand struct {
	name      string
	minRating int
}

// Highest first.
var rankBands = []rankBand{
	{"Grandmaster", 2400},
	{"Master", 2200},
	{"Diamond", 2000},
	{"Platinum", 1600},
	{"Gold", 1300},
	{"Silver", 1000},
	{"Bronze", 800},
}

// RankForRating returns the band whose lower bound is <= rating.
func RankForRating(rating int) string {
	for _, b := range rankBands {
		if rating >= b.minRating {
			return b.name
		}
	}
	return Unranked
}

// NextRank returns the band above rating and the points still needed. The
// top band returns ("", 0).
func NextRank(rating int) (string, int) {
	next, need := "", 0
	for _, b := range rankBands {
		if rating < b.minRating {
			next, need = b.name, b.minRating-rating
		}
	}
	return next, need
}
