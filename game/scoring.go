package game

import "github.com/UParthsarathi/3Poker-exp/card"

// HandValue sums a hand's face values, counting every card of the wildcard
// rank as zero.
func HandValue(hand []card.Card, wildcardRank byte) int {
	total := 0
	for _, c := range hand {
		if c.Rank() == wildcardRank {
			continue
		}
		total += c.FaceValue()
	}
	return total
}

// RoundScores computes each seat's score for a finished round.
//
// Non-callers score their own hand value. The caller is forced to one of
// three tiers: 0 when uniquely lowest, TiePenalty when lowest but tied,
// MisCallPenalty when not lowest at all.
func RoundScores(players []Player, callerSeat int, wildcardRank byte) []int {
	scores := make([]int, len(players))
	lowest := -1
	winnersCount := 0
	for i, p := range players {
		v := HandValue(p.Hand, wildcardRank)
		scores[i] = v
		if lowest == -1 || v < lowest {
			lowest = v
			winnersCount = 1
		} else if v == lowest {
			winnersCount++
		}
	}
	if callerSeat < 0 || callerSeat >= len(players) {
		return scores
	}

	switch {
	case scores[callerSeat] == lowest && winnersCount == 1:
		scores[callerSeat] = 0
	case scores[callerSeat] == lowest:
		scores[callerSeat] = TiePenalty
	default:
		scores[callerSeat] = MisCallPenalty
	}
	return scores
}
