package bot

import (
	"github.com/UParthsarathi/3Poker-exp/card"
	"github.com/UParthsarathi/3Poker-exp/game"
)

// ShowThreshold is the hand value at or below which the policy calls show.
const ShowThreshold = 5

// Policy is the fixed-priority heuristic for automated seats. It is
// deterministic given its view: no randomness, no lookahead.
//
// Turn-start priority:
//  1. toss the first non-wildcard same-rank pair, if none tossed yet
//  2. call show when the wildcard-aware hand value is at the threshold
//  3. discard the single highest-value card (wildcards count 0, so they
//     are never discarded ahead of anything that scores)
//
// At draw time it takes the visible discard top when that card is wildcard
// rank and legal to take, otherwise it draws from the pile.
type Policy struct{}

func (Policy) Name() string { return "priority-list" }

func (p Policy) Decide(view TurnView) Decision {
	switch view.Phase {
	case game.PhaseDrawing, game.PhaseTossingDraw:
		return p.decideDraw(view)
	default:
		return p.decideTurnStart(view)
	}
}

func (p Policy) decideTurnStart(view TurnView) Decision {
	if !view.TossedThisTurn {
		if a, b, ok := firstNonWildcardPair(view.Hand, view.WildcardRank); ok {
			return Decision{Type: game.ActionTossPair, CardA: a, CardB: b}
		}
	}

	if game.HandValue(view.Hand, view.WildcardRank) <= ShowThreshold {
		return Decision{Type: game.ActionDeclareRoundEnd}
	}

	return Decision{Type: game.ActionDiscard, CardA: highestCard(view.Hand, view.WildcardRank)}
}

func (p Policy) decideDraw(view TurnView) Decision {
	top := view.DiscardTop
	if top != card.CardInvalid && top.Rank() == view.WildcardRank {
		reclaimBanned := view.Phase == game.PhaseDrawing && top == view.LastDiscarded
		if !reclaimBanned {
			return Decision{Type: game.ActionDraw, Source: game.DrawFromDiscard}
		}
	}
	return Decision{Type: game.ActionDraw, Source: game.DrawFromPile}
}

// firstNonWildcardPair scans the hand in order for two cards sharing a rank
// other than the wildcard rank.
func firstNonWildcardPair(hand card.CardList, wildcardRank byte) (a, b card.Card, ok bool) {
	for i := 0; i < len(hand); i++ {
		if hand[i].Rank() == wildcardRank {
			continue
		}
		for j := i + 1; j < len(hand); j++ {
			if hand[j].Rank() == hand[i].Rank() {
				return hand[i], hand[j], true
			}
		}
	}
	return card.CardInvalid, card.CardInvalid, false
}

// highestCard picks the card worth the most, counting wildcards as 0.
// Earlier cards win ties so the choice is stable.
func highestCard(hand card.CardList, wildcardRank byte) card.Card {
	best := card.CardInvalid
	bestVal := -1
	for _, c := range hand {
		v := c.FaceValue()
		if c.Rank() == wildcardRank {
			v = 0
		}
		if v > bestVal {
			best, bestVal = c, v
		}
	}
	return best
}
