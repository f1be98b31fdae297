package bot

import (
	"testing"

	"github.com/UParthsarathi/3Poker-exp/card"
	"github.com/UParthsarathi/3Poker-exp/game"
)

func turnStartView(hand card.CardList, wildcard byte) TurnView {
	return TurnView{
		Phase:        game.PhaseTurnStart,
		Hand:         hand,
		WildcardRank: wildcard,
	}
}

func TestPolicyTossesFirstNonWildcardPair(t *testing.T) {
	view := turnStartView(card.CardList{card.CardSpade9, card.CardHeart9, card.CardClubK}, 5)

	d := Policy{}.Decide(view)
	if d.Type != game.ActionTossPair {
		t.Fatalf("expected toss, got %v", d.Type)
	}
	if d.CardA != card.CardSpade9 || d.CardB != card.CardHeart9 {
		t.Fatalf("tossed %v/%v, want the nines", d.CardA, d.CardB)
	}
}

func TestPolicyNeverTossesWildcardPair(t *testing.T) {
	// Two wildcards are worth zero in hand; the only pair is the wildcard
	// pair, so the policy must skip the toss. Hand value is 10, above the
	// show threshold, so it discards the king instead.
	view := turnStartView(card.CardList{card.CardSpade5, card.CardHeart5, card.CardClubK}, 5)

	d := Policy{}.Decide(view)
	if d.Type != game.ActionDiscard {
		t.Fatalf("expected discard, got %v", d.Type)
	}
	if d.CardA != card.CardClubK {
		t.Fatalf("discarded %v, want K club", d.CardA)
	}
}

func TestPolicyDeclaresAtThreshold(t *testing.T) {
	// A + 2 + wildcard = 3, comfortably under the threshold.
	view := turnStartView(card.CardList{card.CardSpadeA, card.CardHeart2, card.CardClub9}, 9)

	d := Policy{}.Decide(view)
	if d.Type != game.ActionDeclareRoundEnd {
		t.Fatalf("expected declare, got %v", d.Type)
	}
}

func TestPolicyDiscardsHighestNonWildcard(t *testing.T) {
	// The king is the wildcard and counts zero, so the ten must go even
	// though the king has the larger face value.
	view := turnStartView(card.CardList{card.CardSpadeK, card.CardHeartT, card.CardClub4}, 13)

	d := Policy{}.Decide(view)
	if d.Type != game.ActionDiscard {
		t.Fatalf("expected discard, got %v", d.Type)
	}
	if d.CardA != card.CardHeartT {
		t.Fatalf("discarded %v, want the ten", d.CardA)
	}
}

func TestPolicySkipsTossAfterOneUse(t *testing.T) {
	view := turnStartView(card.CardList{card.CardSpade9, card.CardHeart9, card.CardClubK}, 5)
	view.TossedThisTurn = true

	d := Policy{}.Decide(view)
	if d.Type == game.ActionTossPair {
		t.Fatalf("tossed twice in one turn")
	}
}

func TestPolicyDrawPrefersWildcardOnDiscard(t *testing.T) {
	view := TurnView{
		Phase:        game.PhaseDrawing,
		Hand:         card.CardList{card.CardSpadeK, card.CardHeartT, card.CardClub4},
		WildcardRank: 7,
		DiscardTop:   card.CardDiamond7,
	}

	d := Policy{}.Decide(view)
	if d.Type != game.ActionDraw || d.Source != game.DrawFromDiscard {
		t.Fatalf("expected draw from discard, got %v source=%v", d.Type, d.Source)
	}
}

func TestPolicyDrawRespectsReclaimBan(t *testing.T) {
	view := TurnView{
		Phase:         game.PhaseDrawing,
		Hand:          card.CardList{card.CardSpadeK, card.CardHeartT, card.CardClub4},
		WildcardRank:  7,
		DiscardTop:    card.CardDiamond7,
		LastDiscarded: card.CardDiamond7,
	}

	d := Policy{}.Decide(view)
	if d.Source != game.DrawFromPile {
		t.Fatalf("reclaimed the card it just discarded")
	}

	// After a toss the reclaim ban is lifted.
	view.Phase = game.PhaseTossingDraw
	d = Policy{}.Decide(view)
	if d.Source != game.DrawFromDiscard {
		t.Fatalf("expected discard draw in tossing-draw phase, got %v", d.Source)
	}
}

func TestPolicyDrawFallsBackToPile(t *testing.T) {
	view := TurnView{
		Phase:        game.PhaseDrawing,
		Hand:         card.CardList{card.CardSpadeK, card.CardHeartT, card.CardClub4},
		WildcardRank: 7,
		DiscardTop:   card.CardClub2,
	}

	d := Policy{}.Decide(view)
	if d.Type != game.ActionDraw || d.Source != game.DrawFromPile {
		t.Fatalf("expected pile draw, got %v source=%v", d.Type, d.Source)
	}

	view.DiscardTop = card.CardInvalid
	if d := (Policy{}).Decide(view); d.Source != game.DrawFromPile {
		t.Fatalf("expected pile draw on empty discard, got %v", d.Source)
	}
}
