package game

import (
	"testing"

	"github.com/UParthsarathi/3Poker-exp/card"
)

func TestHandValue_WildcardZeroing(t *testing.T) {
	hand := []card.Card{card.CardDiamond7, card.CardSpade7, card.CardClubK}
	if got := HandValue(hand, 7); got != card.FaceCardValue {
		t.Fatalf("expected only the king to count (=%d), got %d", card.FaceCardValue, got)
	}
	// Same hand, no wildcard match: everything counts.
	if got := HandValue(hand, 4); got != 7+7+card.FaceCardValue {
		t.Fatalf("expected %d, got %d", 7+7+card.FaceCardValue, got)
	}
}

func lowHand(suit card.Card) card.CardList {
	// A,2,3 of one suit: value 6 under any wildcard rank above 3.
	return card.CardList{suit + 0x01, suit + 0x02, suit + 0x03}
}

func highHand(suit card.Card) card.CardList {
	// J,Q,K of one suit: value 30.
	return card.CardList{suit + 0x0B, suit + 0x0C, suit + 0x0D}
}

func TestRoundScores_UniqueLowCallerScoresZero(t *testing.T) {
	players := []Player{
		{Seat: 0, Hand: lowHand(0x00)},  // 6, the caller
		{Seat: 1, Hand: highHand(0x10)}, // 30
		{Seat: 2, Hand: highHand(0x20)}, // 30
		{Seat: 3, Hand: highHand(0x30)}, // 30
	}
	scores := RoundScores(players, 0, 7)
	if scores[0] != 0 {
		t.Fatalf("unique low caller should score 0, got %d", scores[0])
	}
	for seat := 1; seat < 4; seat++ {
		if scores[seat] != 30 {
			t.Fatalf("seat %d should score its hand value 30, got %d", seat, scores[seat])
		}
	}
}

func TestRoundScores_TiedLowCallerPaysTiePenalty(t *testing.T) {
	players := []Player{
		{Seat: 0, Hand: lowHand(0x00)},  // 6, the caller
		{Seat: 1, Hand: lowHand(0x10)},  // 6 as well
		{Seat: 2, Hand: highHand(0x20)}, // 30
		{Seat: 3, Hand: highHand(0x30)}, // 30
	}
	scores := RoundScores(players, 0, 7)
	if scores[0] != TiePenalty {
		t.Fatalf("tied low caller should score %d, got %d", TiePenalty, scores[0])
	}
	if scores[1] != 6 {
		t.Fatalf("non-caller tied seat keeps its hand value 6, got %d", scores[1])
	}
}

func TestRoundScores_MisCallPaysMisCallPenalty(t *testing.T) {
	players := []Player{
		// 2+3+T = 15, the caller, but seat 1 holds 6.
		{Seat: 0, Hand: card.CardList{card.CardSpade2, card.CardSpade3, card.CardSpadeT}},
		{Seat: 1, Hand: lowHand(0x10)},
		{Seat: 2, Hand: highHand(0x20)},
		{Seat: 3, Hand: highHand(0x30)},
	}
	scores := RoundScores(players, 0, 7)
	if scores[0] != MisCallPenalty {
		t.Fatalf("mis-calling caller should score %d, got %d", MisCallPenalty, scores[0])
	}
	if scores[1] != 6 {
		t.Fatalf("actual lowest seat keeps its hand value, got %d", scores[1])
	}
}

func TestRoundScores_WildcardAware(t *testing.T) {
	// Caller holds a pair of wildcards plus an ace: value 1.
	players := []Player{
		{Seat: 0, Hand: card.CardList{card.CardSpade7, card.CardHeart7, card.CardClubA}},
		{Seat: 1, Hand: lowHand(0x30)},
	}
	scores := RoundScores(players, 0, 7)
	if scores[0] != 0 {
		t.Fatalf("caller at 1 vs 6 should score 0, got %d", scores[0])
	}
}
