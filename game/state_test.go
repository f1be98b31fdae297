package game

import (
	"testing"

	"github.com/UParthsarathi/3Poker-exp/card"
)

func TestStateCloneIsIndependent(t *testing.T) {
	s := fixedState(t, 5,
		card.CardList{card.CardSpadeA, card.CardSpade2, card.CardSpade3},
		card.CardList{card.CardHeartA, card.CardHeart2, card.CardHeart3},
	)
	s.TurnLog = []string{"round begins"}

	c := s.Clone()
	if c == s {
		t.Fatal("Clone returned the receiver")
	}

	c.Players[0].Hand.Remove(card.CardSpadeA)
	c.DrawPile.PopTop()
	c.TurnLog = append(c.TurnLog, "mutated copy")

	if !s.Players[0].Hand.Contains(card.CardSpadeA) {
		t.Fatal("mutating the clone's hand reached the original")
	}
	if s.DrawPile.Count() == c.DrawPile.Count() {
		t.Fatal("mutating the clone's draw pile reached the original")
	}
	if len(s.TurnLog) != 1 {
		t.Fatalf("original turn log grew: %v", s.TurnLog)
	}
}

func TestStateCloneNil(t *testing.T) {
	var s *State
	if s.Clone() != nil {
		t.Fatal("nil state must clone to nil")
	}
}
