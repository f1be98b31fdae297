// Package bot holds the automated-player policy and its scheduler. The
// policy is a pure function of the visible turn context; the Runner feeds it
// through the same action surface human callers use.
package bot

import (
	"github.com/UParthsarathi/3Poker-exp/card"
	"github.com/UParthsarathi/3Poker-exp/game"
)

// TurnView is the read-only projection of the state a bot is allowed to see
// on its turn: its own hand, the public piles and the per-turn flags.
type TurnView struct {
	Phase          game.Phase
	Hand           card.CardList
	WildcardRank   byte
	TossedThisTurn bool
	DiscardTop     card.Card // CardInvalid when the pile is empty
	LastDiscarded  card.Card // reclaim marker, CardInvalid when clear
}

// Decision is the single action a Decider produces for a turn step.
type Decision struct {
	Type   game.ActionType
	CardA  card.Card
	CardB  card.Card
	Source game.DrawSource
}

// Decider is the decision interface for automated seats.
type Decider interface {
	// Decide is called when it is the bot's turn, once per turn step
	// (turn-start choice, then the mandatory draw).
	Decide(view TurnView) Decision
	// Name identifies the policy for logs.
	Name() string
}

// NewTurnView projects a snapshot for the seat about to act.
func NewTurnView(s *game.State, seat int) TurnView {
	view := TurnView{
		Phase:          s.Phase,
		WildcardRank:   s.WildcardRank,
		TossedThisTurn: s.TossedThisTurn,
		DiscardTop:     s.DiscardPile.Top(),
		LastDiscarded:  s.LastDiscarded,
	}
	if p := s.Seat(seat); p != nil {
		view.Hand = p.Hand.Clone()
	}
	return view
}
