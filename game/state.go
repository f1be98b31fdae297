package game

import (
	"fmt"

	"github.com/UParthsarathi/3Poker-exp/card"
)

// Player is one seat's full record. Seat ids are stable for the match;
// seat 0 is the host in online modes.
type Player struct {
	Seat       int           `json:"seat"`
	Name       string        `json:"name"`
	Bot        bool          `json:"bot"`
	Hand       card.CardList `json:"hand"`
	RoundScore int           `json:"round_score"`
	TotalScore int           `json:"total_score"`
	LastAction string        `json:"last_action"`
	Caller     bool          `json:"caller"`
}

// State is the single source of truth for a match: the full authoritative
// snapshot that replication transmits wholesale. Every accepted action
// yields a new, self-consistent State; the previous one is never patched.
type State struct {
	Mode        Mode  `json:"mode"`
	Phase       Phase `json:"phase"`
	Round       int   `json:"round"`
	TotalRounds int   `json:"total_rounds"`

	// WildcardRank is the rank worth zero this round, re-picked each round.
	WildcardRank byte `json:"wildcard_rank"`

	// Back of each pile is the top: next draw / most recent discard.
	DrawPile    card.CardList `json:"draw_pile"`
	DiscardPile card.CardList `json:"discard_pile"`

	Players    []Player `json:"players"`
	ActiveSeat int      `json:"active_seat"`

	// LastDiscarded is the id of the card the active seat just discarded.
	// Drawing it back from the discard pile in the same turn is illegal.
	LastDiscarded card.Card `json:"last_discarded"`

	// Pending buffers hold cards leaving the active hand that are not yet
	// committed to the discard pile. They are flushed on the turn's draw.
	PendingDiscard card.CardList `json:"pending_discard"`
	PendingToss    card.CardList `json:"pending_toss"`

	TossedThisTurn bool `json:"tossed_this_turn"`

	// TurnLog is append-only, display strings only.
	TurnLog []string `json:"turn_log"`
}

// Clone returns a deep copy. Reducer transitions clone first so a rejected
// action can never leave a half-mutated state behind.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.DrawPile = s.DrawPile.Clone()
	out.DiscardPile = s.DiscardPile.Clone()
	out.PendingDiscard = s.PendingDiscard.Clone()
	out.PendingToss = s.PendingToss.Clone()
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		p.Hand = p.Hand.Clone()
		out.Players[i] = p
	}
	out.TurnLog = append([]string(nil), s.TurnLog...)
	return &out
}

// ActivePlayer returns the player at the active seat, or nil.
func (s *State) ActivePlayer() *Player {
	if s.ActiveSeat < 0 || s.ActiveSeat >= len(s.Players) {
		return nil
	}
	return &s.Players[s.ActiveSeat]
}

// Seat returns the player at seat i, or nil.
func (s *State) Seat(i int) *Player {
	if i < 0 || i >= len(s.Players) {
		return nil
	}
	return &s.Players[i]
}

// CardsInPlay counts every card across piles, hands and pending buffers.
// It must equal card.DeckSize for the whole of a round.
func (s *State) CardsInPlay() int {
	n := s.DrawPile.Count() + s.DiscardPile.Count() +
		s.PendingDiscard.Count() + s.PendingToss.Count()
	for _, p := range s.Players {
		n += p.Hand.Count()
	}
	return n
}

// Winner returns the seat with the lowest cumulative score. Ties go to the
// first seat encountered, by seat order.
func (s *State) Winner() int {
	if len(s.Players) == 0 {
		return InvalidSeat
	}
	best := 0
	for i := 1; i < len(s.Players); i++ {
		if s.Players[i].TotalScore < s.Players[best].TotalScore {
			best = i
		}
	}
	return best
}

func (s *State) log(format string, args ...interface{}) {
	s.TurnLog = append(s.TurnLog, fmt.Sprintf(format, args...))
}
