package game

import (
	"math/rand"

	"github.com/UParthsarathi/3Poker-exp/card"
)

// Action is one submission against the engine, from a human UI, the bot
// policy, or a replicated remote caller. The same surface serves them all.
type Action struct {
	Type   ActionType `json:"type"`
	Seat   int        `json:"seat"`
	CardA  card.Card  `json:"card_a,omitempty"`
	CardB  card.Card  `json:"card_b,omitempty"`
	Source DrawSource `json:"source,omitempty"`
}

// Apply is the reducer: it validates the action against the current state
// and returns a full replacement state, never mutating the input. A non-nil
// error means the action was rejected and the input state is still current.
//
// rng feeds round dealing and discard-pile recycling only.
func Apply(s *State, a Action, rng *rand.Rand) (*State, error) {
	if s == nil {
		return nil, ErrMatchNotStarted
	}
	switch a.Type {
	case ActionDeclareRoundEnd:
		return applyDeclare(s, a)
	case ActionTossPair:
		return applyToss(s, a)
	case ActionDiscard:
		return applyDiscard(s, a)
	case ActionDraw:
		return applyDraw(s, a, rng)
	case ActionAdvanceRound:
		return applyAdvanceRound(s, a, rng)
	case ActionAdvanceMatch:
		return applyAdvanceMatch(s, a)
	default:
		return nil, reject(a, ErrWrongPhase)
	}
}

func requireTurn(s *State, a Action, phases ...Phase) error {
	ok := false
	for _, p := range phases {
		if s.Phase == p {
			ok = true
			break
		}
	}
	if !ok {
		return reject(a, ErrWrongPhase)
	}
	if a.Seat != s.ActiveSeat {
		return reject(a, ErrNotYourTurn)
	}
	return nil
}

func applyDeclare(s *State, a Action) (*State, error) {
	if err := requireTurn(s, a, PhaseTurnStart); err != nil {
		return nil, err
	}
	next := s.Clone()
	next.ActivePlayer().LastAction = "show"
	next.log("seat %d calls show", a.Seat)
	endRound(next, a.Seat)
	return next, nil
}

func applyToss(s *State, a Action) (*State, error) {
	if err := requireTurn(s, a, PhaseTurnStart); err != nil {
		return nil, err
	}
	if s.TossedThisTurn {
		return nil, reject(a, ErrTossAlreadyUsed)
	}
	if a.CardA == a.CardB {
		return nil, reject(a, ErrSameCard)
	}
	hand := s.ActivePlayer().Hand
	if !hand.Contains(a.CardA) || !hand.Contains(a.CardB) {
		return nil, reject(a, ErrCardNotInHand)
	}
	// Any shared rank tosses, the wildcard rank included. Tossing wildcards
	// is a bad idea, not an illegal one.
	if a.CardA.Rank() != a.CardB.Rank() {
		return nil, reject(a, ErrRankMismatch)
	}

	next := s.Clone()
	p := next.ActivePlayer()
	p.Hand.Remove(a.CardA)
	p.Hand.Remove(a.CardB)
	next.PendingToss = card.CardList{a.CardA, a.CardB}
	next.TossedThisTurn = true
	next.Phase = PhaseTossingDraw
	p.LastAction = "toss"
	next.log("seat %d tosses a pair of %ss", a.Seat, rankName(a.CardA.Rank()))
	return next, nil
}

func applyDiscard(s *State, a Action) (*State, error) {
	if err := requireTurn(s, a, PhaseTurnStart); err != nil {
		return nil, err
	}
	if !s.ActivePlayer().Hand.Contains(a.CardA) {
		return nil, reject(a, ErrCardNotInHand)
	}

	next := s.Clone()
	p := next.ActivePlayer()
	p.Hand.Remove(a.CardA)
	next.PendingDiscard = card.CardList{a.CardA}
	next.LastDiscarded = a.CardA
	next.Phase = PhaseDrawing
	p.LastAction = "discard"
	next.log("seat %d discards %v", a.Seat, a.CardA)
	return next, nil
}

func applyDraw(s *State, a Action, rng *rand.Rand) (*State, error) {
	if err := requireTurn(s, a, PhaseDrawing, PhaseTossingDraw); err != nil {
		return nil, err
	}

	switch a.Source {
	case DrawFromDiscard:
		if s.DiscardPile.Count() == 0 {
			if s.DrawPile.Count() == 0 {
				// Deadlock: nothing drawable anywhere, whichever pile was
				// asked for. Same forced ending as the pile path.
				next := s.Clone()
				next.log("no drawable cards left; seat %d forced to show", a.Seat)
				next.ActivePlayer().LastAction = "show"
				endRound(next, a.Seat)
				return next, nil
			}
			return nil, reject(a, ErrDiscardPileEmpty)
		}
		// The reclaim ban only applies post-discard: a toss never sets the
		// last-discarded marker.
		if s.Phase == PhaseDrawing && s.DiscardPile.Top() == s.LastDiscarded {
			return nil, reject(a, ErrReclaimForbidden)
		}
		next := s.Clone()
		drawn := next.DiscardPile.PopTop()
		next.ActivePlayer().Hand.Add(drawn)
		next.log("seat %d draws the discard top", a.Seat)
		finishTurn(next)
		return next, nil

	case DrawFromPile:
		next := s.Clone()
		if next.DrawPile.Count() == 0 {
			draw, discard, err := card.Recycle(next.DiscardPile, rng)
			if err != nil {
				// Deadlock: nothing drawable anywhere. Force the round to
				// end with the stuck seat as caller instead of wedging.
				next.log("no drawable cards left; seat %d forced to show", a.Seat)
				next.ActivePlayer().LastAction = "show"
				endRound(next, a.Seat)
				return next, nil
			}
			next.DrawPile, next.DiscardPile = draw, discard
			next.log("discard pile recycled into a fresh draw pile")
		}
		drawn := next.DrawPile.PopTop()
		next.ActivePlayer().Hand.Add(drawn)
		next.log("seat %d draws from the pile", a.Seat)
		finishTurn(next)
		return next, nil

	default:
		return nil, reject(a, ErrWrongPhase)
	}
}

// finishTurn commits the pending buffers to the discard pile (toss first,
// then discard), clears the per-turn markers and rotates the active seat.
func finishTurn(s *State) {
	s.DiscardPile.Add(s.PendingToss...)
	s.DiscardPile.Add(s.PendingDiscard...)
	s.PendingToss = nil
	s.PendingDiscard = nil
	s.TossedThisTurn = false
	s.LastDiscarded = card.CardInvalid
	s.ActiveSeat = (s.ActiveSeat + 1) % len(s.Players)
	s.Phase = PhaseTurnStart
}

// endRound scores every hand, applies the caller tiers and accumulates
// match totals. Pending buffers are committed first so card conservation
// holds through the round boundary.
func endRound(s *State, callerSeat int) {
	s.DiscardPile.Add(s.PendingToss...)
	s.DiscardPile.Add(s.PendingDiscard...)
	s.PendingToss = nil
	s.PendingDiscard = nil
	s.TossedThisTurn = false
	s.LastDiscarded = card.CardInvalid

	scores := RoundScores(s.Players, callerSeat, s.WildcardRank)
	for i := range s.Players {
		p := &s.Players[i]
		p.RoundScore = scores[i]
		p.TotalScore += scores[i]
		p.Caller = i == callerSeat
		s.log("seat %d scores %d (total %d)", i, p.RoundScore, p.TotalScore)
	}
	s.Phase = PhaseRoundEnd
}

func applyAdvanceRound(s *State, a Action, rng *rand.Rand) (*State, error) {
	if s.Phase != PhaseRoundEnd {
		return nil, reject(a, ErrWrongPhase)
	}
	if s.Mode.Online() && a.Seat != HostSeat {
		return nil, reject(a, ErrNotAuthority)
	}
	if s.Round >= s.TotalRounds {
		return nil, reject(a, ErrMatchOver)
	}
	next := s.Clone()
	next.Round++
	startRound(next, rng)
	return next, nil
}

func applyAdvanceMatch(s *State, a Action) (*State, error) {
	if s.Phase != PhaseRoundEnd {
		return nil, reject(a, ErrWrongPhase)
	}
	if s.Mode.Online() && a.Seat != HostSeat {
		return nil, reject(a, ErrNotAuthority)
	}
	if s.Round < s.TotalRounds {
		return nil, reject(a, ErrRoundsRemain)
	}
	next := s.Clone()
	next.Phase = PhaseMatchEnd
	winner := next.Winner()
	if w := next.Seat(winner); w != nil {
		next.log("match over: seat %d (%s) wins with %d", winner, w.Name, w.TotalScore)
	}
	return next, nil
}

// startRound deals a fresh round into s: new shuffled deck, three cards per
// seat, a freshly picked wildcard rank and an empty discard pile. The
// previous round's caller starts, or seat 0 when there is none.
func startRound(s *State, rng *rand.Rand) {
	s.Phase = PhaseSetup

	startSeat := HostSeat
	for i := range s.Players {
		if s.Players[i].Caller {
			startSeat = i
			break
		}
	}

	deck := card.NewShuffledDeck(rng)
	for i := range s.Players {
		p := &s.Players[i]
		p.RoundScore = 0
		p.LastAction = ""
		p.Caller = false
		p.Hand = nil
		for j := 0; j < HandSize; j++ {
			p.Hand.Add(deck.PopTop())
		}
	}

	// Picked uniformly every round; repeats across rounds are expected.
	s.WildcardRank = byte(rng.Intn(13) + 1)

	s.DrawPile = deck
	s.DiscardPile = nil
	s.PendingDiscard = nil
	s.PendingToss = nil
	s.TossedThisTurn = false
	s.LastDiscarded = card.CardInvalid
	s.ActiveSeat = startSeat

	s.log("round %d/%d: wildcard rank %s, seat %d starts",
		s.Round, s.TotalRounds, rankName(s.WildcardRank), startSeat)
	s.Phase = PhaseTurnStart
}

func rankName(r byte) string {
	switch r {
	case 1:
		return "A"
	case 10:
		return "T"
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	default:
		return string('0' + rune(r))
	}
}
