package game

import (
	"testing"

	"github.com/UParthsarathi/3Poker-exp/card"
)

func newTestGame(t *testing.T, seats int) *Game {
	t.Helper()
	cfg := Config{
		Mode:        ModeLocalMultiplayer,
		TotalRounds: 3,
		Seed:        99,
	}
	for i := 0; i < seats; i++ {
		cfg.Seats = append(cfg.Seats, Seat{Name: "p"})
	}
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	return g
}

func TestStartMatch_DealsThreeEach(t *testing.T) {
	g := newTestGame(t, 4)
	s, err := g.StartMatch()
	if err != nil {
		t.Fatalf("StartMatch err: %v", err)
	}
	if s.Phase != PhaseTurnStart {
		t.Fatalf("expected turnstart, got %v", s.Phase)
	}
	if s.Round != 1 {
		t.Fatalf("expected round 1, got %d", s.Round)
	}
	for i := range s.Players {
		if got := s.Seat(i).Hand.Count(); got != HandSize {
			t.Fatalf("seat %d dealt %d cards, want %d", i, got, HandSize)
		}
	}
	if s.DrawPile.Count() != card.DeckSize-4*HandSize {
		t.Fatalf("draw pile %d, want %d", s.DrawPile.Count(), card.DeckSize-4*HandSize)
	}
	if s.DiscardPile.Count() != 0 {
		t.Fatalf("discard pile should start empty")
	}
	if s.CardsInPlay() != card.DeckSize {
		t.Fatalf("card conservation broken at deal: %d", s.CardsInPlay())
	}

	if _, err := g.StartMatch(); err != ErrMatchInProgress {
		t.Fatalf("expected ErrMatchInProgress on restart mid-match, got %v", err)
	}
}

// After N completed turns with no call, the active seat is back where it
// began, and every intermediate state conserves all 52 cards.
func TestTurnRotation_AndConservation(t *testing.T) {
	for _, seats := range []int{2, 3, 4, 7, 10} {
		g := newTestGame(t, seats)
		s, err := g.StartMatch()
		if err != nil {
			t.Fatalf("StartMatch err: %v", err)
		}
		start := s.ActiveSeat

		for turn := 0; turn < seats; turn++ {
			seat := s.ActiveSeat
			s, err = g.Discard(seat, s.Seat(seat).Hand[0])
			if err != nil {
				t.Fatalf("seats=%d turn %d discard err: %v", seats, turn, err)
			}
			if s.CardsInPlay() != card.DeckSize {
				t.Fatalf("seats=%d conservation broken mid-turn: %d", seats, s.CardsInPlay())
			}
			s, err = g.Draw(seat, DrawFromPile)
			if err != nil {
				t.Fatalf("seats=%d turn %d draw err: %v", seats, turn, err)
			}
			if s.CardsInPlay() != card.DeckSize {
				t.Fatalf("seats=%d conservation broken post-turn: %d", seats, s.CardsInPlay())
			}
		}
		if s.ActiveSeat != start {
			t.Fatalf("seats=%d: after %d turns expected seat %d, got %d", seats, seats, start, s.ActiveSeat)
		}
	}
}

func TestGame_FullMatchPlaythrough(t *testing.T) {
	g := newTestGame(t, 3)
	s, err := g.StartMatch()
	if err != nil {
		t.Fatalf("StartMatch err: %v", err)
	}

	for round := 1; round <= s.TotalRounds; round++ {
		// One lap of plain turns, then the active seat calls.
		for turn := 0; turn < len(s.Players); turn++ {
			seat := s.ActiveSeat
			if s, err = g.Discard(seat, s.Seat(seat).Hand[0]); err != nil {
				t.Fatalf("round %d discard err: %v", round, err)
			}
			if s, err = g.Draw(seat, DrawFromPile); err != nil {
				t.Fatalf("round %d draw err: %v", round, err)
			}
		}
		if s, err = g.DeclareRoundEnd(s.ActiveSeat); err != nil {
			t.Fatalf("round %d declare err: %v", round, err)
		}
		if s.Phase != PhaseRoundEnd {
			t.Fatalf("round %d: expected roundend, got %v", round, s.Phase)
		}

		if round < s.TotalRounds {
			if s, err = g.AdvanceRound(0); err != nil {
				t.Fatalf("advance round err: %v", err)
			}
		}
	}

	s, err = g.AdvanceMatch(0)
	if err != nil {
		t.Fatalf("advance match err: %v", err)
	}
	if s.Phase != PhaseMatchEnd {
		t.Fatalf("expected matchend, got %v", s.Phase)
	}
	if w := s.Winner(); w == InvalidSeat {
		t.Fatalf("match must have a winner")
	}

	// MATCH_END exits back to a fresh match.
	if _, err := g.StartMatch(); err != nil {
		t.Fatalf("restart after matchend err: %v", err)
	}
}

func TestGame_ObserverSeesEveryMutation(t *testing.T) {
	g := newTestGame(t, 2)
	var seen []Phase
	g.SetObserver(func(s *State) { seen = append(seen, s.Phase) })

	s, err := g.StartMatch()
	if err != nil {
		t.Fatalf("StartMatch err: %v", err)
	}
	if s, err = g.Discard(s.ActiveSeat, s.Seat(s.ActiveSeat).Hand[0]); err != nil {
		t.Fatalf("discard err: %v", err)
	}
	if _, err = g.Draw(s.ActiveSeat, DrawFromPile); err != nil {
		t.Fatalf("draw err: %v", err)
	}

	want := []Phase{PhaseTurnStart, PhaseDrawing, PhaseTurnStart}
	if len(seen) != len(want) {
		t.Fatalf("observer called %d times, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("observer call %d: phase %v, want %v", i, seen[i], want[i])
		}
	}

	// A rejected action must not reach the observer.
	if _, err := g.Discard(99, card.CardSpadeA); err == nil {
		t.Fatalf("expected rejection")
	}
	if len(seen) != len(want) {
		t.Fatalf("observer notified about a rejected action")
	}
}

func TestEncodeDecodeState_RoundTrip(t *testing.T) {
	g := newTestGame(t, 3)
	s, err := g.StartMatch()
	if err != nil {
		t.Fatalf("StartMatch err: %v", err)
	}
	data, err := EncodeState(s)
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	got, err := DecodeState(data)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if got.CardsInPlay() != card.DeckSize {
		t.Fatalf("decoded state lost cards: %d", got.CardsInPlay())
	}
	if got.WildcardRank != s.WildcardRank || got.ActiveSeat != s.ActiveSeat || got.Phase != s.Phase {
		t.Fatalf("decoded state differs: %+v vs %+v", got, s)
	}
}

func TestRestoreSnapshot_Idempotent(t *testing.T) {
	g := newTestGame(t, 2)
	s, err := g.StartMatch()
	if err != nil {
		t.Fatalf("StartMatch err: %v", err)
	}
	if s, err = g.DeclareRoundEnd(s.ActiveSeat); err != nil {
		t.Fatalf("declare err: %v", err)
	}

	replica := newTestGame(t, 2)
	replica.RestoreSnapshot(s)
	replica.RestoreSnapshot(s) // same snapshot twice

	got := replica.Snapshot()
	for i := range got.Players {
		if got.Seat(i).TotalScore != s.Seat(i).TotalScore {
			t.Fatalf("seat %d total double-counted: %d vs %d", i, got.Seat(i).TotalScore, s.Seat(i).TotalScore)
		}
	}
	if len(got.TurnLog) != len(s.TurnLog) {
		t.Fatalf("turn log duplicated: %d vs %d", len(got.TurnLog), len(s.TurnLog))
	}
}
