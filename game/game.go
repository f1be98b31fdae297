package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/UParthsarathi/3Poker-exp/card"
)

// Game wraps the reducer with a mutex, an rng and the current state. It is
// the one writer of its own state; replication overwrites it wholesale via
// RestoreSnapshot.
type Game struct {
	cfg Config
	rng *rand.Rand

	mu  sync.Mutex
	cur *State

	// observer is invoked with the new snapshot after every accepted
	// mutation, outside the lock. Bot runners and replication attach here.
	observer func(*State)
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Game{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

// SetObserver registers the change hook. Must be set before play begins.
func (g *Game) SetObserver(fn func(*State)) {
	g.mu.Lock()
	g.observer = fn
	g.mu.Unlock()
}

// StartMatch assembles seats and deals the first round. Legal from scratch
// or after match end; a finished match restarts with fresh scores.
func (g *Game) StartMatch() (*State, error) {
	g.mu.Lock()
	if g.cur != nil && g.cur.Phase != PhaseMatchEnd {
		g.mu.Unlock()
		return nil, ErrMatchInProgress
	}

	s := &State{
		Mode:        g.cfg.Mode,
		Round:       1,
		TotalRounds: g.cfg.TotalRounds,
		ActiveSeat:  HostSeat,
	}
	s.Players = make([]Player, len(g.cfg.Seats))
	for i, seat := range g.cfg.Seats {
		s.Players[i] = Player{Seat: i, Name: seat.Name, Bot: seat.Bot}
	}
	startRound(s, g.rng)
	g.cur = s

	snap := s.Clone()
	observer := g.observer
	g.mu.Unlock()

	if observer != nil {
		observer(snap.Clone())
	}
	return snap, nil
}

// DeclareRoundEnd is the "show" call: the active seat ends the round and is
// scored under the caller tiers.
func (g *Game) DeclareRoundEnd(seat int) (*State, error) {
	return g.apply(Action{Type: ActionDeclareRoundEnd, Seat: seat})
}

// TossPair moves a same-rank pair to the pending-toss buffer. At most one
// toss per turn.
func (g *Game) TossPair(seat int, a, b card.Card) (*State, error) {
	return g.apply(Action{Type: ActionTossPair, Seat: seat, CardA: a, CardB: b})
}

// Discard moves one card to the pending-discard buffer and marks it
// unreclaimable for the rest of the turn.
func (g *Game) Discard(seat int, c card.Card) (*State, error) {
	return g.apply(Action{Type: ActionDiscard, Seat: seat, CardA: c})
}

// Draw completes the turn from either pile, committing pending buffers and
// rotating the active seat. An unservable draw forces the round to end.
func (g *Game) Draw(seat int, source DrawSource) (*State, error) {
	return g.apply(Action{Type: ActionDraw, Seat: seat, Source: source})
}

// AdvanceRound deals the next round. Host-gated in online modes.
func (g *Game) AdvanceRound(seat int) (*State, error) {
	return g.apply(Action{Type: ActionAdvanceRound, Seat: seat})
}

// AdvanceMatch closes the match once the round counter is exhausted.
func (g *Game) AdvanceMatch(seat int) (*State, error) {
	return g.apply(Action{Type: ActionAdvanceMatch, Seat: seat})
}

// Submit applies an arbitrary Action. Remote callers replicate through this.
func (g *Game) Submit(a Action) (*State, error) {
	return g.apply(a)
}

// Snapshot returns a deep copy of the current state, or nil before start.
func (g *Game) Snapshot() *State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cur.Clone()
}

// RestoreSnapshot unconditionally replaces the local state with a received
// authoritative snapshot. No merge: the overwrite is what keeps replicas
// convergent, and applying the same snapshot twice is a no-op.
func (g *Game) RestoreSnapshot(s *State) {
	g.mu.Lock()
	g.cur = s.Clone()
	snap := g.cur.Clone()
	observer := g.observer
	g.mu.Unlock()

	if observer != nil {
		observer(snap)
	}
}

func (g *Game) apply(a Action) (*State, error) {
	g.mu.Lock()
	next, err := Apply(g.cur, a, g.rng)
	if err != nil {
		g.mu.Unlock()
		return nil, err
	}
	g.cur = next
	snap := next.Clone()
	observer := g.observer
	g.mu.Unlock()

	if observer != nil {
		observer(snap.Clone())
	}
	return snap, nil
}
