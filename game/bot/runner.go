package bot

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/UParthsarathi/3Poker-exp/game"
)

// Runner drives automated seats on a single match. It watches every state
// the engine publishes and, whenever the active seat is a bot, schedules
// one decision after a think delay and submits it through the normal
// action surface. Each bot step produces a new state, which re-triggers
// the runner, so multi-step turns (toss, discard, draw) resolve one
// action at a time.
type Runner struct {
	g       *game.Game
	decider Decider
	log     zerolog.Logger

	mu      sync.Mutex
	pending *time.Timer
	stopped bool

	baseDelay time.Duration
	jitter    time.Duration
	rng       *rand.Rand
}

// RunnerOption tweaks Runner construction.
type RunnerOption func(*Runner)

// WithThinkDelay overrides the base delay and jitter. Zero for both makes
// decisions synchronous-ish, which the tests rely on.
func WithThinkDelay(base, jitter time.Duration) RunnerOption {
	return func(r *Runner) {
		r.baseDelay = base
		r.jitter = jitter
	}
}

// WithDecider swaps the default Policy for another Decider.
func WithDecider(d Decider) RunnerOption {
	return func(r *Runner) { r.decider = d }
}

// NewRunner attaches a runner to g as its observer.
func NewRunner(g *game.Game, log zerolog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		g:         g,
		decider:   Policy{},
		log:       log.With().Str("component", "bot").Logger(),
		baseDelay: 600 * time.Millisecond,
		jitter:    900 * time.Millisecond,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(r)
	}
	g.SetObserver(r.OnState)
	return r
}

// Stop cancels any scheduled decision. The runner stays attached but
// goes inert.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
}

// OnState feeds one published state to the runner. NewRunner wires it as
// the engine observer; hosts that multiplex the observer call it directly.
func (r *Runner) OnState(s *game.State) {
	seat := r.botToAct(s)
	if seat == game.InvalidSeat {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if r.pending != nil {
		r.pending.Stop()
	}
	delay := r.baseDelay
	if r.jitter > 0 {
		delay += time.Duration(r.rng.Int63n(int64(r.jitter)))
	}
	r.pending = time.AfterFunc(delay, func() { r.act(seat) })
}

// botToAct reports which bot seat should move in state s, or InvalidSeat.
func (r *Runner) botToAct(s *game.State) int {
	switch s.Phase {
	case game.PhaseTurnStart, game.PhaseDrawing, game.PhaseTossingDraw:
	default:
		return game.InvalidSeat
	}
	p := s.ActivePlayer()
	if p == nil || !p.Bot {
		return game.InvalidSeat
	}
	return s.ActiveSeat
}

func (r *Runner) act(seat int) {
	r.mu.Lock()
	r.pending = nil
	stopped := r.stopped
	r.mu.Unlock()
	if stopped {
		return
	}

	snap := r.g.Snapshot()
	if r.botToAct(snap) != seat {
		return // state moved on while we were thinking
	}

	d := r.decider.Decide(NewTurnView(snap, seat))
	action := game.Action{
		Type:   d.Type,
		Seat:   seat,
		CardA:  d.CardA,
		CardB:  d.CardB,
		Source: d.Source,
	}

	r.log.Debug().
		Int("seat", seat).
		Str("decider", r.decider.Name()).
		Str("action", d.Type.String()).
		Msg("bot acting")

	if _, err := r.g.Submit(action); err != nil {
		r.log.Warn().Err(err).Int("seat", seat).
			Str("action", d.Type.String()).Msg("bot action rejected")
	}
}
