package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/UParthsarathi/3Poker-exp/game"
	"github.com/UParthsarathi/3Poker-exp/game/bot"
	"github.com/UParthsarathi/3Poker-exp/internal/room"
	"github.com/UParthsarathi/3Poker-exp/internal/session"
)

var (
	// ErrSessionInvalid means the saved session points at a room that no
	// longer exists. The stale session is cleared before this is returned.
	ErrSessionInvalid = errors.New("client: saved session is no longer valid")
	ErrNoRoom         = errors.New("client: not in a room")
	ErrNotHost        = errors.New("client: operation requires the writer token")
	ErrNotYourSeat    = errors.New("client: action is for another seat")
)

const pushTimeout = 10 * time.Second

// Client is one participant. Every participant holds a full local copy of
// the match and applies its own actions to it immediately; the host's copy
// is the authoritative one and is pushed wholesale after every accepted
// action. Non-hosts converge by overwriting their copy with each received
// snapshot.
type Client struct {
	transport Transport
	sessions  session.Store
	log       zerolog.Logger

	mu      sync.Mutex
	code    string
	seat    int
	name    string
	token   string // writer token, empty on non-hosts
	room    *room.Room
	eng     *game.Game  // host's engine
	replica *game.State // non-host copy
	rng     *rand.Rand  // drives non-host optimistic applies
	runner  *bot.Runner
	cancel  func()

	botBase   time.Duration
	botJitter time.Duration

	// OnUpdate, when set before joining, is invoked with each new local
	// snapshot (own action or received push). Rendering hangs off this.
	OnUpdate func(*game.State)
}

type Option func(*Client)

// WithBotDelay sets the automated seats' think delay when this client
// hosts. Zero for both plays instantly.
func WithBotDelay(base, jitter time.Duration) Option {
	return func(c *Client) {
		c.botBase = base
		c.botJitter = jitter
	}
}

func New(transport Transport, sessions session.Store, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		sessions:  sessions,
		log:       log.With().Str("component", "client").Logger(),
		seat:      game.InvalidSeat,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		botBase:   600 * time.Millisecond,
		botJitter: 900 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CreateRoom opens a room with this participant as host (seat 0) and
// persists the session, writer token included.
func (c *Client) CreateRoom(ctx context.Context, name string, maxSeats int) (string, error) {
	r, token, err := c.transport.CreateRoom(ctx, name, maxSeats)
	if err != nil {
		return "", err
	}
	if err := c.enterRoom(ctx, r, game.HostSeat, name, token); err != nil {
		return "", err
	}
	return r.Code, nil
}

// JoinRoom takes a free seat in an existing room and persists the session.
func (c *Client) JoinRoom(ctx context.Context, code, name string) (int, error) {
	r, seat, err := c.transport.JoinRoom(ctx, code, name)
	if err != nil {
		return game.InvalidSeat, err
	}
	if err := c.enterRoom(ctx, r, seat, name, ""); err != nil {
		return game.InvalidSeat, err
	}
	return seat, nil
}

// Resume rehydrates from the persisted session. Returns (false, nil) when
// no session exists; ErrSessionInvalid (after clearing) when the room is
// gone. On success the local snapshot and seat role come from the fetched
// record, not from replaying history.
func (c *Client) Resume(ctx context.Context) (bool, error) {
	sess, ok, err := c.sessions.Load(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	r, err := c.transport.FetchRoom(ctx, sess.Code)
	if errors.Is(err, room.ErrNotFound) {
		_ = c.sessions.Clear(ctx)
		return false, ErrSessionInvalid
	}
	if err != nil {
		return false, err
	}

	if err := c.enterRoom(ctx, r, sess.Seat, sess.Name, sess.WriterToken); err != nil {
		return false, err
	}

	if st, err := game.DecodeState(r.GameState); err == nil && st != nil {
		c.rehydrate(st)
	}
	c.log.Info().Str("code", r.Code).Int("seat", sess.Seat).Msg("session resumed")
	return true, nil
}

// enterRoom stores membership, persists the session and starts the update
// feed.
func (c *Client) enterRoom(ctx context.Context, r *room.Room, seat int, name, token string) error {
	if err := c.sessions.Save(ctx, session.Session{
		Code:        r.Code,
		Seat:        seat,
		Name:        name,
		WriterToken: token,
	}); err != nil {
		return err
	}

	updates, cancel, err := c.transport.Subscribe(ctx, r.Code, seat)
	if err != nil {
		return err
	}

	// The writer also drains the actions the other seats offer.
	var actions <-chan json.RawMessage
	if token != "" {
		var cancelActions func()
		actions, cancelActions, err = c.transport.SubscribeActions(ctx, r.Code, token)
		if err != nil {
			cancel()
			return err
		}
		outer := cancel
		cancel = func() {
			outer()
			cancelActions()
		}
	}

	c.mu.Lock()
	c.code = r.Code
	c.seat = seat
	c.name = name
	c.token = token
	c.room = r
	c.cancel = cancel
	c.mu.Unlock()

	go c.watch(updates)
	if actions != nil {
		go c.relay(actions)
	}
	return nil
}

// relay applies actions offered by the other seats to the host's engine.
// A rejected action is the offering seat's problem: its optimistic copy is
// overwritten by the next accepted snapshot.
func (c *Client) relay(actions <-chan json.RawMessage) {
	for raw := range actions {
		a, err := game.DecodeAction(raw)
		if err != nil {
			c.log.Warn().Err(err).Msg("bad relayed action")
			continue
		}
		c.mu.Lock()
		eng := c.eng
		c.mu.Unlock()
		if eng == nil {
			c.log.Warn().Int("seat", a.Seat).Msg("relayed action before match start")
			continue
		}
		if _, err := eng.Submit(a); err != nil {
			c.log.Warn().Err(err).Int("seat", a.Seat).Msg("relayed action rejected")
		}
	}
}

// rehydrate restores the local copy from an authoritative snapshot, for
// hosts rebuilding their engine after a restart.
func (c *Client) rehydrate(st *game.State) {
	c.mu.Lock()

	if c.token == "" {
		c.replica = st.Clone()
		c.mu.Unlock()
		return
	}

	cfg := configFromState(st)
	eng, err := game.NewGame(cfg)
	if err != nil {
		c.log.Warn().Err(err).Msg("could not rebuild engine from snapshot")
		c.replica = st.Clone()
		c.mu.Unlock()
		return
	}
	c.attachEngineLocked(eng)
	c.mu.Unlock()

	// RestoreSnapshot invokes the observer synchronously, and the observer
	// takes c.mu; the lock must be free here.
	eng.RestoreSnapshot(st)
}

// configFromState reconstructs enough configuration to resume hosting.
func configFromState(st *game.State) game.Config {
	cfg := game.Config{
		Mode:        game.ModeOnlineHost,
		TotalRounds: st.TotalRounds,
	}
	for _, p := range st.Players {
		cfg.Seats = append(cfg.Seats, game.Seat{Name: p.Name, Bot: p.Bot})
	}
	return cfg
}

// StartMatch deals the first round. Host only: seats come from the room's
// members in seat order, plus the requested number of automated seats.
func (c *Client) StartMatch(ctx context.Context, totalRounds, bots int, seed int64) error {
	c.mu.Lock()
	r := c.room
	token := c.token
	c.mu.Unlock()

	if r == nil {
		return ErrNoRoom
	}
	if token == "" {
		return ErrNotHost
	}

	cfg := game.Config{
		Mode:        game.ModeOnlineHost,
		TotalRounds: totalRounds,
		Seed:        seed,
	}
	for _, m := range r.Members {
		cfg.Seats = append(cfg.Seats, game.Seat{Name: m.Name, Bot: m.Bot})
	}
	for i := 0; i < bots; i++ {
		cfg.Seats = append(cfg.Seats, game.Seat{Name: fmt.Sprintf("bot %d", i+1), Bot: true})
	}

	eng, err := game.NewGame(cfg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.attachEngineLocked(eng)
	c.mu.Unlock()

	_, err = eng.StartMatch()
	return err
}

// attachEngineLocked wires the engine's observer chain: bot scheduling,
// then replication. Caller holds c.mu.
func (c *Client) attachEngineLocked(eng *game.Game) {
	if c.runner != nil {
		c.runner.Stop()
	}
	c.eng = eng
	c.replica = nil
	runner := bot.NewRunner(eng, c.log, bot.WithThinkDelay(c.botBase, c.botJitter))
	c.runner = runner
	eng.SetObserver(func(s *game.State) {
		runner.OnState(s)
		c.onLocalState(s)
	})
}

// Submit applies one of this participant's own actions. Hosts apply
// through the engine (which replicates); non-hosts apply optimistically to
// their copy and forward the action to the host, whose next snapshot push
// makes it durable. A forwarding failure leaves the optimistic state in
// place; the host's next accepted snapshot reconciles it either way.
func (c *Client) Submit(a game.Action) error {
	c.mu.Lock()
	if c.code == "" {
		c.mu.Unlock()
		return ErrNoRoom
	}
	if a.Seat != c.seat {
		c.mu.Unlock()
		return ErrNotYourSeat
	}
	eng := c.eng
	c.mu.Unlock()

	if eng != nil {
		_, err := eng.Submit(a)
		return err
	}

	c.mu.Lock()
	if c.replica == nil {
		c.mu.Unlock()
		return game.ErrMatchNotStarted
	}
	next, err := game.Apply(c.replica, a, c.rng)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.replica = next
	code := c.code
	c.notifyLocked(next)
	c.mu.Unlock()

	raw, err := game.EncodeAction(a)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	if err := c.transport.SubmitAction(ctx, code, raw); err != nil {
		c.log.Warn().Err(err).Str("code", code).Msg("action forward failed")
		return err
	}
	return nil
}

// State returns this participant's current snapshot.
func (c *Client) State() *game.State {
	c.mu.Lock()
	eng, replica := c.eng, c.replica
	c.mu.Unlock()
	if eng != nil {
		return eng.Snapshot()
	}
	return replica.Clone()
}

// Room returns the last observed room record.
func (c *Client) Room() *room.Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room.Clone()
}

// Seat returns this participant's seat id.
func (c *Client) Seat() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seat
}

// Host reports whether this participant holds the writer token.
func (c *Client) Host() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != ""
}

// Leave exits the room and clears the persisted session.
func (c *Client) Leave(ctx context.Context) error {
	c.mu.Lock()
	cancel := c.cancel
	runner := c.runner
	c.code = ""
	c.seat = game.InvalidSeat
	c.token = ""
	c.room = nil
	c.eng = nil
	c.replica = nil
	c.cancel = nil
	c.runner = nil
	c.mu.Unlock()

	if runner != nil {
		runner.Stop()
	}
	if cancel != nil {
		cancel()
	}
	return c.sessions.Clear(ctx)
}

// onLocalState runs after every accepted local action. Hosts push the new
// snapshot; a failed push is a notice, not a rollback. The optimistic
// state stands and the next successful push carries it.
func (c *Client) onLocalState(s *game.State) {
	c.mu.Lock()
	code, token := c.code, c.token
	c.notifyLocked(s)
	c.mu.Unlock()

	if token == "" || code == "" {
		return
	}

	raw, err := game.EncodeState(s)
	if err != nil {
		c.log.Error().Err(err).Msg("snapshot encode failed")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	if err := c.transport.PushState(ctx, code, token, raw); err != nil {
		c.log.Warn().Err(err).Str("code", code).Msg("snapshot push failed")
	}
}

// watch consumes the room feed. Non-hosts overwrite their copy with every
// received snapshot; re-applying an identical snapshot is a no-op. The
// host skips its own echoes, since its engine is where the push came from.
func (c *Client) watch(updates <-chan *room.Room) {
	for r := range updates {
		c.mu.Lock()
		if c.code != r.Code {
			c.mu.Unlock()
			continue
		}
		c.room = r
		host := c.token != ""
		c.mu.Unlock()

		if host {
			continue
		}

		st, err := game.DecodeState(r.GameState)
		if err != nil {
			c.log.Warn().Err(err).Msg("bad snapshot received")
			continue
		}
		if st == nil {
			continue
		}

		c.mu.Lock()
		c.replica = st.Clone()
		c.notifyLocked(st)
		c.mu.Unlock()
	}
}

func (c *Client) notifyLocked(s *game.State) {
	if c.OnUpdate != nil {
		c.OnUpdate(s.Clone())
	}
}

// Close releases the transport.
func (c *Client) Close() error {
	c.mu.Lock()
	cancel := c.cancel
	runner := c.runner
	c.mu.Unlock()
	if runner != nil {
		runner.Stop()
	}
	if cancel != nil {
		cancel()
	}
	return c.transport.Close()
}
