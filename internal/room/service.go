package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/UParthsarathi/3Poker-exp/game"
)

// RoundRecorder receives finished rounds for the results ledger. Optional;
// a nil recorder disables history.
type RoundRecorder interface {
	RecordRound(ctx context.Context, code string, s *game.State) error
}

// Service owns room lifecycle on top of a Store: create with a fresh join
// code, seat joiners, accept state pushes from the single writer and fan
// the new snapshot out to subscribers.
//
// Writer tokens live in process memory, not in the store. The host that
// created the room holds the only copy; a server restart therefore orphans
// in-flight matches, which matches the session model (rooms are cheap,
// hosts re-create).
type Service struct {
	store    Store
	recorder RoundRecorder
	log      zerolog.Logger

	mu        sync.Mutex
	tokens    map[string]string // code -> writer token
	lastRound map[string]int    // code -> last round recorded to history
	subs      map[string]map[int]chan *Room
	actSubs   map[string]map[int]chan json.RawMessage
	nextSub   int
}

type ServiceOption func(*Service)

// WithRecorder attaches a round-results ledger.
func WithRecorder(r RoundRecorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

func NewService(store Store, log zerolog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:     store,
		log:       log.With().Str("component", "room").Logger(),
		tokens:    make(map[string]string),
		lastRound: make(map[string]int),
		subs:      make(map[string]map[int]chan *Room),
		actSubs:   make(map[string]map[int]chan json.RawMessage),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create opens a room and returns it with the writer token only the host
// may use to push state.
func (s *Service) Create(ctx context.Context, hostName string, maxSeats int) (*Room, string, error) {
	hostName = strings.TrimSpace(hostName)
	if hostName == "" {
		hostName = "host"
	}
	if maxSeats < game.MinSeats || maxSeats > game.MaxSeats {
		return nil, "", fmt.Errorf("room: max seats %d out of range [%d,%d]",
			maxSeats, game.MinSeats, game.MaxSeats)
	}

	hostID := uuid.NewString()
	token := uuid.NewString()

	var r *Room
	for attempt := 0; attempt < 5; attempt++ {
		now := nowMs()
		r = &Room{
			Code:     newCode(),
			HostID:   hostID,
			Status:   StatusWaiting,
			MaxSeats: maxSeats,
			Members: []Member{
				{Seat: game.HostSeat, Name: hostName, Connected: true},
			},
			CreatedAtMs: now,
			UpdatedAtMs: now,
		}
		err := s.store.Create(ctx, r)
		if err == nil {
			s.mu.Lock()
			s.tokens[r.Code] = token
			s.mu.Unlock()
			s.log.Info().Str("code", r.Code).Str("host", hostName).Msg("room created")
			return r, token, nil
		}
		if !errors.Is(err, ErrCodeTaken) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("room: could not find a free join code")
}

// Join seats a player in the next free seat. Rooms already playing or full
// reject the join; the caller distinguishes via errors.Is.
func (s *Service) Join(ctx context.Context, code, name string) (*Room, int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "player"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, game.InvalidSeat, err
	}
	if r.Status != StatusWaiting {
		return nil, game.InvalidSeat, ErrAlreadyStarted
	}
	if len(r.Members) >= r.MaxSeats {
		return nil, game.InvalidSeat, ErrRoomFull
	}

	seat := 0
	for r.Seat(seat) != nil {
		seat++
	}
	r.Members = append(r.Members, Member{Seat: seat, Name: name, Connected: true})
	r.UpdatedAtMs = nowMs()

	if err := s.store.Update(ctx, r); err != nil {
		return nil, game.InvalidSeat, err
	}
	s.log.Info().Str("code", code).Str("name", name).Int("seat", seat).Msg("player joined")
	s.fanOutLocked(r)
	return r, seat, nil
}

// Fetch returns the current room record.
func (s *Service) Fetch(ctx context.Context, code string) (*Room, error) {
	return s.store.Get(ctx, code)
}

// Push replaces the room's game state with the host's snapshot. The token
// gates writes: anyone can read a room, exactly one caller can write it.
func (s *Service) Push(ctx context.Context, code, token string, raw json.RawMessage) (*Room, error) {
	st, err := game.DecodeState(raw)
	if err != nil {
		return nil, fmt.Errorf("room %s: bad snapshot: %w", code, err)
	}
	if st == nil {
		return nil, fmt.Errorf("room %s: empty snapshot", code)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tokens[code] != token || token == "" {
		return nil, ErrNotAuthority
	}

	r, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	r.GameState = append(json.RawMessage(nil), raw...)
	r.Status = statusForPhase(st.Phase)
	r.UpdatedAtMs = nowMs()

	if err := s.store.Update(ctx, r); err != nil {
		return nil, err
	}
	s.recordRoundLocked(ctx, code, st)
	s.fanOutLocked(r)
	return r, nil
}

// recordRoundLocked writes each finished round to the ledger exactly once.
func (s *Service) recordRoundLocked(ctx context.Context, code string, st *game.State) {
	if s.recorder == nil {
		return
	}
	if st.Phase != game.PhaseRoundEnd && st.Phase != game.PhaseMatchEnd {
		return
	}
	if st.Round <= s.lastRound[code] {
		return
	}
	if err := s.recorder.RecordRound(ctx, code, st); err != nil {
		s.log.Warn().Err(err).Str("code", code).Int("round", st.Round).
			Msg("round not recorded")
		return
	}
	s.lastRound[code] = st.Round
}

// Subscribe registers for room updates. The channel is buffered and updates
// are dropped, not queued, when the subscriber lags: the next snapshot
// supersedes anything missed.
func (s *Service) Subscribe(code string) (<-chan *Room, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *Room, 8)
	if s.subs[code] == nil {
		s.subs[code] = make(map[int]chan *Room)
	}
	id := s.nextSub
	s.nextSub++
	s.subs[code][id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if set, ok := s.subs[code]; ok {
			if _, ok := set[id]; ok {
				delete(set, id)
				close(ch)
				if len(set) == 0 {
					delete(s.subs, code)
				}
			}
		}
	}
	return ch, cancel
}

// SubscribeActions registers the writer for actions offered by the other
// seats. Token-gated: only the holder of the writer token may drain the
// room's action feed.
func (s *Service) SubscribeActions(code, token string) (<-chan json.RawMessage, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tokens[code] != token || token == "" {
		return nil, nil, ErrNotAuthority
	}

	ch := make(chan json.RawMessage, 32)
	if s.actSubs[code] == nil {
		s.actSubs[code] = make(map[int]chan json.RawMessage)
	}
	id := s.nextSub
	s.nextSub++
	s.actSubs[code][id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if set, ok := s.actSubs[code]; ok {
			if _, ok := set[id]; ok {
				delete(set, id)
				close(ch)
				if len(set) == 0 {
					delete(s.actSubs, code)
				}
			}
		}
	}
	return ch, cancel, nil
}

// OfferAction relays an encoded action from a non-writer seat to the room's
// writer. Unlike snapshots, a relayed action must not be dropped silently:
// ErrNoWriter tells the caller the writer is away or lagging so it can
// retry.
func (s *Service) OfferAction(ctx context.Context, code string, raw json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Get(ctx, code); err != nil {
		return err
	}

	delivered := false
	for _, ch := range s.actSubs[code] {
		select {
		case ch <- append(json.RawMessage(nil), raw...):
			delivered = true
		default:
		}
	}
	if !delivered {
		return ErrNoWriter
	}
	return nil
}

func (s *Service) fanOutLocked(r *Room) {
	for _, ch := range s.subs[r.Code] {
		select {
		case ch <- r.Clone():
		default:
		}
	}
}

// SetConnected flips a member's presence flag, used by the gateway on
// socket open and close. Unknown rooms and seats are ignored.
func (s *Service) SetConnected(ctx context.Context, code string, seat int, connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.store.Get(ctx, code)
	if err != nil {
		return
	}
	m := r.Seat(seat)
	if m == nil || m.Connected == connected {
		return
	}
	m.Connected = connected
	r.UpdatedAtMs = nowMs()
	if err := s.store.Update(ctx, r); err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("presence update failed")
		return
	}
	s.fanOutLocked(r)
}

// Delete removes a room. Only the writer may do it.
func (s *Service) Delete(ctx context.Context, code, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tokens[code] != token || token == "" {
		return ErrNotAuthority
	}
	if err := s.store.Delete(ctx, code); err != nil {
		return err
	}
	delete(s.tokens, code)
	delete(s.lastRound, code)
	for id, ch := range s.subs[code] {
		delete(s.subs[code], id)
		close(ch)
	}
	delete(s.subs, code)
	for id, ch := range s.actSubs[code] {
		delete(s.actSubs[code], id)
		close(ch)
	}
	delete(s.actSubs, code)
	s.log.Info().Str("code", code).Msg("room deleted")
	return nil
}
