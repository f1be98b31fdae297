// Package room hosts the authoritative lobby records for online matches: a
// short join code, the seated players and the latest pushed game state.
// Persistence is pluggable (memory, sqlite, postgres) behind the Store
// interface; Service layers room lifecycle, host authority and fan-out on
// top of whichever store the environment selects.
package room

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"time"

	"github.com/UParthsarathi/3Poker-exp/game"
)

// Status is the lobby lifecycle, derived from the replicated game phase.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusPlaying  Status = "PLAYING"
	StatusFinished Status = "FINISHED"
)

var (
	ErrNotFound       = errors.New("room: not found")
	ErrCodeTaken      = errors.New("room: code already in use")
	ErrRoomFull       = errors.New("room: all seats taken")
	ErrAlreadyStarted = errors.New("room: match already started")
	ErrNotAuthority   = errors.New("room: caller does not hold the writer token")
	ErrBadSeat        = errors.New("room: no such seat")
	ErrNoWriter       = errors.New("room: no writer listening for actions")
)

// Member is one occupied seat in a room.
type Member struct {
	Seat      int    `json:"seat"`
	Name      string `json:"name"`
	Bot       bool   `json:"bot"`
	Connected bool   `json:"connected"`
}

// Room is the stored lobby record. GameState holds the latest full snapshot
// the host pushed, verbatim; replicas never see partial updates.
type Room struct {
	Code        string          `json:"code"`
	HostID      string          `json:"host_id"`
	Status      Status          `json:"status"`
	MaxSeats    int             `json:"max_seats"`
	Members     []Member        `json:"members"`
	GameState   json.RawMessage `json:"game_state,omitempty"`
	CreatedAtMs int64           `json:"created_at_ms"`
	UpdatedAtMs int64           `json:"updated_at_ms"`
}

// Clone deep-copies the record so stores can hand out rooms without
// aliasing their internals.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	out := *r
	out.Members = append([]Member(nil), r.Members...)
	out.GameState = append(json.RawMessage(nil), r.GameState...)
	return &out
}

// Seat returns the member at seat, or nil.
func (r *Room) Seat(seat int) *Member {
	for i := range r.Members {
		if r.Members[i].Seat == seat {
			return &r.Members[i]
		}
	}
	return nil
}

// statusForPhase maps the replicated phase onto the lobby lifecycle.
func statusForPhase(p game.Phase) Status {
	switch p {
	case game.PhaseSetup:
		return StatusWaiting
	case game.PhaseMatchEnd:
		return StatusFinished
	default:
		return StatusPlaying
	}
}

// codeAlphabet omits 0/O/1/I/L so codes survive being read aloud.
const (
	codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"
	codeLength   = 4
)

func newCode() string {
	// Rejection sampling: bytes past the largest multiple of the alphabet
	// size are discarded so every character stays equally likely.
	limit := 256 - 256%len(codeAlphabet)
	buf := make([]byte, 0, codeLength)
	b := make([]byte, 1)
	for len(buf) < codeLength {
		if _, err := rand.Read(b); err != nil {
			panic(err)
		}
		if int(b[0]) >= limit {
			continue
		}
		buf = append(buf, codeAlphabet[int(b[0])%len(codeAlphabet)])
	}
	return string(buf)
}

func nowMs() int64 { return time.Now().UTC().UnixMilli() }
