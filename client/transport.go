// Package client is the participant runtime: it owns the local copy of the
// match, submits the player's actions optimistically, and keeps the copy
// converged with the room record through a Transport. Hosts additionally
// push every accepted state and drive the automated seats.
package client

import (
	"context"
	"encoding/json"

	"github.com/UParthsarathi/3Poker-exp/internal/room"
)

// Transport moves room records between a participant and the shared store.
// The in-memory implementation wires directly into a room.Service; the
// websocket implementation speaks to a remote gateway. Both surface the
// room package's sentinel errors (ErrNotFound, ErrRoomFull,
// ErrAlreadyStarted, ErrNotAuthority) so callers branch with errors.Is.
type Transport interface {
	CreateRoom(ctx context.Context, hostName string, maxSeats int) (r *room.Room, writerToken string, err error)
	JoinRoom(ctx context.Context, code, name string) (r *room.Room, seat int, err error)
	FetchRoom(ctx context.Context, code string) (*room.Room, error)
	// PushState replaces the room's snapshot; writer token required.
	PushState(ctx context.Context, code, token string, state json.RawMessage) error
	// SubmitAction offers an encoded action to the room's writer.
	// room.ErrNoWriter means nobody is there to apply it.
	SubmitAction(ctx context.Context, code string, action json.RawMessage) error
	// Subscribe streams room updates until cancel is called.
	Subscribe(ctx context.Context, code string, seat int) (updates <-chan *room.Room, cancel func(), err error)
	// SubscribeActions streams the actions other seats offer; writer
	// token required.
	SubscribeActions(ctx context.Context, code, token string) (actions <-chan json.RawMessage, cancel func(), err error)
	Close() error
}
