package client

import (
	"context"
	"encoding/json"

	"github.com/UParthsarathi/3Poker-exp/internal/room"
)

// MemoryTransport binds a participant straight to a room.Service in the
// same process. Local multiplayer and tests run every participant through
// one of these against a shared service.
type MemoryTransport struct {
	svc *room.Service
}

func NewMemoryTransport(svc *room.Service) *MemoryTransport {
	return &MemoryTransport{svc: svc}
}

func (t *MemoryTransport) CreateRoom(ctx context.Context, hostName string, maxSeats int) (*room.Room, string, error) {
	return t.svc.Create(ctx, hostName, maxSeats)
}

func (t *MemoryTransport) JoinRoom(ctx context.Context, code, name string) (*room.Room, int, error) {
	return t.svc.Join(ctx, code, name)
}

func (t *MemoryTransport) FetchRoom(ctx context.Context, code string) (*room.Room, error) {
	return t.svc.Fetch(ctx, code)
}

func (t *MemoryTransport) PushState(ctx context.Context, code, token string, state json.RawMessage) error {
	_, err := t.svc.Push(ctx, code, token, state)
	return err
}

func (t *MemoryTransport) SubmitAction(ctx context.Context, code string, action json.RawMessage) error {
	return t.svc.OfferAction(ctx, code, action)
}

func (t *MemoryTransport) SubscribeActions(ctx context.Context, code, token string) (<-chan json.RawMessage, func(), error) {
	return t.svc.SubscribeActions(code, token)
}

func (t *MemoryTransport) Subscribe(ctx context.Context, code string, seat int) (<-chan *room.Room, func(), error) {
	if _, err := t.svc.Fetch(ctx, code); err != nil {
		return nil, nil, err
	}
	updates, cancel := t.svc.Subscribe(code)
	if seat >= 0 {
		t.svc.SetConnected(ctx, code, seat, true)
		inner := cancel
		cancel = func() {
			t.svc.SetConnected(context.Background(), code, seat, false)
			inner()
		}
	}
	return updates, cancel, nil
}

func (t *MemoryTransport) Close() error { return nil }

var _ Transport = (*MemoryTransport)(nil)
