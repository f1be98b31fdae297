package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/UParthsarathi/3Poker-exp/game"
	"github.com/UParthsarathi/3Poker-exp/internal/gateway"
	"github.com/UParthsarathi/3Poker-exp/internal/room"
	"github.com/UParthsarathi/3Poker-exp/internal/session"
)

func newWSTransport(t *testing.T) *WSTransport {
	t.Helper()
	svc := room.NewService(room.NewMemoryStore(), zerolog.Nop())
	srv := httptest.NewServer(gateway.New(svc, zerolog.Nop()).Router())
	t.Cleanup(srv.Close)
	return NewWSTransport(srv.URL, zerolog.Nop())
}

func TestWSTransportLobbyFlow(t *testing.T) {
	tr := newWSTransport(t)
	ctx := context.Background()

	r, token, err := tr.CreateRoom(ctx, "alice", 4)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if token == "" || r.Code == "" {
		t.Fatalf("create returned room=%+v token=%q", r, token)
	}

	_, seat, err := tr.JoinRoom(ctx, r.Code, "bob")
	if err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if seat != 1 {
		t.Fatalf("bob got seat %d, want 1", seat)
	}

	fetched, err := tr.FetchRoom(ctx, r.Code)
	if err != nil {
		t.Fatalf("FetchRoom: %v", err)
	}
	if len(fetched.Members) != 2 {
		t.Fatalf("fetched %d members, want 2", len(fetched.Members))
	}

	if _, err := tr.FetchRoom(ctx, "ZZZZ"); !errors.Is(err, room.ErrNotFound) {
		t.Fatalf("unknown fetch: err = %v, want ErrNotFound", err)
	}
}

func TestWSTransportPushAndSubscribe(t *testing.T) {
	tr := newWSTransport(t)
	ctx := context.Background()

	r, token, err := tr.CreateRoom(ctx, "alice", 4)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	updates, cancel, err := tr.Subscribe(ctx, r.Code, 0)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()
	<-updates // priming record

	state, err := game.EncodeState(&game.State{
		Mode:  game.ModeOnlineHost,
		Phase: game.PhaseTurnStart,
		Round: 1,
	})
	if err != nil {
		t.Fatalf("EncodeState: %v", err)
	}

	if err := tr.PushState(ctx, r.Code, "wrong-token", state); !errors.Is(err, room.ErrNotAuthority) {
		t.Fatalf("bad token push: err = %v, want ErrNotAuthority", err)
	}
	if err := tr.PushState(ctx, r.Code, token, state); err != nil {
		t.Fatalf("PushState: %v", err)
	}

	select {
	case got := <-updates:
		if got.Status != room.StatusPlaying {
			t.Fatalf("subscriber saw status %v, want playing", got.Status)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("subscriber never saw the push")
	}
}

// The full participant flow over the websocket transport: host and peer on
// separate transports, replication through the gateway.
func TestClientsOverWebSocket(t *testing.T) {
	svc := room.NewService(room.NewMemoryStore(), zerolog.Nop())
	srv := httptest.NewServer(gateway.New(svc, zerolog.Nop()).Router())
	defer srv.Close()
	ctx := context.Background()

	host := New(NewWSTransport(srv.URL, zerolog.Nop()), session.NewMemoryStore(),
		zerolog.Nop(), WithBotDelay(0, 0))
	defer host.Close()
	code, err := host.CreateRoom(ctx, "alice", 4)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	peer := New(NewWSTransport(srv.URL, zerolog.Nop()), session.NewMemoryStore(), zerolog.Nop())
	defer peer.Close()
	if _, err := peer.JoinRoom(ctx, code, "bob"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}

	waitFor(t, "host to see both members", func() bool {
		return len(host.Room().Members) == 2
	})
	if err := host.StartMatch(ctx, 1, 0, 9); err != nil {
		t.Fatalf("StartMatch: %v", err)
	}

	waitFor(t, "peer to receive the deal over ws", func() bool {
		s := peer.State()
		return s != nil && s.Phase == game.PhaseTurnStart && len(s.Players) == 2
	})

	// Both seats complete a turn: the host replicates down, the peer's
	// actions travel up through the gateway relay.
	hs := host.State()
	host.Submit(game.Action{Type: game.ActionDiscard, Seat: 0, CardA: hs.Players[0].Hand[0]})
	host.Submit(game.Action{Type: game.ActionDraw, Seat: 0, Source: game.DrawFromPile})
	waitFor(t, "peer to see the turn pass", func() bool {
		return peer.State().ActiveSeat == 1
	})

	ps := peer.State()
	if err := peer.Submit(game.Action{
		Type: game.ActionDiscard, Seat: 1, CardA: ps.Players[1].Hand[0],
	}); err != nil {
		t.Fatalf("peer discard: %v", err)
	}
	if err := peer.Submit(game.Action{
		Type: game.ActionDraw, Seat: 1, Source: game.DrawFromPile,
	}); err != nil {
		t.Fatalf("peer draw: %v", err)
	}
	waitFor(t, "host to apply the peer's turn over ws", func() bool {
		return host.State().ActiveSeat == 0
	})
}
