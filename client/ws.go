package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/UParthsarathi/3Poker-exp/internal/codec"
	"github.com/UParthsarathi/3Poker-exp/internal/room"
)

// WSTransport talks to a remote gateway: REST for lobby operations and
// state pushes, a websocket per subscription for the live feed.
type WSTransport struct {
	base   string
	http   *http.Client
	dialer *websocket.Dialer
	log    zerolog.Logger
}

func NewWSTransport(baseURL string, log zerolog.Logger) *WSTransport {
	return &WSTransport{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: 10 * time.Second},
		dialer: websocket.DefaultDialer,
		log:    log.With().Str("component", "transport").Logger(),
	}
}

func (t *WSTransport) CreateRoom(ctx context.Context, hostName string, maxSeats int) (*room.Room, string, error) {
	var out struct {
		Room        *room.Room `json:"room"`
		WriterToken string     `json:"writer_token"`
	}
	err := t.do(ctx, http.MethodPost, "/rooms",
		map[string]any{"host_name": hostName, "max_seats": maxSeats}, &out)
	if err != nil {
		return nil, "", err
	}
	return out.Room, out.WriterToken, nil
}

func (t *WSTransport) JoinRoom(ctx context.Context, code, name string) (*room.Room, int, error) {
	var out struct {
		Room *room.Room `json:"room"`
		Seat int        `json:"seat"`
	}
	err := t.do(ctx, http.MethodPost, "/rooms/"+code+"/join", map[string]any{"name": name}, &out)
	if err != nil {
		return nil, -1, err
	}
	return out.Room, out.Seat, nil
}

func (t *WSTransport) FetchRoom(ctx context.Context, code string) (*room.Room, error) {
	var out struct {
		Room *room.Room `json:"room"`
	}
	if err := t.do(ctx, http.MethodGet, "/rooms/"+code, nil, &out); err != nil {
		return nil, err
	}
	return out.Room, nil
}

func (t *WSTransport) PushState(ctx context.Context, code, token string, state json.RawMessage) error {
	return t.do(ctx, http.MethodPut, "/rooms/"+code+"/state",
		map[string]any{"token": token, "state": state}, nil)
}

func (t *WSTransport) SubmitAction(ctx context.Context, code string, action json.RawMessage) error {
	return t.do(ctx, http.MethodPost, "/rooms/"+code+"/actions",
		map[string]any{"action": action}, nil)
}

// SubscribeActions dials a second socket carrying the writer token; the
// gateway relays every offered action down it.
func (t *WSTransport) SubscribeActions(ctx context.Context, code, token string) (<-chan json.RawMessage, func(), error) {
	url := "ws" + strings.TrimPrefix(t.base, "http") + "/rooms/" + code + "/ws?token=" + token

	ws, resp, err := t.dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			switch resp.StatusCode {
			case http.StatusNotFound:
				return nil, nil, room.ErrNotFound
			case http.StatusForbidden:
				return nil, nil, room.ErrNotAuthority
			}
		}
		return nil, nil, fmt.Errorf("client: dial %s: %w", url, err)
	}

	actions := make(chan json.RawMessage, 32)
	go func() {
		defer close(actions)
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			env, err := codec.DecodeServer(data)
			if err != nil {
				t.log.Warn().Err(err).Str("code", code).Msg("bad frame")
				continue
			}
			if env.Type != codec.ServerAction {
				continue
			}
			select {
			case actions <- env.Action:
			default:
				t.log.Warn().Str("code", code).Msg("action feed lagging, dropped")
			}
		}
	}()

	cancel := func() { ws.Close() }
	return actions, cancel, nil
}

// Subscribe dials the room's socket and pumps decoded room records until
// cancel closes the connection.
func (t *WSTransport) Subscribe(ctx context.Context, code string, seat int) (<-chan *room.Room, func(), error) {
	url := "ws" + strings.TrimPrefix(t.base, "http") + "/rooms/" + code + "/ws"
	if seat >= 0 {
		url += "?seat=" + strconv.Itoa(seat)
	}

	ws, resp, err := t.dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil, room.ErrNotFound
		}
		return nil, nil, fmt.Errorf("client: dial %s: %w", url, err)
	}

	updates := make(chan *room.Room, 8)
	go func() {
		defer close(updates)
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			env, err := codec.DecodeServer(data)
			if err != nil {
				t.log.Warn().Err(err).Str("code", code).Msg("bad frame")
				continue
			}
			switch env.Type {
			case codec.ServerRoom:
				select {
				case updates <- env.Room:
				default:
					// Drop; the next record supersedes this one.
				}
			case codec.ServerError:
				t.log.Warn().Int("code", env.Error.Code).
					Str("message", env.Error.Message).Msg("server error")
			}
		}
	}()

	cancel := func() { ws.Close() }
	return updates, cancel, nil
}

func (t *WSTransport) Close() error { return nil }

// do runs one JSON request and maps error statuses onto the room package's
// sentinels so callers treat both transports alike.
func (t *WSTransport) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		switch resp.StatusCode {
		case http.StatusNotFound:
			return room.ErrNotFound
		case http.StatusForbidden:
			return room.ErrNotAuthority
		case http.StatusConflict:
			if strings.Contains(body.Error, "full") {
				return room.ErrRoomFull
			}
			return room.ErrAlreadyStarted
		case http.StatusServiceUnavailable:
			return room.ErrNoWriter
		default:
			return fmt.Errorf("client: %s %s: %d %s", method, path, resp.StatusCode, body.Error)
		}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

var _ Transport = (*WSTransport)(nil)
