// Package codec defines the JSON wire envelopes between clients and the
// room server. The protocol is deliberately small: the writer pushes whole
// game snapshots up, other seats offer single actions for the writer to
// apply, and the server pushes whole room records down. There is no delta
// encoding of state.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/UParthsarathi/3Poker-exp/internal/room"
)

// Client message types.
const (
	ClientPushState = "push_state"
	ClientAction    = "action"
	ClientLeave     = "leave"
)

// Server message types.
const (
	ServerRoom   = "room"
	ServerAction = "action"
	ServerError  = "error"
)

// Error codes carried in ServerEnvelope.Error.
const (
	CodeBadMessage   = 1
	CodeNotAuthority = 2
	CodeRoomGone     = 3
	CodeInternal     = 4
	CodeNoWriter     = 5
)

// ClientEnvelope is every message a client sends over the socket.
type ClientEnvelope struct {
	Type string `json:"type"`
	// Token is the writer token; required for push_state.
	Token string `json:"token,omitempty"`
	// State is the full game snapshot being pushed.
	State json.RawMessage `json:"state,omitempty"`
	// Action is an encoded game action offered to the writer.
	Action json.RawMessage `json:"action,omitempty"`
}

// ErrorBody travels inside a server envelope when a request is refused.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ServerEnvelope is every message the server sends over the socket.
type ServerEnvelope struct {
	Type string     `json:"type"`
	Room *room.Room `json:"room,omitempty"`
	// Action is a relayed seat action; only sent to the writer.
	Action json.RawMessage `json:"action,omitempty"`
	Error  *ErrorBody      `json:"error,omitempty"`
}

func DecodeClient(data []byte) (*ClientEnvelope, error) {
	var env ClientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("codec: bad client envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("codec: client envelope missing type")
	}
	return &env, nil
}

func EncodeRoom(r *room.Room) ([]byte, error) {
	return json.Marshal(&ServerEnvelope{Type: ServerRoom, Room: r})
}

func EncodeAction(raw json.RawMessage) ([]byte, error) {
	return json.Marshal(&ServerEnvelope{Type: ServerAction, Action: raw})
}

func EncodeError(code int, message string) ([]byte, error) {
	return json.Marshal(&ServerEnvelope{
		Type:  ServerError,
		Error: &ErrorBody{Code: code, Message: message},
	})
}

func DecodeServer(data []byte) (*ServerEnvelope, error) {
	var env ServerEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("codec: bad server envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("codec: server envelope missing type")
	}
	return &env, nil
}
