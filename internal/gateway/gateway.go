// Package gateway exposes the room service over HTTP and WebSocket. The
// REST surface covers lobby lifecycle (create, join, fetch); the socket
// carries live replication: room records down, host snapshots up.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/UParthsarathi/3Poker-exp/game"
	"github.com/UParthsarathi/3Poker-exp/internal/codec"
	"github.com/UParthsarathi/3Poker-exp/internal/room"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 65536
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: Restrict in production
	},
}

type Gateway struct {
	svc *room.Service
	log zerolog.Logger
}

func New(svc *room.Service, log zerolog.Logger) *Gateway {
	return &Gateway{
		svc: svc,
		log: log.With().Str("component", "gateway").Logger(),
	}
}

// Router assembles the HTTP surface.
func (g *Gateway) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/health", g.handleHealth)
	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", g.handleCreate)
		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", g.handleFetch)
			r.Post("/join", g.handleJoin)
			r.Put("/state", g.handlePush)
			r.Post("/actions", g.handleAction)
			r.Get("/ws", g.handleWebSocket)
		})
	})
	return r
}

func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createRequest struct {
	HostName string `json:"host_name"`
	MaxSeats int    `json:"max_seats"`
}

type createResponse struct {
	Room        *room.Room `json:"room"`
	WriterToken string     `json:"writer_token"`
}

func (g *Gateway) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MaxSeats == 0 {
		req.MaxSeats = game.MaxSeats
	}

	rm, token, err := g.svc.Create(r.Context(), req.HostName, req.MaxSeats)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{Room: rm, WriterToken: token})
}

type joinRequest struct {
	Name string `json:"name"`
}

type joinResponse struct {
	Room *room.Room `json:"room"`
	Seat int        `json:"seat"`
}

func (g *Gateway) handleJoin(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rm, seat, err := g.svc.Join(r.Context(), code, req.Name)
	switch {
	case errors.Is(err, room.ErrNotFound):
		httpError(w, http.StatusNotFound, "room not found")
	case errors.Is(err, room.ErrRoomFull):
		httpError(w, http.StatusConflict, "room is full")
	case errors.Is(err, room.ErrAlreadyStarted):
		httpError(w, http.StatusConflict, "match already started")
	case err != nil:
		httpError(w, http.StatusInternalServerError, "join failed")
	default:
		writeJSON(w, http.StatusOK, joinResponse{Room: rm, Seat: seat})
	}
}

func (g *Gateway) handleFetch(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	rm, err := g.svc.Fetch(r.Context(), code)
	if errors.Is(err, room.ErrNotFound) {
		httpError(w, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, "fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]*room.Room{"room": rm})
}

type pushRequest struct {
	Token string          `json:"token"`
	State json.RawMessage `json:"state"`
}

// handlePush is the HTTP write path: the host replaces the room's snapshot.
// Connected sockets see the update through the usual fan-out.
func (g *Gateway) handlePush(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req pushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rm, err := g.svc.Push(r.Context(), code, req.Token, req.State)
	switch {
	case errors.Is(err, room.ErrNotAuthority):
		httpError(w, http.StatusForbidden, "writer token required")
	case errors.Is(err, room.ErrNotFound):
		httpError(w, http.StatusNotFound, "room not found")
	case err != nil:
		httpError(w, http.StatusBadRequest, err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]*room.Room{"room": rm})
	}
}

type actionRequest struct {
	Action json.RawMessage `json:"action"`
}

// handleAction relays a non-writer seat's action to the room's writer. The
// writer applies it to its engine and the resulting snapshot comes back
// through the ordinary push path.
func (g *Gateway) handleAction(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Action) == 0 {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := g.svc.OfferAction(r.Context(), code, req.Action)
	switch {
	case errors.Is(err, room.ErrNotFound):
		httpError(w, http.StatusNotFound, "room not found")
	case errors.Is(err, room.ErrNoWriter):
		httpError(w, http.StatusServiceUnavailable, "no writer listening")
	case err != nil:
		httpError(w, http.StatusInternalServerError, "relay failed")
	default:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "relayed"})
	}
}

// handleWebSocket upgrades the connection and streams room updates to the
// peer. The seat query parameter ties the socket to a member for presence;
// it is optional for spectators. A valid token query parameter additionally
// subscribes the socket to the room's relayed actions, which only the
// writer may drain.
func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	rm, err := g.svc.Fetch(r.Context(), code)
	if errors.Is(err, room.ErrNotFound) {
		httpError(w, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, "fetch failed")
		return
	}

	seat := game.InvalidSeat
	if raw := r.URL.Query().Get("seat"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			seat = v
		}
	}

	var actions <-chan json.RawMessage
	var cancelActions func()
	if token := r.URL.Query().Get("token"); token != "" {
		var err error
		actions, cancelActions, err = g.svc.SubscribeActions(code, token)
		if errors.Is(err, room.ErrNotAuthority) {
			httpError(w, http.StatusForbidden, "writer token required")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "subscribe failed")
			return
		}
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if cancelActions != nil {
			cancelActions()
		}
		g.log.Warn().Err(err).Msg("upgrade failed")
		return
	}

	conn := &connection{
		gw:   g,
		ws:   ws,
		code: code,
		seat: seat,
		send: make(chan []byte, 64),
	}

	updates, cancel := g.svc.Subscribe(code)
	conn.cancel = func() {
		cancel()
		if cancelActions != nil {
			cancelActions()
		}
	}

	if seat != game.InvalidSeat {
		g.svc.SetConnected(r.Context(), code, seat, true)
	}
	g.log.Info().Str("code", code).Int("seat", seat).Msg("socket connected")

	// Prime the peer with the current record before any live update.
	if data, err := codec.EncodeRoom(rm); err == nil {
		conn.send <- data
	}

	go conn.writePump(updates, actions)
	go conn.readPump()
}

type connection struct {
	gw     *Gateway
	ws     *websocket.Conn
	code   string
	seat   int
	send   chan []byte
	cancel func()
}

func (c *connection) readPump() {
	defer func() {
		c.cancel()
		if c.seat != game.InvalidSeat {
			c.gw.svc.SetConnected(context.Background(), c.code, c.seat, false)
		}
		c.ws.Close()
		c.gw.log.Info().Str("code", c.code).Int("seat", c.seat).Msg("socket disconnected")
	}()

	c.ws.SetReadLimit(maxMsgSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.gw.log.Warn().Err(err).Str("code", c.code).Msg("read error")
			}
			return
		}
		c.handleMessage(message)
	}
}

func (c *connection) handleMessage(data []byte) {
	env, err := codec.DecodeClient(data)
	if err != nil {
		c.sendError(codec.CodeBadMessage, "invalid message format")
		return
	}

	switch env.Type {
	case codec.ClientPushState:
		_, err := c.gw.svc.Push(context.Background(), c.code, env.Token, env.State)
		switch {
		case errors.Is(err, room.ErrNotAuthority):
			c.sendError(codec.CodeNotAuthority, "writer token required")
		case errors.Is(err, room.ErrNotFound):
			c.sendError(codec.CodeRoomGone, "room no longer exists")
		case err != nil:
			c.gw.log.Warn().Err(err).Str("code", c.code).Msg("push failed")
			c.sendError(codec.CodeInternal, "push failed")
		}
	case codec.ClientAction:
		err := c.gw.svc.OfferAction(context.Background(), c.code, env.Action)
		switch {
		case errors.Is(err, room.ErrNotFound):
			c.sendError(codec.CodeRoomGone, "room no longer exists")
		case errors.Is(err, room.ErrNoWriter):
			c.sendError(codec.CodeNoWriter, "no writer listening")
		case err != nil:
			c.gw.log.Warn().Err(err).Str("code", c.code).Msg("action relay failed")
			c.sendError(codec.CodeInternal, "relay failed")
		}
	case codec.ClientLeave:
		// The read pump's deferred cleanup handles presence; nothing more.
	default:
		c.sendError(codec.CodeBadMessage, "unknown message type")
	}
}

func (c *connection) sendError(code int, msg string) {
	data, err := codec.EncodeError(code, msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *connection) writePump(updates <-chan *room.Room, actions <-chan json.RawMessage) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case rm, ok := <-updates:
			if !ok {
				c.ws.SetWriteDeadline(time.Now().Add(writeWait))
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := codec.EncodeRoom(rm)
			if err != nil {
				continue
			}
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case raw, ok := <-actions:
			if !ok {
				actions = nil
				continue
			}
			data, err := codec.EncodeAction(raw)
			if err != nil {
				continue
			}
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
