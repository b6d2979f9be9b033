// Package spectate broadcasts live session updates to websocket clients.
// A Hub is a campaign.Observer: controllers publish into it without ever
// blocking, and slow spectators are disconnected instead of slowing play.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/sleepwalk/internal/campaign"
	"github.com/vovakirdan/sleepwalk/internal/core"
	"github.com/vovakirdan/sleepwalk/internal/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Per-client queue; a client that falls this far behind is dropped.
	clientBuffer = 64

	// Updates waiting for the hub loop; more are dropped.
	broadcastBuffer = 256
)

// allSessions is the subscription key of clients following every session.
const allSessions = ""

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Spectating is read-only
		return true
	},
}

// Event is the wire form of a game event.
type Event struct {
	Kind    string   `json:"kind"`
	Pos     core.Pos `json:"pos"`
	Index   int      `json:"index,omitempty"`
	Color   string   `json:"color,omitempty"`
	Powerup string   `json:"powerup,omitempty"`
	Count   int      `json:"count,omitempty"`
	TimeMs  int64    `json:"time_ms,omitempty"`
}

// Message is one update as sent to spectators. The session snapshot fields
// (player, moves, outcome and so on) are inlined.
type Message struct {
	SessionID  string `json:"session_id"`
	PlayerName string `json:"player_name,omitempty"`
	Level      int    `json:"level"`
	LevelName  string `json:"level_name"`
	Phase      string `json:"phase"`
	game.Snapshot
	Events  []Event  `json:"events"`
	Signals []string `json:"signals,omitempty"`
}

// NewMessage converts a controller update to its wire form.
func NewMessage(u campaign.Update) Message {
	msg := Message{
		SessionID:  u.SessionID,
		PlayerName: u.Player,
		Level:      u.LevelIndex,
		LevelName:  u.LevelName,
		Phase:      u.Phase.String(),
		Snapshot:   u.Snapshot,
		Events:     make([]Event, 0, len(u.Events)),
	}
	for _, ev := range u.Events {
		msg.Events = append(msg.Events, Event{
			Kind:    ev.Kind.String(),
			Pos:     ev.Pos,
			Index:   ev.Index,
			Color:   ev.Color,
			Powerup: string(ev.Powerup),
			Count:   ev.Count,
			TimeMs:  ev.Time.Milliseconds(),
		})
	}
	for _, s := range u.Signals {
		msg.Signals = append(msg.Signals, s.String())
	}
	return msg
}

// client is one websocket spectator.
type client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session string
}

// Hub maintains the set of active spectators and broadcasts updates.
type Hub struct {
	logger *log.Logger

	// Registered clients by followed session ID; allSessions follows all.
	// Owned by the Run goroutine.
	sessions map[string]map[*client]bool

	broadcast  chan Message
	register   chan *client
	unregister chan *client
	done       chan struct{} // Closed when Run returns
}

var _ campaign.Observer = (*Hub)(nil)

// NewHub creates a new hub. Call Run before serving clients.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		logger:     logger,
		sessions:   make(map[string]map[*client]bool),
		broadcast:  make(chan Message, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Observe queues an update for broadcast. It never blocks: when the hub
// is backed up the update is dropped.
func (h *Hub) Observe(u campaign.Update) {
	select {
	case h.broadcast <- NewMessage(u):
	default:
		h.logger.Debug("spectator hub busy, dropping update", "session", u.SessionID)
	}
}

// Run starts the hub's event loop and returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)

		case <-ctx.Done():
			for _, clients := range h.sessions {
				for c := range clients {
					h.unregisterClient(c)
				}
			}
			return
		}
	}
}

// Handler serves /ws (every session) and /ws/{session} (one session).
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r, allSessions)
	})
	mux.HandleFunc("GET /ws/{session}", func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r, r.PathValue("session"))
	})
	return mux
}

// ServeWS upgrades the request and subscribes the client to session.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, session string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := &client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, clientBuffer),
		session: session,
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// ListenAndServe serves the hub on addr until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		//nolint:errcheck // Best-effort shutdown
		srv.Shutdown(shutdownCtx)
	}()

	h.logger.Info("spectator feed listening", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *Hub) registerClient(c *client) {
	if h.sessions[c.session] == nil {
		h.sessions[c.session] = make(map[*client]bool)
	}
	h.sessions[c.session][c] = true
	h.logger.Debug("spectator joined", "session", c.session, "clients", len(h.sessions[c.session]))
}

func (h *Hub) unregisterClient(c *client) {
	clients, ok := h.sessions[c.session]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.sessions, c.session)
	}
	h.logger.Debug("spectator left", "session", c.session, "clients", len(clients))
}

func (h *Hub) broadcastMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("cannot encode update", "err", err)
		return
	}

	for _, key := range []string{msg.SessionID, allSessions} {
		for c := range h.sessions[key] {
			select {
			case c.send <- data:
			default:
				// Client's send channel is full, drop it
				h.logger.Debug("dropping slow spectator", "session", key)
				h.unregisterClient(c)
			}
		}
	}
}

// readPump discards client messages and detects disconnects.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	//nolint:errcheck // Deadline errors surface on the next read
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket error", "err", err)
			}
			return
		}
	}
}

// writePump sends queued updates, one websocket message each, and pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			//nolint:errcheck // Deadline errors surface on the write
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				//nolint:errcheck // Connection is closing anyway
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			//nolint:errcheck // Deadline errors surface on the write
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
