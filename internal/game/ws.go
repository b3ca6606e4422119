package game

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 64
	pingInterval = 25 * time.Second
	maxFrameSize = 4 << 10
)

var ErrNameInUse = errors.New("name already connected")

// Envelope is the JSON frame sent to clients: {"type":"...","payload":{...}}.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type NoticePayload struct {
	Text string `json:"text"`
}

type CommandPayload struct {
	Text string `json:"text"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ClientConn struct {
	id     string
	player string
	ws     *websocket.Conn
	send   chan []byte

	closeOnce sync.Once
}

func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.ws.Close()
	})
}

// Hub maps player names to their live connection and delivers notices. It
// is the Notifier handed to the Registry.
type Hub struct {
	mu    sync.Mutex
	conns map[string]*ClientConn
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{conns: make(map[string]*ClientConn), log: log}
}

// Notify queues text for player. A slow or absent client loses the notice.
func (h *Hub) Notify(player, text string) {
	b := mustJSON(Envelope{Type: "notice", Payload: mustJSON(NoticePayload{Text: text})})

	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[player]
	if !ok {
		return
	}
	select {
	case c.send <- b:
	default:
		h.log.Debug("notice dropped", zap.String("player", player), zap.String("conn", c.id))
	}
}

func (h *Hub) Connected(player string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.conns[player]
	return ok
}

func (h *Hub) attach(c *ClientConn) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c.player]; ok {
		return ErrNameInUse
	}
	h.conns[c.player] = c
	return nil
}

// detach drops c, unless the name has been taken over by a newer connection.
func (h *Hub) detach(c *ClientConn) {
	h.mu.Lock()
	if h.conns[c.player] == c {
		delete(h.conns, c.player)
	}
	h.mu.Unlock()
	c.Close()
}

// handleWS upgrades a session ticket holder to a player connection.
// Token: ?token=... or Authorization: Bearer ...
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if h := r.Header.Get("Authorization"); token == "" && strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	}
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	player := claims.Name

	if s.hub.Connected(player) {
		http.Error(w, "name already connected", http.StatusConflict)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ws.SetReadLimit(maxFrameSize)

	cc := &ClientConn{
		id:     uuid.NewString(),
		player: player,
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
	}
	log := s.log.With(zap.String("player", player), zap.String("conn", cc.id))

	if err := s.hub.attach(cc); err != nil {
		_ = ws.WriteJSON(Envelope{
			Type:    "error",
			Payload: mustJSON(ErrorPayload{Code: "name_in_use", Message: err.Error()}),
		})
		_ = ws.Close()
		return
	}
	log.Info("player connected")

	// writer loop
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case msg, ok := <-cc.send:
				if !ok {
					return
				}
				_ = ws.WriteMessage(websocket.TextMessage, msg)
			case <-ticker.C:
				_ = ws.WriteMessage(websocket.PingMessage, []byte{})
			}
		}
	}()

	s.hub.Notify(player, "[ "+player+" 님 환영합니다. /목록 으로 방 목록을 확인하세요. ]")

	// reader loop
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			break
		}
		line := commandLine(data)
		if line == "" {
			continue
		}
		if err := s.reg.Dispatch(player, line); err != nil {
			log.Debug("command refused", zap.String("line", line), zap.Error(err))
		}
	}

	// a lobby seat is given up on disconnect; a seat in a running game is
	// kept for a reconnect under the same name
	if room, ok := s.reg.RoomOf(player); ok && room.Phase() == PhaseLobby {
		_ = s.reg.QuitRoom(player)
	}
	s.hub.detach(cc)
	log.Info("player disconnected")
}

// commandLine accepts either a raw text frame or a {"type":"command"} envelope.
func commandLine(data []byte) string {
	var env Envelope
	if json.Unmarshal(data, &env) == nil && env.Type == "command" {
		var p CommandPayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return ""
		}
		return strings.TrimSpace(p.Text)
	}
	return strings.TrimSpace(string(data))
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
