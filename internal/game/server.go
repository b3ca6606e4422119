package game

import (
	"encoding/json"
	"net/http"

	"example.com/mafia/internal/auth"
	"go.uber.org/zap"
)

// TokenVerifier resolves a session ticket to the player's display name.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type Server struct {
	reg    *Registry
	hub    *Hub
	tokens TokenVerifier
	log    *zap.Logger
}

func NewServer(reg *Registry, hub *Hub, tokens TokenVerifier, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		reg:    reg,
		hub:    hub,
		tokens: tokens,
		log:    log,
	}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /api/rooms", s.handleRooms)
}

// handleRooms serves the published directory, falling back to this
// process's rooms when the directory cannot be read.
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.reg.Directory().List(r.Context())
	if err != nil {
		s.log.Warn("room directory unavailable", zap.Error(err))
		rooms = s.reg.Rooms()
	}
	if rooms == nil {
		rooms = []RoomSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
