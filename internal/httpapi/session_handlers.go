package httpapi

import (
	"context"
	"errors"
	"net/http"

	"example.com/mafia/internal/auth"
	"example.com/mafia/internal/store"
	"go.uber.org/zap"
)

// Signer issues session tickets for a display name.
type Signer interface {
	Sign(name string) (string, error)
}

// StatsReader loads a player's ledger counters.
type StatsReader interface {
	Get(ctx context.Context, name string) (store.PlayerStats, error)
}

type SessionHandler struct {
	Tokens Signer
	Stats  StatsReader
	Log    *zap.Logger
}

type SessionRequest struct {
	Name string `json:"name"`
}

type SessionResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

// Create hands out a session ticket for the chosen display name. Nothing
// beyond the name's shape is checked.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}

	name, err := auth.NormalizeName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_name", err.Error())
		return
	}

	token, err := h.Tokens.Sign(name)
	if err != nil {
		h.logger().Error("sign session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{Token: token, Name: name})
}

func (h *SessionHandler) MyStats(w http.ResponseWriter, r *http.Request) {
	name, ok := PlayerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing auth context")
		return
	}
	if h.Stats == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "stats are not recorded")
		return
	}

	st, err := h.Stats.Get(r.Context(), name)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			h.logger().Warn("load stats", zap.String("player", name), zap.Error(err))
		}
		writeError(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, st)
}

// RegisterRoutes mounts the session endpoints on mux.
func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux, tokens Verifier) {
	mux.HandleFunc("POST /api/session", h.Create)
	mux.Handle("GET /api/me/stats", AuthMiddleware(tokens)(http.HandlerFunc(h.MyStats)))
}

func (h *SessionHandler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}
