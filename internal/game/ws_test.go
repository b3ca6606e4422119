package game

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"example.com/mafia/internal/auth"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type wsFixture struct {
	ts     *httptest.Server
	reg    *Registry
	hub    *Hub
	tokens *auth.Service
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	hub := NewHub(zap.NewNop())
	reg := NewRegistry(Config{MinPlayers: 4}, hub)
	tokens := auth.NewService([]byte("test-secret"), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Run(ctx) }()

	mux := http.NewServeMux()
	NewServer(reg, hub, tokens, zap.NewNop()).RegisterRoutes(mux)
	ts := httptest.NewServer(mux)

	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})
	return &wsFixture{ts: ts, reg: reg, hub: hub, tokens: tokens}
}

func (f *wsFixture) url(query string) string {
	return "ws" + strings.TrimPrefix(f.ts.URL, "http") + "/ws" + query
}

func (f *wsFixture) dial(t *testing.T, name string) *websocket.Conn {
	t.Helper()
	tok, err := f.tokens.Sign(name)
	require.NoError(t, err)
	ws, resp, err := websocket.DefaultDialer.Dial(f.url("?token="+tok), nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

// waitNotice reads frames until a notice containing substr arrives.
func waitNotice(t *testing.T, ws *websocket.Conn, substr string) string {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := ws.ReadMessage()
		require.NoError(t, err, "waiting for %q", substr)

		var env Envelope
		if json.Unmarshal(data, &env) != nil || env.Type != "notice" {
			continue
		}
		var p NoticePayload
		require.NoError(t, json.Unmarshal(env.Payload, &p))
		if strings.Contains(p.Text, substr) {
			return p.Text
		}
	}
}

func TestWS_Handshake(t *testing.T) {
	f := newWSFixture(t)
	good, err := f.tokens.Sign("alice")
	require.NoError(t, err)

	cases := []struct {
		name     string
		query    string
		header   http.Header
		wantCode int // 0 => expect success (101)
	}{
		{name: "query_token", query: "?token=" + good},
		{name: "bearer_header", header: http.Header{"Authorization": {"Bearer " + good}}},
		{name: "missing", wantCode: http.StatusBadRequest},
		{name: "bad_token", query: "?token=nope", wantCode: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ws, resp, err := websocket.DefaultDialer.Dial(f.url(tc.query), tc.header)
			if resp != nil && resp.Body != nil {
				defer resp.Body.Close()
			}
			if tc.wantCode != 0 {
				require.Error(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, tc.wantCode, resp.StatusCode)
				return
			}
			require.NoError(t, err)
			waitNotice(t, ws, "alice 님 환영합니다.")
			require.NoError(t, ws.Close())

			// the name is free again once the hub lets go of it
			require.Eventually(t, func() bool {
				return !f.hub.Connected("alice")
			}, time.Second, 5*time.Millisecond)
		})
	}
}

func TestWS_NameInUse(t *testing.T) {
	f := newWSFixture(t)
	f.dial(t, "bob")

	tok, err := f.tokens.Sign("bob")
	require.NoError(t, err)
	_, resp, err := websocket.DefaultDialer.Dial(f.url("?token="+tok), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestWS_CommandsRoundTrip(t *testing.T) {
	f := newWSFixture(t)
	host := f.dial(t, "host")
	guest := f.dial(t, "guest")

	require.NoError(t, host.WriteMessage(websocket.TextMessage, []byte("/방생성 광장")))
	waitNotice(t, host, "광장 이름의 방이 생성 되었습니다.")

	env := mustJSON(Envelope{Type: "command", Payload: mustJSON(CommandPayload{Text: "/참가 1"})})
	require.NoError(t, guest.WriteMessage(websocket.TextMessage, env))
	waitNotice(t, host, "guest 님께서 [ 광장 ] 방에 참가 하셨습니다.")

	require.NoError(t, guest.WriteMessage(websocket.TextMessage, []byte("안녕")))
	assert.Equal(t, "▸ 【2】\n▸ guest\n▸ 안녕", waitNotice(t, host, "안녕"))

	// room listing over HTTP
	require.Eventually(t, func() bool {
		resp, err := http.Get(f.ts.URL + "/api/rooms")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var body struct {
			Rooms []RoomSummary `json:"rooms"`
		}
		if json.NewDecoder(resp.Body).Decode(&body) != nil {
			return false
		}
		return len(body.Rooms) == 1 && body.Rooms[0].ID == "광장" && body.Rooms[0].Players == 2
	}, 2*time.Second, 10*time.Millisecond)

	// leaving the lobby by disconnecting frees the seat
	require.NoError(t, guest.Close())
	waitNotice(t, host, "guest 님이 [ 광장 ] 방에서 퇴장 하셨습니다.")
}

func TestCommandLine(t *testing.T) {
	assert.Equal(t, "/시작", commandLine([]byte(" /시작 \n")))
	assert.Equal(t, "찬성", commandLine([]byte(`{"type":"command","payload":{"text":"찬성"}}`)))
	assert.Equal(t, "", commandLine([]byte(`{"type":"command","payload":"broken"}`)))
	assert.Equal(t, `{"type":"other"}`, commandLine([]byte(`{"type":"other"}`)))
}
