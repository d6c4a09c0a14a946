package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DoyleJ11/battleship-backend/internal/engine"
	"github.com/DoyleJ11/battleship-backend/internal/hub"
	"github.com/DoyleJ11/battleship-backend/internal/types"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zaptest.NewLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	h := hub.NewHub(ctx, hub.Options{
		Logger:    log,
		Placement: engine.FixedPlacement([]engine.Ship{
			{Name: "destroyer", Cells: []engine.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}}},
		}),
	})
	// handler goroutines can outlive the test once their sockets are hijacked, so they must not log through t
	srv := httptest.NewServer(Handler(h, Options{Logger: zap.NewNop(), WriteTimeout: time.Second}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-h.Done()
	})
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn, typ string) frame {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var f frame
	require.NoError(t, wsjson.Read(ctx, conn, &f))
	require.Equal(t, typ, f.Type, "payload: %s", f.Payload)
	return f
}

func send(t *testing.T, conn *websocket.Conn, raw string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(raw)))
}

func TestHandler_GameOverWebsocket(t *testing.T) {
	srv := newServer(t)

	a := dial(t, srv)
	read(t, a, types.TypeNotification)
	b := dial(t, srv)

	for _, c := range []*websocket.Conn{a, b} {
		join := read(t, c, types.TypeJoin)
		assert.JSONEq(t, `{"sessionId":1}`, string(join.Payload))
		read(t, c, types.TypeUpdate)
	}

	send(t, a, `{"type":"shot","payload":{"row":0,"col":0}}`)
	upd := read(t, a, types.TypeUpdate)
	var gs engine.GameState
	require.NoError(t, json.Unmarshal(upd.Payload, &gs))
	require.NotNil(t, gs.OpponentBoard)
	assert.Equal(t, engine.CellHit, gs.OpponentBoard.Cells[0][0])
	read(t, b, types.TypeUpdate)

	require.NoError(t, b.Close(websocket.StatusNormalClosure, "bye"))

	note := read(t, a, types.TypeNotification)
	assert.JSONEq(t, `{"text":"Your opponent left the game."}`, string(note.Payload))
	over := read(t, a, types.TypeGameOver)
	assert.JSONEq(t, `{"won":true}`, string(over.Payload))
}

func TestHandler_BadFramesGetErrorReply(t *testing.T) {
	srv := newServer(t)

	a := dial(t, srv)
	read(t, a, types.TypeNotification)

	for _, raw := range []string{
		`not json`,
		`{"type":"nuke"}`,
		`{"type":"shot","payload":{"row":12,"col":0}}`,
		`{"type":"chat","payload":{}}`,
	} {
		send(t, a, raw)
		f := read(t, a, types.TypeError)
		assert.Contains(t, string(f.Payload), `"error"`, raw)
	}

	// the connection is still usable afterwards
	b := dial(t, srv)
	read(t, a, types.TypeJoin)
	read(t, b, types.TypeJoin)
}
