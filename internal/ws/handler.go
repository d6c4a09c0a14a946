package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/DoyleJ11/battleship-backend/internal/hub"
	"github.com/DoyleJ11/battleship-backend/internal/types"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Options struct {
	Logger       *zap.Logger
	OutboxSize   int
	PingInterval time.Duration
	WriteTimeout time.Duration
	// OriginPatterns is passed to websocket.AcceptOptions. Empty means same-origin only.
	OriginPatterns []string
}

func (o *Options) withDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.OutboxSize <= 0 {
		o.OutboxSize = 16
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 20 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 3 * time.Second
	}
}

// Handler upgrades the request and bridges one websocket to the hub for its lifetime.
func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	opts.withDefaults()

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			opts.Logger.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.CloseNow()

		connID := uuid.NewString()
		log := opts.Logger.With(zap.String("conn", connID))

		out := make(chan types.ServerMessage, opts.OutboxSize)
		if !h.Submit(hub.Connect{ConnID: connID, Outbox: out}) {
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}
		defer h.Submit(hub.Disconnect{ConnID: connID})
		log.Debug("websocket connected", zap.String("remote", r.RemoteAddr))

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			defer cancel()
			writeLoop(ctx, conn, out, opts, log)
		}()

		readLoop(ctx, conn, h, connID, opts, log)
		cancel()
		<-writerDone
	}
}

// writeLoop drains the outbox until the hub closes it, and keeps the connection alive with pings.
func writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan types.ServerMessage, opts Options, log *zap.Logger) {
	ping := time.NewTicker(opts.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-out:
			if !ok {
				// the hub dropped us, either on overflow or shutdown
				conn.Close(websocket.StatusGoingAway, "connection dropped")
				return
			}
			if err := write(ctx, conn, msg, opts.WriteTimeout); err != nil {
				log.Debug("websocket write failed", zap.String("type", msg.Type), zap.Error(err))
				return
			}

		case <-ping.C:
			pctx, pcancel := context.WithTimeout(ctx, opts.PingInterval)
			err := conn.Ping(pctx)
			pcancel()
			if err != nil {
				log.Debug("websocket ping failed", zap.Error(err))
				return
			}
		}
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, h *hub.Hub, connID string, opts Options, log *zap.Logger) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				log.Debug("websocket closed by client")
			default:
				if !errors.Is(err, context.Canceled) {
					log.Debug("websocket read failed", zap.Error(err))
				}
			}
			return
		}

		in, err := types.Decode(data)
		if err != nil {
			log.Debug("bad frame", zap.Error(err))
			if werr := write(ctx, conn, types.Error(err.Error()), opts.WriteTimeout); werr != nil {
				return
			}
			continue
		}

		var msg hub.Msg
		switch req := in.(type) {
		case types.ShotRequest:
			msg = hub.Shot{ConnID: connID, Pos: req.Position()}
		case types.LeaveRequest:
			msg = hub.Leave{ConnID: connID}
		case types.ChatRequest:
			msg = hub.Chat{ConnID: connID, Text: req.Text}
		}
		if !h.Submit(msg) {
			return
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}
