package hub

import (
	"context"
	"math/rand"
	"time"

	"github.com/DoyleJ11/battleship-backend/internal/directory"
	"github.com/DoyleJ11/battleship-backend/internal/engine"
	"github.com/DoyleJ11/battleship-backend/internal/lobby"
	"github.com/DoyleJ11/battleship-backend/internal/results"
	"github.com/DoyleJ11/battleship-backend/internal/types"
	"go.uber.org/zap"
)

type Msg interface{ isHubMsg() }

// Connect registers a new connection. Outbox is where it wants to receive server messages.
type Connect struct {
	ConnID string
	Outbox chan<- types.ServerMessage
}

type Shot struct {
	ConnID string
	Pos    engine.Position
}

type Leave struct{ ConnID string }

type Chat struct {
	ConnID string
	Text   string
}

type Disconnect struct{ ConnID string }

type GetStats struct {
	Reply chan Stats
}

type Shutdown struct{}

func (Connect) isHubMsg()    {}
func (Shot) isHubMsg()       {}
func (Leave) isHubMsg()      {}
func (Chat) isHubMsg()       {}
func (Disconnect) isHubMsg() {}
func (GetStats) isHubMsg()   {}
func (Shutdown) isHubMsg()   {}

type Stats struct {
	Connections     int   `json:"connections"`
	Waiting         int   `json:"waiting"`
	ActiveSessions  int   `json:"activeSessions"`
	SessionsCreated int64 `json:"sessionsCreated"`
}

// Recorder receives finished matches. Record must not block.
type Recorder interface {
	Record(m results.Match)
}

type nopRecorder struct{}

func (nopRecorder) Record(results.Match) {}

type Options struct {
	Logger    *zap.Logger
	Transport Transport
	Placement engine.PlaceFunc
	Recorder  Recorder
	InboxSize int
}

// Hub owns the lobby, the directory and every live session.
// All of them are touched only by the loop goroutine, one message at a time.
type Hub struct {
	inbox     chan Msg
	lobby     *lobby.Lobby
	dir       *directory.Directory
	sessions  map[int64]*engine.Session
	seated    map[int64]int
	lastID    int64
	transport Transport
	place     engine.PlaceFunc
	recorder  Recorder
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewHub(parent context.Context, opts Options) *Hub {
	ctx, cancel := context.WithCancel(parent)

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Transport == nil {
		opts.Transport = NewOutboxes(opts.Logger)
	}
	if opts.Placement == nil {
		r := rand.New(rand.NewSource(time.Now().UnixNano()))
		opts.Placement = engine.RandomPlacement(r, engine.DefaultFleet)
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.InboxSize <= 0 {
		opts.InboxSize = 64
	}

	h := &Hub{
		inbox:     make(chan Msg, opts.InboxSize),
		lobby:     lobby.NewLobby(),
		dir:       directory.New(),
		sessions:  make(map[int64]*engine.Session),
		seated:    make(map[int64]int),
		transport: opts.Transport,
		place:     opts.Placement,
		recorder:  opts.Recorder,
		log:       opts.Logger,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go h.loop()
	return h
}

// Inbox exposes the raw inbox so tests or the ws layer can send messages.
func (h *Hub) Inbox() chan<- Msg { return h.inbox }

// Submit delivers m unless the hub has stopped.
func (h *Hub) Submit(m Msg) bool {
	if h.ctx.Err() != nil {
		return false
	}
	select {
	case h.inbox <- m:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// Stats asks the loop for a snapshot of its counters.
func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	if !h.Submit(GetStats{Reply: reply}) {
		return Stats{}, context.Canceled
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	case <-h.done:
		return Stats{}, context.Canceled
	}
}

// Done is closed once the loop has exited.
func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) loop() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Connect:
				h.handleConnect(msg)
			case Shot:
				h.handleShot(msg)
			case Leave:
				h.handleLeave(msg)
			case Chat:
				h.handleChat(msg)
			case Disconnect:
				h.handleDisconnect(msg)
			case GetStats:
				msg.Reply <- h.stats()
			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) stats() Stats {
	return Stats{
		Connections:     h.dir.Len(),
		Waiting:         h.lobby.Len(),
		ActiveSessions:  len(h.sessions),
		SessionsCreated: h.lastID,
	}
}

func (h *Hub) shutdown() {
	h.log.Info("hub shutting down",
		zap.Int("connections", h.dir.Len()),
		zap.Int("sessions", len(h.sessions)))
	h.transport.Close()
	h.cancel()
}
