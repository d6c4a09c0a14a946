package hub

import (
	"fmt"
	"html"

	"github.com/DoyleJ11/battleship-backend/internal/directory"
	"github.com/DoyleJ11/battleship-backend/internal/engine"
	"github.com/DoyleJ11/battleship-backend/internal/results"
	"github.com/DoyleJ11/battleship-backend/internal/types"
	"go.uber.org/zap"
)

const opponentLeftText = "Your opponent left the game."

func groupName(sessionID int64) string {
	return fmt.Sprintf("session:%d", sessionID)
}

func (h *Hub) handleConnect(m Connect) {
	if _, exists := h.dir.Lookup(m.ConnID); exists {
		h.log.Warn("connect for a registered connection, ignoring", zap.String("conn", m.ConnID))
		return
	}

	h.dir.Register(m.ConnID)
	h.transport.Attach(m.ConnID, m.Outbox)
	h.log.Debug("connection registered", zap.String("conn", m.ConnID), zap.Int("connections", h.dir.Len()))

	h.enterLobby(m.ConnID)
}

// enterLobby queues connID, runs a pairing pass and tells it where it stands if it is still waiting.
func (h *Hub) enterLobby(connID string) {
	h.lobby.Enqueue(connID)
	h.pairingPass()

	if pos := h.lobby.Position(connID); pos > 0 {
		h.transport.SendTo(connID, types.Notification(
			fmt.Sprintf("Waiting for an opponent (position %d in queue).", pos)))
	}
}

func (h *Hub) pairingPass() {
	first, second, ok := h.lobby.TryPairNext()
	if !ok {
		return
	}

	id := h.lastID + 1
	s, err := engine.NewSession(id, first, second, h.place)
	if err != nil {
		h.log.Error("creating session failed, requeueing pair",
			zap.String("first", first), zap.String("second", second), zap.Error(err))
		h.lobby.Enqueue(first)
		h.lobby.Enqueue(second)
		return
	}
	h.lastID = id
	h.sessions[id] = s

	group := groupName(id)
	for _, slot := range []engine.Slot{engine.SlotFirst, engine.SlotSecond} {
		connID := s.PlayerID(slot)
		h.dir.Attach(connID, s, slot)
		h.seated[id]++
		h.transport.JoinGroup(group, connID)
	}

	h.transport.BroadcastToGroup(group, types.Join(id))
	for _, slot := range []engine.Slot{engine.SlotFirst, engine.SlotSecond} {
		gs, _ := s.GameState(slot, slot)
		h.transport.SendTo(s.PlayerID(slot), types.Update(gs))
	}

	h.log.Info("session created",
		zap.Int64("session", id),
		zap.String("first", first),
		zap.String("second", second),
		zap.Int("waiting", h.lobby.Len()))
}

func (h *Hub) handleShot(m Shot) {
	e, ok := h.dir.Lookup(m.ConnID)
	if !ok {
		h.log.Debug("shot from unknown connection", zap.String("conn", m.ConnID))
		return
	}
	if !e.InGame() || e.Session.Over() || e.Session.CurrentPlayer() != e.Slot {
		return
	}

	s := e.Session
	result, err := s.Shoot(m.Pos)
	if err != nil {
		h.log.Debug("shot rejected",
			zap.String("conn", m.ConnID), zap.Int64("session", s.ID()), zap.Error(err))
		return
	}
	h.log.Debug("shot",
		zap.Int64("session", s.ID()),
		zap.Int("slot", int(e.Slot)),
		zap.Int("row", m.Pos.Row),
		zap.Int("col", m.Pos.Col),
		zap.String("result", string(result)))

	for _, slot := range []engine.Slot{engine.SlotFirst, engine.SlotSecond} {
		gs, _ := s.GameState(slot, slot.Other())
		h.transport.SendTo(s.PlayerID(slot), types.Update(gs))
	}

	if s.Over() {
		h.finish(s)
	}
}

func (h *Hub) handleLeave(m Leave) {
	e, ok := h.dir.Lookup(m.ConnID)
	if !ok {
		h.log.Debug("leave from unknown connection", zap.String("conn", m.ConnID))
		return
	}
	if !e.InGame() {
		return
	}

	h.abandon(e)
	h.transport.SendTo(m.ConnID, types.LeaveAck())

	h.transport.LeaveGroup(groupName(e.Session.ID()), m.ConnID)
	h.dir.Detach(m.ConnID)
	h.vacate(e.Session)

	h.enterLobby(m.ConnID)
}

func (h *Hub) handleDisconnect(m Disconnect) {
	h.transport.Detach(m.ConnID)
	h.lobby.Remove(m.ConnID)

	e, ok := h.dir.Lookup(m.ConnID)
	if !ok {
		h.log.Debug("disconnect from unknown connection", zap.String("conn", m.ConnID))
		return
	}

	h.dir.Unregister(m.ConnID)
	if e.InGame() {
		h.abandon(e)
		h.vacate(e.Session)
	}
	h.log.Debug("connection unregistered", zap.String("conn", m.ConnID), zap.Int("connections", h.dir.Len()))
}

func (h *Hub) handleChat(m Chat) {
	e, ok := h.dir.Lookup(m.ConnID)
	if !ok || !e.InGame() {
		return
	}

	text := html.EscapeString(m.Text)
	opp := e.Session.PlayerID(e.Slot.Other())
	// the opponent may already have moved on to another game
	if oe, ok := h.dir.Lookup(opp); ok && oe.Session == e.Session {
		h.transport.SendTo(opp, types.Chat(text, false))
	}
	h.transport.SendTo(m.ConnID, types.Chat(text, true))
}

// abandon aborts e's session on behalf of e's slot if it is still running.
func (h *Hub) abandon(e directory.Entry) {
	s := e.Session
	if !s.Abort(e.Slot) {
		return
	}
	h.transport.SendTo(s.PlayerID(e.Slot.Other()), types.Notification(opponentLeftText))
	h.finish(s)
}

// finish sends the terminal notices and hands the result off for recording.
func (h *Hub) finish(s *engine.Session) {
	winner, err := s.WinnerID()
	if err != nil {
		h.log.Error("finish called on a running session", zap.Int64("session", s.ID()), zap.Error(err))
		return
	}
	loser, _ := s.LoserID()

	h.transport.SendTo(winner, types.GameOver(true))
	h.transport.SendTo(loser, types.GameOver(false))

	h.recorder.Record(results.Match{
		SessionID: s.ID(),
		WinnerID:  winner,
		LoserID:   loser,
		Reason:    string(s.Reason()),
		Shots:     s.Shots(),
		StartedAt: s.CreatedAt(),
		EndedAt:   s.EndedAt(),
	})
}

// vacate drops s once nobody is seated in it anymore.
func (h *Hub) vacate(s *engine.Session) {
	id := s.ID()
	h.seated[id]--
	if h.seated[id] > 0 {
		return
	}
	delete(h.seated, id)
	delete(h.sessions, id)
	h.log.Debug("session dropped", zap.Int64("session", id))
}
