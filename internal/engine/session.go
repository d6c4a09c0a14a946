package engine

import "time"

// Session is one match between two connections.
// It is not safe for concurrent use; the hub goroutine owns every session.
type Session struct {
	id        int64
	players   [2]string
	fleets    [2]*Fleet
	current   Slot
	status    Status
	winner    Slot
	reason    EndReason
	shots     int
	createdAt time.Time
	endedAt   time.Time
}

// NewSession seats connA in slot 0 and connB in slot 1, each with an independent layout from place.
func NewSession(id int64, connA, connB string, place PlaceFunc) (*Session, error) {
	s := &Session{
		id:        id,
		players:   [2]string{connA, connB},
		current:   SlotFirst,
		status:    StatusInProgress,
		createdAt: time.Now(),
	}
	for _, slot := range []Slot{SlotFirst, SlotSecond} {
		f, err := NewFleet(slot, place)
		if err != nil {
			return nil, err
		}
		s.fleets[slot] = f
	}
	return s, nil
}

func (s *Session) ID() int64 { return s.id }
func (s *Session) CurrentPlayer() Slot { return s.current }
func (s *Session) Status() Status { return s.status }
func (s *Session) Over() bool { return s.status == StatusGameOver }
func (s *Session) Reason() EndReason { return s.reason }
func (s *Session) Shots() int { return s.shots }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) EndedAt() time.Time { return s.endedAt }
func (s *Session) Fleet(slot Slot) *Fleet { return s.fleets[slot] }

func (s *Session) PlayerID(slot Slot) string { return s.players[slot] }

// SlotOf reports which seat connID holds.
func (s *Session) SlotOf(connID string) (Slot, bool) {
	for i, p := range s.players {
		if p == connID {
			return Slot(i), true
		}
	}
	return 0, false
}

// Shoot fires the current player's shot at the opponent's fleet.
// The turn flips on every accepted shot, the winning one included.
func (s *Session) Shoot(p Position) (ShotResult, error) {
	if s.status == StatusGameOver {
		return "", ErrGameOver
	}

	shooter := s.current
	target := s.fleets[shooter.Other()]
	result, err := target.ReceiveShot(p)
	if err != nil {
		return "", err
	}

	s.shots++
	s.current = shooter.Other()

	if target.AllSunk() {
		s.finish(shooter, ReasonSunk)
	}
	return result, nil
}

// Abort ends the game in favour of the slot that did not abort.
// It reports false when the session was already over.
func (s *Session) Abort(aborting Slot) bool {
	if s.status == StatusGameOver || !aborting.Valid() {
		return false
	}
	s.finish(aborting.Other(), ReasonAbort)
	return true
}

func (s *Session) finish(winner Slot, reason EndReason) {
	s.status = StatusGameOver
	s.winner = winner
	s.reason = reason
	s.endedAt = time.Now()
}

// GameState projects the session for viewer. With target == viewer only the viewer's own board is included.
func (s *Session) GameState(viewer, target Slot) (GameState, error) {
	if !viewer.Valid() || !target.Valid() {
		return GameState{}, ErrInvalidSlot
	}

	gs := GameState{
		SessionID:     s.id,
		You:           viewer,
		YourBoard:     s.fleets[viewer].Projection(viewer),
		CurrentPlayer: s.current,
		Status:        s.status,
	}
	if target != viewer {
		opp := s.fleets[target].Projection(viewer)
		gs.OpponentBoard = &opp
	}
	return gs, nil
}

func (s *Session) Winner() (Slot, error) {
	if s.status != StatusGameOver {
		return 0, ErrGameInProgress
	}
	return s.winner, nil
}

func (s *Session) WinnerID() (string, error) {
	w, err := s.Winner()
	if err != nil {
		return "", err
	}
	return s.players[w], nil
}

func (s *Session) LoserID() (string, error) {
	w, err := s.Winner()
	if err != nil {
		return "", err
	}
	return s.players[w.Other()], nil
}
