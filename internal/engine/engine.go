package engine

import "errors"

var ErrOutOfBounds = errors.New("position out of bounds")
var ErrAlreadyShot = errors.New("cell already targeted")
var ErrGameOver = errors.New("game already over")
var ErrGameInProgress = errors.New("game still in progress")
var ErrBadPlacement = errors.New("invalid ship placement")
var ErrInvalidSlot = errors.New("invalid player slot")

const (
	Rows = 10
	Cols = 10
)

// Slot is a player's seat within a session.
type Slot int

const (
	SlotFirst  Slot = 0
	SlotSecond Slot = 1
)

type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusGameOver   Status = "game-over"
)

type EndReason string

const (
	ReasonNone  EndReason = ""
	ReasonSunk  EndReason = "sunk"
	ReasonAbort EndReason = "abort"
)

type ShotResult string

const (
	ShotMiss ShotResult = "miss"
	ShotHit  ShotResult = "hit"
	ShotSunk ShotResult = "sunk"
)

// Cell is one square of a projected board.
type Cell string

const (
	CellWater Cell = "water"
	CellShip  Cell = "ship"
	CellMiss  Cell = "miss"
	CellHit   Cell = "hit"
	CellSunk  Cell = "sunk"
)

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Ship struct {
	Name  string
	Cells []Position
	Hits  int
}

func (s *Ship) Sunk() bool { return s.Hits >= len(s.Cells) }

// ShipSpec describes one ship of a fleet composition.
type ShipSpec struct {
	Name   string
	Length int
}

// Board is the projection of one fleet as seen by one viewer.
type Board struct {
	Cells     [][]Cell `json:"cells"`
	ShipsLeft int      `json:"shipsLeft"`
}

// GameState is what a single player is allowed to see after an action.
type GameState struct {
	SessionID     int64  `json:"sessionId"`
	You           Slot   `json:"you"`
	YourBoard     Board  `json:"yourBoard"`
	OpponentBoard *Board `json:"opponentBoard,omitempty"`
	CurrentPlayer Slot   `json:"currentPlayer"`
	Status        Status `json:"status"`
}
