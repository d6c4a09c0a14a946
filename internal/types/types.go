package types

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DoyleJ11/battleship-backend/internal/engine"
	"github.com/go-playground/validator/v10"
)

var ErrBadJSON = errors.New("bad json")
var ErrUnknownType = errors.New("unknown type")
var ErrInvalidPayload = errors.New("invalid payload")

// Client -> Server
const (
	TypeShot  = "shot"
	TypeLeave = "leave"
	TypeChat  = "chat"
)

// Server -> Client
const (
	TypeJoin         = "join"
	TypeUpdate       = "update"
	TypeGameOver     = "gameover"
	TypeNotification = "notification"
	TypeLeaveAck     = "leave"
	TypeChatRelay    = "chat"
	TypeError        = "error"
)

const MaxChatLength = 500

type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Inbound is the closed set of decoded client requests.
type Inbound interface{ isInbound() }

// ShotRequest bounds mirror engine.Rows and engine.Cols.
type ShotRequest struct {
	Row *int `json:"row" validate:"required,min=0,max=9"`
	Col *int `json:"col" validate:"required,min=0,max=9"`
}

type LeaveRequest struct{}

type ChatRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

func (ShotRequest) isInbound()  {}
func (LeaveRequest) isInbound() {}
func (ChatRequest) isInbound()  {}

func (r ShotRequest) Position() engine.Position {
	return engine.Position{Row: *r.Row, Col: *r.Col}
}

type JoinPayload struct {
	SessionID int64 `json:"sessionId"`
}

type GameOverPayload struct {
	Won bool `json:"won"`
}

type NotificationPayload struct {
	Text string `json:"text"`
}

type ChatPayload struct {
	Text string `json:"text"`
	Mine bool   `json:"mine"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses one websocket frame into a typed request.
func Decode(data []byte) (Inbound, error) {
	var cm ClientMessage
	if err := json.Unmarshal(data, &cm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}

	switch cm.Type {
	case TypeShot:
		var req ShotRequest
		if err := decodePayload(cm.Payload, &req); err != nil {
			return nil, err
		}
		return req, nil

	case TypeLeave:
		return LeaveRequest{}, nil

	case TypeChat:
		var req ChatRequest
		if err := decodePayload(cm.Payload, &req); err != nil {
			return nil, err
		}
		return req, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cm.Type)
	}
}

func decodePayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidPayload)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func Join(sessionID int64) ServerMessage {
	return ServerMessage{Type: TypeJoin, Payload: JoinPayload{SessionID: sessionID}}
}

func Update(gs engine.GameState) ServerMessage {
	return ServerMessage{Type: TypeUpdate, Payload: gs}
}

func GameOver(won bool) ServerMessage {
	return ServerMessage{Type: TypeGameOver, Payload: GameOverPayload{Won: won}}
}

func Notification(text string) ServerMessage {
	return ServerMessage{Type: TypeNotification, Payload: NotificationPayload{Text: text}}
}

func LeaveAck() ServerMessage {
	return ServerMessage{Type: TypeLeaveAck}
}

func Chat(text string, mine bool) ServerMessage {
	return ServerMessage{Type: TypeChatRelay, Payload: ChatPayload{Text: text, Mine: mine}}
}

func Error(msg string) ServerMessage {
	return ServerMessage{Type: TypeError, Payload: ErrorPayload{Error: msg}}
}
