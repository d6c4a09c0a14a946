package hub

import (
	"slices"

	"github.com/DoyleJ11/battleship-backend/internal/types"
	"go.uber.org/zap"
)

// Transport is everything the hub needs from the connection layer.
// Implementations are only called from the hub goroutine.
type Transport interface {
	Attach(connID string, out chan<- types.ServerMessage)
	Detach(connID string)
	SendTo(connID string, msg types.ServerMessage)
	BroadcastToGroup(group string, msg types.ServerMessage, except ...string)
	JoinGroup(group, connID string)
	LeaveGroup(group, connID string)
	Close()
}

// Outboxes delivers to one buffered channel per connection.
// A connection whose channel is full is dropped: its channel is closed so the writer side can hang up.
type Outboxes struct {
	conns  map[string]chan<- types.ServerMessage
	groups map[string]map[string]bool
	log    *zap.Logger
}

func NewOutboxes(log *zap.Logger) *Outboxes {
	return &Outboxes{
		conns:  make(map[string]chan<- types.ServerMessage),
		groups: make(map[string]map[string]bool),
		log:    log,
	}
}

func (o *Outboxes) Attach(connID string, out chan<- types.ServerMessage) {
	if old, ok := o.conns[connID]; ok {
		close(old)
	}
	o.conns[connID] = out
}

func (o *Outboxes) Detach(connID string) {
	ch, ok := o.conns[connID]
	if !ok {
		return
	}
	close(ch)
	delete(o.conns, connID)
	for group := range o.groups {
		o.LeaveGroup(group, connID)
	}
}

func (o *Outboxes) SendTo(connID string, msg types.ServerMessage) {
	ch, ok := o.conns[connID]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		o.log.Warn("outbox full, dropping connection", zap.String("conn", connID), zap.String("type", msg.Type))
		o.Detach(connID)
	}
}

func (o *Outboxes) BroadcastToGroup(group string, msg types.ServerMessage, except ...string) {
	for connID := range o.groups[group] {
		if slices.Contains(except, connID) {
			continue
		}
		o.SendTo(connID, msg)
	}
}

func (o *Outboxes) JoinGroup(group, connID string) {
	if _, ok := o.conns[connID]; !ok {
		return
	}
	members, ok := o.groups[group]
	if !ok {
		members = make(map[string]bool)
		o.groups[group] = members
	}
	members[connID] = true
}

func (o *Outboxes) LeaveGroup(group, connID string) {
	members, ok := o.groups[group]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(o.groups, group)
	}
}

// Close tells every writer no more messages are coming.
func (o *Outboxes) Close() {
	for id, ch := range o.conns {
		close(ch)
		delete(o.conns, id)
	}
	clear(o.groups)
}
