package hub

import (
	"testing"

	"github.com/DoyleJ11/battleship-backend/internal/types"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestOutboxes_SlowClientIsDropped(t *testing.T) {
	o := NewOutboxes(zaptest.NewLogger(t))
	slow := make(chan types.ServerMessage, 1)
	o.Attach("slow", slow)
	o.JoinGroup("g", "slow")

	o.SendTo("slow", types.Notification("one"))
	o.SendTo("slow", types.Notification("two"))

	msg, ok := <-slow
	assert.True(t, ok)
	assert.Equal(t, types.NotificationPayload{Text: "one"}, msg.Payload)
	_, ok = <-slow
	assert.False(t, ok, "outbox should be closed after overflowing")

	// later sends to the dropped connection are no-ops
	o.SendTo("slow", types.Notification("three"))
	o.BroadcastToGroup("g", types.Notification("four"))
	assert.Empty(t, o.groups)
}

func TestOutboxes_BroadcastSkipsExcepted(t *testing.T) {
	o := NewOutboxes(zaptest.NewLogger(t))
	a := make(chan types.ServerMessage, 4)
	b := make(chan types.ServerMessage, 4)
	c := make(chan types.ServerMessage, 4)
	o.Attach("a", a)
	o.Attach("b", b)
	o.Attach("c", c)
	o.JoinGroup("g", "a")
	o.JoinGroup("g", "b")

	o.BroadcastToGroup("g", types.Join(1), "b")

	assert.Len(t, a, 1)
	assert.Empty(t, b)
	assert.Empty(t, c)

	o.LeaveGroup("g", "a")
	o.BroadcastToGroup("g", types.Join(2))
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}

func TestOutboxes_JoinGroupRequiresAttach(t *testing.T) {
	o := NewOutboxes(zaptest.NewLogger(t))
	o.JoinGroup("g", "nobody")
	assert.Empty(t, o.groups)
}

func TestOutboxes_CloseClosesEverything(t *testing.T) {
	o := NewOutboxes(zaptest.NewLogger(t))
	a := make(chan types.ServerMessage, 1)
	b := make(chan types.ServerMessage, 1)
	o.Attach("a", a)
	o.Attach("b", b)
	o.JoinGroup("g", "a")

	o.Close()

	_, okA := <-a
	_, okB := <-b
	assert.False(t, okA)
	assert.False(t, okB)
	assert.Empty(t, o.conns)
	assert.Empty(t, o.groups)
}
