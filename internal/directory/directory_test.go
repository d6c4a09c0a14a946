package directory

import (
	"testing"

	"github.com/DoyleJ11/battleship-backend/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *engine.Session {
	t.Helper()
	layout := []engine.Ship{{Name: "destroyer", Cells: []engine.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}}}}
	s, err := engine.NewSession(1, "A", "B", engine.FixedPlacement(layout))
	require.NoError(t, err)
	return s
}

func TestDirectory_Lifecycle(t *testing.T) {
	d := New()
	s := newSession(t)

	d.Register("A")
	e, ok := d.Lookup("A")
	require.True(t, ok)
	assert.False(t, e.InGame())

	require.True(t, d.Attach("A", s, engine.SlotFirst))
	e, _ = d.Lookup("A")
	assert.Same(t, s, e.Session)
	assert.Equal(t, engine.SlotFirst, e.Slot)

	require.True(t, d.Detach("A"))
	e, ok = d.Lookup("A")
	require.True(t, ok, "detach keeps the entry")
	assert.False(t, e.InGame())

	require.True(t, d.Unregister("A"))
	_, ok = d.Lookup("A")
	assert.False(t, ok)
	assert.Zero(t, d.Len())
}

func TestDirectory_UnknownConnection(t *testing.T) {
	d := New()
	s := newSession(t)

	assert.False(t, d.Attach("ghost", s, engine.SlotSecond))
	assert.False(t, d.Detach("ghost"))
	assert.False(t, d.Unregister("ghost"))
	_, ok := d.Lookup("ghost")
	assert.False(t, ok)
}

func TestDirectory_LookupReturnsCopy(t *testing.T) {
	d := New()
	s := newSession(t)
	d.Register("A")
	d.Attach("A", s, engine.SlotSecond)

	e, _ := d.Lookup("A")
	e.Session = nil

	again, _ := d.Lookup("A")
	assert.True(t, again.InGame())
}
