package directory

import "github.com/DoyleJ11/battleship-backend/internal/engine"

// Entry is what the server knows about one connection.
type Entry struct {
	Session *engine.Session
	Slot    engine.Slot
}

// InGame reports whether the connection is seated in a session.
func (e Entry) InGame() bool { return e.Session != nil }

// Directory maps connection ids to their session and slot.
// Not safe for concurrent use; the hub goroutine owns it.
type Directory struct {
	entries map[string]*Entry
}

func New() *Directory {
	return &Directory{entries: make(map[string]*Entry)}
}

// Register creates an empty entry, replacing any previous one.
func (d *Directory) Register(connID string) {
	d.entries[connID] = &Entry{}
}

// Attach seats a registered connection. It reports false for unknown connections.
func (d *Directory) Attach(connID string, s *engine.Session, slot engine.Slot) bool {
	e, ok := d.entries[connID]
	if !ok {
		return false
	}
	e.Session = s
	e.Slot = slot
	return true
}

// Detach clears the session, leaving a fresh entry.
func (d *Directory) Detach(connID string) bool {
	if _, ok := d.entries[connID]; !ok {
		return false
	}
	d.entries[connID] = &Entry{}
	return true
}

func (d *Directory) Unregister(connID string) bool {
	if _, ok := d.entries[connID]; !ok {
		return false
	}
	delete(d.entries, connID)
	return true
}

// Lookup returns a copy of the entry.
func (d *Directory) Lookup(connID string) (Entry, bool) {
	e, ok := d.entries[connID]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

func (d *Directory) Len() int { return len(d.entries) }
