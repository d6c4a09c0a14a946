package lobby

// Lobby is the FIFO waiting room. The two longest-waiting connections are paired first.
// Not safe for concurrent use; the hub goroutine owns it.
type Lobby struct {
	queue   []string
	waiting map[string]bool
}

func NewLobby() *Lobby {
	return &Lobby{
		queue:   make([]string, 0),
		waiting: make(map[string]bool),
	}
}

// Enqueue appends connID to the back of the queue. A connection already waiting is left where it is.
func (l *Lobby) Enqueue(connID string) bool {
	if l.waiting[connID] {
		return false
	}
	l.queue = append(l.queue, connID)
	l.waiting[connID] = true
	return true
}

// TryPairNext removes the two earliest connections. first takes slot 0.
func (l *Lobby) TryPairNext() (first, second string, ok bool) {
	if len(l.queue) < 2 {
		return "", "", false
	}
	first, second = l.queue[0], l.queue[1]
	l.queue = l.queue[2:]
	delete(l.waiting, first)
	delete(l.waiting, second)
	return first, second, true
}

// Remove drops connID from the queue, keeping everyone else's order.
func (l *Lobby) Remove(connID string) bool {
	if !l.waiting[connID] {
		return false
	}
	for i, id := range l.queue {
		if id == connID {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			break
		}
	}
	delete(l.waiting, connID)
	return true
}

func (l *Lobby) Contains(connID string) bool { return l.waiting[connID] }

// Position is 1-based; 0 means not waiting.
func (l *Lobby) Position(connID string) int {
	for i, id := range l.queue {
		if id == connID {
			return i + 1
		}
	}
	return 0
}

func (l *Lobby) Len() int { return len(l.queue) }

func (l *Lobby) Waiting() []string {
	return append([]string(nil), l.queue...)
}
