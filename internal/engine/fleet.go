package engine

// Fleet is one player's ships plus the record of shots fired against them.
type Fleet struct {
	owner  Slot
	ships  []*Ship
	shipAt map[Position]*Ship
	shots  map[Position]ShotResult
}

func NewFleet(owner Slot, place PlaceFunc) (*Fleet, error) {
	ships, err := place()
	if err != nil {
		return nil, err
	}
	if err := validatePlacement(ships); err != nil {
		return nil, err
	}

	f := &Fleet{
		owner:  owner,
		ships:  make([]*Ship, 0, len(ships)),
		shipAt: make(map[Position]*Ship),
		shots:  make(map[Position]ShotResult),
	}
	for i := range ships {
		s := &Ship{Name: ships[i].Name, Cells: ships[i].Cells}
		f.ships = append(f.ships, s)
		for _, c := range s.Cells {
			f.shipAt[c] = s
		}
	}
	return f, nil
}

func (f *Fleet) Owner() Slot { return f.owner }

// ReceiveShot records an incoming shot. A rejected shot leaves the fleet untouched.
func (f *Fleet) ReceiveShot(p Position) (ShotResult, error) {
	if !InBounds(p) {
		return "", ErrOutOfBounds
	}
	if _, ok := f.shots[p]; ok {
		return "", ErrAlreadyShot
	}

	s, ok := f.shipAt[p]
	if !ok {
		f.shots[p] = ShotMiss
		return ShotMiss, nil
	}

	s.Hits++
	if s.Sunk() {
		f.shots[p] = ShotSunk
		return ShotSunk, nil
	}
	f.shots[p] = ShotHit
	return ShotHit, nil
}

func (f *Fleet) Targeted(p Position) bool {
	_, ok := f.shots[p]
	return ok
}

func (f *Fleet) AllSunk() bool {
	for _, s := range f.ships {
		if !s.Sunk() {
			return false
		}
	}
	return true
}

func (f *Fleet) ShipsLeft() int {
	n := 0
	for _, s := range f.ships {
		if !s.Sunk() {
			n++
		}
	}
	return n
}

func (f *Fleet) ShotCount() int { return len(f.shots) }

// Projection renders the fleet for viewer. Only the owner sees unhit ship cells.
func (f *Fleet) Projection(viewer Slot) Board {
	grid := newGrid(CellWater)

	if viewer == f.owner {
		for c := range f.shipAt {
			grid[c.Row][c.Col] = CellShip
		}
	}

	for c, result := range f.shots {
		switch result {
		case ShotMiss:
			grid[c.Row][c.Col] = CellMiss
		default:
			grid[c.Row][c.Col] = CellHit
		}
	}

	// every cell of a sunk ship has already been hit, so marking it reveals nothing new
	for _, s := range f.ships {
		if !s.Sunk() {
			continue
		}
		for _, c := range s.Cells {
			grid[c.Row][c.Col] = CellSunk
		}
	}

	return Board{Cells: grid, ShipsLeft: f.ShipsLeft()}
}
