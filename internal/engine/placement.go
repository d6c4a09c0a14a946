package engine

import (
	"fmt"
	"math/rand"
)

// DefaultFleet is the classic five-ship composition.
var DefaultFleet = []ShipSpec{
	{Name: "carrier", Length: 5},
	{Name: "battleship", Length: 4},
	{Name: "cruiser", Length: 3},
	{Name: "submarine", Length: 3},
	{Name: "destroyer", Length: 2},
}

// PlaceFunc produces the ship layout for one fleet. It is called once per fleet.
type PlaceFunc func() ([]Ship, error)

const maxPlacementAttempts = 1000

// RandomPlacement lays out specs horizontally or vertically at random.
// r is not safe for concurrent use, so the returned func must stay on one goroutine.
func RandomPlacement(r *rand.Rand, specs []ShipSpec) PlaceFunc {
	return func() ([]Ship, error) {
		occupied := make(map[Position]bool)
		ships := make([]Ship, 0, len(specs))

		for _, spec := range specs {
			if spec.Length <= 0 || (spec.Length > Rows && spec.Length > Cols) {
				return nil, fmt.Errorf("%w: %s has length %d", ErrBadPlacement, spec.Name, spec.Length)
			}

			placed := false
			for attempt := 0; attempt < maxPlacementAttempts && !placed; attempt++ {
				cells := randomRun(r, spec.Length)
				if cells == nil || overlaps(cells, occupied) {
					continue
				}
				for _, c := range cells {
					occupied[c] = true
				}
				ships = append(ships, Ship{Name: spec.Name, Cells: cells})
				placed = true
			}
			if !placed {
				return nil, fmt.Errorf("%w: no room for %s", ErrBadPlacement, spec.Name)
			}
		}
		return ships, nil
	}
}

// FixedPlacement always returns the same layout. Used for deterministic games.
func FixedPlacement(ships []Ship) PlaceFunc {
	return func() ([]Ship, error) {
		out := make([]Ship, len(ships))
		for i, s := range ships {
			out[i] = Ship{Name: s.Name, Cells: append([]Position(nil), s.Cells...)}
		}
		return out, nil
	}
}

func randomRun(r *rand.Rand, length int) []Position {
	horizontal := r.Intn(2) == 0
	rowSpan, colSpan := Rows, Cols
	if horizontal {
		colSpan = Cols - length + 1
	} else {
		rowSpan = Rows - length + 1
	}
	if rowSpan <= 0 || colSpan <= 0 {
		return nil
	}

	origin := Position{Row: r.Intn(rowSpan), Col: r.Intn(colSpan)}
	cells := make([]Position, length)
	for i := range cells {
		if horizontal {
			cells[i] = Position{Row: origin.Row, Col: origin.Col + i}
		} else {
			cells[i] = Position{Row: origin.Row + i, Col: origin.Col}
		}
	}
	return cells
}

func overlaps(cells []Position, occupied map[Position]bool) bool {
	for _, c := range cells {
		if occupied[c] {
			return true
		}
	}
	return false
}

func validatePlacement(ships []Ship) error {
	if len(ships) == 0 {
		return fmt.Errorf("%w: empty fleet", ErrBadPlacement)
	}
	seen := make(map[Position]string)
	for _, s := range ships {
		if len(s.Cells) == 0 {
			return fmt.Errorf("%w: %s has no cells", ErrBadPlacement, s.Name)
		}
		for _, c := range s.Cells {
			if !InBounds(c) {
				return fmt.Errorf("%w: %s leaves the grid at %d,%d", ErrBadPlacement, s.Name, c.Row, c.Col)
			}
			if other, ok := seen[c]; ok {
				return fmt.Errorf("%w: %s overlaps %s at %d,%d", ErrBadPlacement, s.Name, other, c.Row, c.Col)
			}
			seen[c] = s.Name
		}
	}
	return nil
}
