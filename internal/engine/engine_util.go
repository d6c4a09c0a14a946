package engine

func (s Slot) Valid() bool { return s == SlotFirst || s == SlotSecond }

// Other returns the opposing slot.
func (s Slot) Other() Slot {
	if s == SlotFirst {
		return SlotSecond
	}
	return SlotFirst
}

func InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < Rows && p.Col >= 0 && p.Col < Cols
}

func newGrid(fill Cell) [][]Cell {
	grid := make([][]Cell, Rows)
	for row := range grid {
		grid[row] = make([]Cell, Cols)
		for col := range grid[row] {
			grid[row][col] = fill
		}
	}
	return grid
}

// CountCells tallies how many cells of a board hold the given value.
func CountCells(b Board, c Cell) int {
	n := 0
	for _, row := range b.Cells {
		for _, cell := range row {
			if cell == c {
				n++
			}
		}
	}
	return n
}
