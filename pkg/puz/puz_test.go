package puz

import "testing"

// gridFromRows builds a grid from strings: '#' is a block, '.' is missing,
// digits number the cell, anything else is a playable cell with that solution.
func gridFromRows(rows ...string) [][]Box {
	grid := make([][]Box, len(rows))
	for r, row := range rows {
		grid[r] = make([]Box, len(row))
		for c, ch := range row {
			switch {
			case ch == '#':
				grid[r][c] = NewBlock()
			case ch == '.':
				grid[r][c] = Box{}
			case ch >= '1' && ch <= '9':
				grid[r][c] = NewCell()
				grid[r][c].ClueNumber = string(ch)
			default:
				grid[r][c] = NewCell()
				grid[r][c].Solution = string(ch)
			}
		}
	}
	return grid
}

func mustBuilder(t *testing.T, rows ...string) *Builder {
	t.Helper()
	b, err := NewBuilder(gridFromRows(rows...))
	if err != nil {
		t.Fatalf("NewBuilder() error: %v", err)
	}
	return b
}
