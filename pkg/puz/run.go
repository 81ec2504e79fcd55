package puz

// Direction is the step between consecutive cells of a straight word.
type Direction struct {
	DRow, DCol int
}

var (
	Across = Direction{DRow: 0, DCol: 1}
	Down   = Direction{DRow: 1, DCol: 0}
)

// NumberPositions maps each printed clue number to the first cell, in
// row-major order, that carries it.
func (p *Puzzle) NumberPositions() map[string]Position {
	out := make(map[string]Position)
	for row := range p.boxes {
		for col := range p.boxes[row] {
			box := &p.boxes[row][col]
			if box.IsMissing() || !box.HasClueNumber() {
				continue
			}
			if _, seen := out[box.ClueNumber]; !seen {
				out[box.ClueNumber] = Position{Row: row, Col: col}
			}
		}
	}
	return out
}

// Run returns the straight word starting at start: cells are added in
// direction dir until the grid edge, a block, or a bar between two cells.
// The start cell is always included.
func (p *Puzzle) Run(start Position, dir Direction) Zone {
	zone := Zone{start}
	prev := p.Box(start)
	if prev == nil {
		return zone
	}
	for pos := (Position{Row: start.Row + dir.DRow, Col: start.Col + dir.DCol}); ; pos = (Position{Row: pos.Row + dir.DRow, Col: pos.Col + dir.DCol}) {
		box := p.Box(pos)
		if IsBlock(box) || barredBetween(prev, box, dir) {
			return zone
		}
		zone = append(zone, pos)
		prev = box
	}
}

// barredBetween reports whether a bar separates consecutive cells of a run.
func barredBetween(prev, next *Box, dir Direction) bool {
	if dir.DRow != 0 {
		return prev.BarBottom != BarNone || next.BarTop != BarNone
	}
	return prev.BarRight != BarNone || next.BarLeft != BarNone
}

// IsDirectionList reports whether every clue of the list is numbered and
// its zone is exactly the run in dir from its numbered cell.
func (p *Puzzle) IsDirectionList(list *ClueList, dir Direction) bool {
	if list == nil || list.Len() == 0 {
		return false
	}
	positions := p.NumberPositions()
	for _, c := range list.clues {
		start, ok := positions[c.Number]
		if !ok || !c.Zone.Equal(p.Run(start, dir)) {
			return false
		}
	}
	return true
}
