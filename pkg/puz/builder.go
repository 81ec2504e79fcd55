package puz

import (
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
)

// Builder assembles a Puzzle. It takes ownership of the grid; every added
// clue registers itself with the boxes of its zone so that box membership
// and the clue lists never disagree.
//
// A Builder is single use: after Build, further additions fail.
type Builder struct {
	puzzle          *Puzzle
	numberPositions map[string]Position
	nextIndex       map[string]int
	built           bool
}

// NewBuilder starts a puzzle on grid, indexed [row][col]. The grid must be
// non-empty and rectangular.
func NewBuilder(grid [][]Box) (*Builder, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, cwerrors.New(cwerrors.ErrCodeStructural, "grid is empty")
	}
	width := len(grid[0])
	for row := range grid {
		if len(grid[row]) != width {
			return nil, cwerrors.New(cwerrors.ErrCodeStructural,
				"grid row %d has %d cells, want %d", row, len(grid[row]), width)
		}
	}

	b := &Builder{
		puzzle: &Puzzle{
			boxes: grid,
			lists: make(map[string]*ClueList),
		},
		nextIndex: make(map[string]int),
	}
	b.numberPositions = b.puzzle.NumberPositions()
	return b, nil
}

// Puzzle gives access to the puzzle under construction, for metadata.
func (b *Builder) Puzzle() *Puzzle { return b.puzzle }

// NumberPosition returns the first cell, in row-major order, printed with number.
func (b *Builder) NumberPosition(number string) (Position, bool) {
	pos, ok := b.numberPositions[number]
	return pos, ok
}

// NumberPositions returns a copy of the clue number to cell index.
func (b *Builder) NumberPositions() map[string]Position {
	out := make(map[string]Position, len(b.numberPositions))
	for k, v := range b.numberPositions {
		out[k] = v
	}
	return out
}

// NextClueIndex returns the index the next clue added to list will get.
func (b *Builder) NextClueIndex(list string) int {
	return b.nextIndex[list]
}

// AddClue appends a clue to list with the next free index. Every zone
// position must be on the grid.
func (b *Builder) AddClue(list, number, label, hint string, zone Zone) (ClueID, error) {
	if b.built {
		return ClueID{}, cwerrors.New(cwerrors.ErrCodeInternal, "builder already used")
	}
	for _, pos := range zone {
		if !b.puzzle.InBounds(pos) {
			return ClueID{}, cwerrors.New(cwerrors.ErrCodeStructural,
				"clue %s %s: position %v outside %dx%d grid", list, number, pos, b.puzzle.Width(), b.puzzle.Height())
		}
	}

	id := ClueID{List: list, Index: b.nextIndex[list]}
	b.nextIndex[list] = id.Index + 1

	l := b.puzzle.lists[list]
	if l == nil {
		l = newClueList(list)
		b.puzzle.lists[list] = l
	}
	zone = zone.Clone()
	l.add(Clue{ID: id, Number: number, Label: label, Hint: hint, Zone: zone})

	for i, pos := range zone {
		box := b.puzzle.Box(pos)
		if !box.IsMissing() {
			box.setCluePosition(id, i)
		}
	}
	return id, nil
}

// AddAcrossClue adds a clue whose zone runs right from the cell printed
// with number until the grid edge, a block, or a bar.
func (b *Builder) AddAcrossClue(list, number, label, hint string) (ClueID, error) {
	zone, err := b.AcrossZone(number)
	if err != nil {
		return ClueID{}, err
	}
	return b.AddClue(list, number, label, hint, zone)
}

// AddDownClue adds a clue whose zone runs down from the cell printed with
// number until the grid edge, a block, or a bar.
func (b *Builder) AddDownClue(list, number, label, hint string) (ClueID, error) {
	zone, err := b.DownZone(number)
	if err != nil {
		return ClueID{}, err
	}
	return b.AddClue(list, number, label, hint, zone)
}

// AcrossZone returns the zone AddAcrossClue would derive for number.
func (b *Builder) AcrossZone(number string) (Zone, error) { return b.zone(number, Across) }

// DownZone returns the zone AddDownClue would derive for number.
func (b *Builder) DownZone(number string) (Zone, error) { return b.zone(number, Down) }

func (b *Builder) zone(number string, dir Direction) (Zone, error) {
	start, ok := b.numberPositions[number]
	if !ok {
		return nil, cwerrors.New(cwerrors.ErrCodeUnresolvedReference, "no cell numbered %q", number)
	}
	return b.puzzle.Run(start, dir), nil
}

// Build finishes construction and returns the puzzle.
func (b *Builder) Build() *Puzzle {
	b.built = true
	return b.puzzle
}
