// Package puz is the crossword document model shared by every codec.
//
// A [Puzzle] is a rectangular grid of [Box] cells plus any number of
// independently named [ClueList]s. Each clue is identified by a [ClueID],
// the pair (list name, index), which stays stable even when clues carry no
// printed number or share one. A clue's [Zone] is the ordered path of cells
// its answer occupies; zones may be detached (jigsaw and barred puzzles) and
// their order is the traversal order of the word.
//
// # Cells
//
// Every grid position holds a Box whose [CellKind] is one of:
//
//   - [CellMissing]: nothing is there (the zero Box)
//   - [CellBlock]: a block, possibly decorated with color, shape or an initial value
//   - [CellPlayable]: a cell the solver fills in
//
// Use [IsBlock] or [Box.IsBlock] instead of comparing kinds directly: a
// decorated block is a real, non-missing value.
//
// # Construction
//
// Puzzles are assembled once by a [Builder], which owns the grid while clues
// are added and keeps every box's clue membership consistent with the clue
// zones:
//
//	b, err := puz.NewBuilder(grid)
//	if err != nil {
//	    return err
//	}
//	if _, err := b.AddAcrossClue("Across", "1", "", "Feline"); err != nil {
//	    return err
//	}
//	p := b.Build()
//
// After construction a solving engine mutates play state (responses, notes,
// flags, history) in place. The model holds no locks; callers serialize
// writers themselves.
package puz
