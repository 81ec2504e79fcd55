package puz

import (
	"encoding/binary"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Kind is the puzzle type.
type Kind uint8

const (
	KindCrossword Kind = iota
	KindAcrostic
)

func (k Kind) String() string {
	switch k {
	case KindCrossword:
		return "crossword"
	case KindAcrostic:
		return "acrostic"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Puzzle is a complete crossword or acrostic with its play state.
//
// Metadata fields are plain strings; an empty string means "not set". The
// grid and clue lists are fixed at construction by a [Builder].
type Puzzle struct {
	Title             string
	Author            string
	Copyright         string
	Notes             string
	IntroMessage      string
	CompletionMessage string
	Source            string
	SourceURL         string
	SupportURL        string
	ShareURL          string
	Date              time.Time // zero when unknown; only the calendar day is meaningful
	Kind              Kind

	// Play state.
	Time        time.Duration
	Position    *Position
	CurrentClue *ClueID
	PinnedClue  *ClueID
	PlayerNote  Note
	Images      []PuzImage

	boxes   [][]Box
	lists   map[string]*ClueList
	notes   map[ClueID]Note
	flagged map[ClueID]struct{}
	history []ClueID
}

// =============================================================================
// Grid
// =============================================================================

// Width returns the number of columns.
func (p *Puzzle) Width() int {
	if len(p.boxes) == 0 {
		return 0
	}
	return len(p.boxes[0])
}

// Height returns the number of rows.
func (p *Puzzle) Height() int { return len(p.boxes) }

// InBounds reports whether pos lies on the grid.
func (p *Puzzle) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < p.Height() && pos.Col >= 0 && pos.Col < p.Width()
}

// Box returns the cell at pos, or nil when pos is off the grid.
func (p *Puzzle) Box(pos Position) *Box {
	if !p.InBounds(pos) {
		return nil
	}
	return &p.boxes[pos.Row][pos.Col]
}

// Boxes returns the grid, indexed [row][col]. The slices are shared with
// the puzzle so cells can be updated in place.
func (p *Puzzle) Boxes() [][]Box { return p.boxes }

// IsBlock reports whether pos is off the grid, missing or a block.
func (p *Puzzle) IsBlock(pos Position) bool {
	return IsBlock(p.Box(pos))
}

// HasSolution reports whether any playable cell knows its answer.
func (p *Puzzle) HasSolution() bool {
	return p.anyPlayable(func(b *Box) bool { return b.HasSolution() })
}

// HasInitialValues reports whether any cell is pre-filled.
func (p *Puzzle) HasInitialValues() bool {
	for row := range p.boxes {
		for col := range p.boxes[row] {
			if p.boxes[row][col].HasInitialValue() {
				return true
			}
		}
	}
	return false
}

func (p *Puzzle) anyPlayable(fn func(*Box) bool) bool {
	for row := range p.boxes {
		for col := range p.boxes[row] {
			b := &p.boxes[row][col]
			if !b.IsBlock() && fn(b) {
				return true
			}
		}
	}
	return false
}

// PercentFilled returns the share of playable cells with a response, 0-100.
func (p *Puzzle) PercentFilled() int {
	total, filled := 0, 0
	for row := range p.boxes {
		for col := range p.boxes[row] {
			b := &p.boxes[row][col]
			if b.IsBlock() {
				continue
			}
			total++
			if !b.IsBlank() {
				filled++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return filled * 100 / total
}

// PercentComplete returns the share of solvable cells answered correctly, 0-100.
func (p *Puzzle) PercentComplete() int {
	total, correct := 0, 0
	for row := range p.boxes {
		for col := range p.boxes[row] {
			b := &p.boxes[row][col]
			if b.IsBlock() || !b.HasSolution() {
				continue
			}
			total++
			if b.IsCorrect() {
				correct++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return correct * 100 / total
}

// =============================================================================
// Clues
// =============================================================================

// ClueListNames returns the list names in sorted order.
func (p *Puzzle) ClueListNames() []string {
	return slices.Sorted(maps.Keys(p.lists))
}

// Clues returns the named list, or nil.
func (p *Puzzle) Clues(list string) *ClueList {
	return p.lists[list]
}

// AllClues returns every clue in ClueID order.
func (p *Puzzle) AllClues() []Clue {
	var out []Clue
	for _, name := range p.ClueListNames() {
		out = append(out, p.lists[name].clues...)
	}
	return out
}

// Clue looks up a clue by id.
func (p *Puzzle) Clue(id ClueID) (Clue, bool) {
	l := p.lists[id.List]
	if l == nil {
		return Clue{}, false
	}
	return l.ClueByIndex(id.Index)
}

// HasClue reports whether id names an existing clue.
func (p *Puzzle) HasClue(id ClueID) bool {
	_, ok := p.Clue(id)
	return ok
}

// =============================================================================
// Notes, flags, history
// =============================================================================

// Note returns the note attached to a clue.
func (p *Puzzle) Note(id ClueID) (Note, bool) {
	n, ok := p.notes[id]
	return n, ok
}

// SetNote attaches a note to a clue. An empty note removes it.
func (p *Puzzle) SetNote(id ClueID, n Note) {
	if n.IsEmpty() {
		delete(p.notes, id)
		return
	}
	if p.notes == nil {
		p.notes = make(map[ClueID]Note)
	}
	p.notes[id] = n
}

// NoteIDs returns the clues that carry notes, in ClueID order.
func (p *Puzzle) NoteIDs() []ClueID {
	ids := slices.Collect(maps.Keys(p.notes))
	slices.SortFunc(ids, ClueID.Compare)
	return ids
}

// FlagClue marks or unmarks a clue.
func (p *Puzzle) FlagClue(id ClueID, flag bool) {
	if !flag {
		delete(p.flagged, id)
		return
	}
	if p.flagged == nil {
		p.flagged = make(map[ClueID]struct{})
	}
	p.flagged[id] = struct{}{}
}

// IsFlagged reports whether a clue is flagged.
func (p *Puzzle) IsFlagged(id ClueID) bool {
	_, ok := p.flagged[id]
	return ok
}

// FlaggedClues returns the flagged clues in ClueID order.
func (p *Puzzle) FlaggedClues() []ClueID {
	ids := slices.Collect(maps.Keys(p.flagged))
	slices.SortFunc(ids, ClueID.Compare)
	return ids
}

// UpdateHistory moves id to the front of the clue history.
func (p *Puzzle) UpdateHistory(id ClueID) {
	if i := slices.Index(p.history, id); i >= 0 {
		p.history = slices.Delete(p.history, i, i+1)
	}
	p.history = slices.Insert(p.history, 0, id)
}

// History returns the clue history, most recent first.
func (p *Puzzle) History() []ClueID { return slices.Clone(p.history) }

// SetHistory replaces the clue history.
func (p *Puzzle) SetHistory(ids []ClueID) { p.history = slices.Clone(ids) }

// ResetPlayState discards user progress: responses fall back to initial
// values, and notes, flags, history, position and time are cleared.
func (p *Puzzle) ResetPlayState() {
	for row := range p.boxes {
		for col := range p.boxes[row] {
			b := &p.boxes[row][col]
			if b.IsMissing() {
				continue
			}
			b.Response = Blank
			if b.HasInitialValue() {
				b.Response = b.InitialValue
			}
			b.Cheated = false
			b.Responder = ""
		}
	}
	p.notes = nil
	p.flagged = nil
	p.history = nil
	p.PlayerNote = Note{}
	p.Position = nil
	p.CurrentClue = nil
	p.Time = 0
}

// =============================================================================
// Equality and copying
// =============================================================================

// Equal compares metadata, grid, clues and play state.
func (p *Puzzle) Equal(other *Puzzle) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.Title != other.Title ||
		p.Author != other.Author ||
		p.Copyright != other.Copyright ||
		p.Notes != other.Notes ||
		p.IntroMessage != other.IntroMessage ||
		p.CompletionMessage != other.CompletionMessage ||
		p.Source != other.Source ||
		p.SourceURL != other.SourceURL ||
		p.SupportURL != other.SupportURL ||
		p.ShareURL != other.ShareURL ||
		!sameDay(p.Date, other.Date) ||
		p.Kind != other.Kind ||
		p.Time != other.Time ||
		p.PlayerNote != other.PlayerNote {
		return false
	}
	if !equalPtr(p.Position, other.Position) ||
		!equalPtr(p.CurrentClue, other.CurrentClue) ||
		!equalPtr(p.PinnedClue, other.PinnedClue) {
		return false
	}
	if !slices.Equal(p.Images, other.Images) ||
		!slices.Equal(p.history, other.history) ||
		!maps.Equal(p.notes, other.notes) ||
		!maps.Equal(p.flagged, other.flagged) {
		return false
	}
	if p.Width() != other.Width() || p.Height() != other.Height() {
		return false
	}
	for row := range p.boxes {
		for col := range p.boxes[row] {
			if !p.boxes[row][col].Equal(&other.boxes[row][col]) {
				return false
			}
		}
	}
	return maps.EqualFunc(p.lists, other.lists, (*ClueList).Equal)
}

// Hash returns a structural hash of the grid and clues, built on
// [Box.Hash]. Metadata and play state outside the grid are not included.
func (p *Puzzle) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	put(uint64(p.Width()))
	put(uint64(p.Height()))
	for row := range p.boxes {
		for col := range p.boxes[row] {
			put(p.boxes[row][col].Hash())
		}
	}
	for _, c := range p.AllClues() {
		_, _ = d.WriteString(c.ID.List)
		put(uint64(c.ID.Index))
		_, _ = d.WriteString(c.Number + "\x00" + c.Label + "\x00" + c.Hint)
		for _, pos := range c.Zone {
			put(uint64(pos.Row)<<32 | uint64(uint32(pos.Col)))
		}
	}
	return d.Sum64()
}

// Clone returns a deep copy.
func (p *Puzzle) Clone() *Puzzle {
	out := *p
	out.Position = clonePtr(p.Position)
	out.CurrentClue = clonePtr(p.CurrentClue)
	out.PinnedClue = clonePtr(p.PinnedClue)
	out.Images = slices.Clone(p.Images)
	out.boxes = make([][]Box, len(p.boxes))
	for row := range p.boxes {
		out.boxes[row] = make([]Box, len(p.boxes[row]))
		for col := range p.boxes[row] {
			out.boxes[row][col] = p.boxes[row][col].clone()
		}
	}
	out.lists = make(map[string]*ClueList, len(p.lists))
	for name, l := range p.lists {
		out.lists[name] = l.clone()
	}
	out.notes = maps.Clone(p.notes)
	out.flagged = maps.Clone(p.flagged)
	out.history = slices.Clone(p.history)
	return &out
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return a.IsZero() == b.IsZero()
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
