package puz

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// NoIndex is returned by lookups that find no clue. It is never a valid index.
const NoIndex = -1

// ClueID identifies a clue by list name and its ordinal within that list.
//
// It is the identity used for serialization and cross references because
// printed clue numbers are neither unique nor always present.
type ClueID struct {
	List  string `json:"listname"`
	Index int    `json:"index"`
}

// Compare orders ids by list name, then index.
func (id ClueID) Compare(other ClueID) int {
	if c := strings.Compare(id.List, other.List); c != 0 {
		return c
	}
	return cmp.Compare(id.Index, other.Index)
}

// String returns "List[index]".
func (id ClueID) String() string {
	return fmt.Sprintf("%s[%d]", id.List, id.Index)
}

// Clue is a single hint together with the cells its answer occupies.
type Clue struct {
	ID     ClueID
	Number string // printed number, empty when unnumbered
	Label  string // display label, overrides Number (acrostic letters)
	Hint   string
	Zone   Zone
}

// HasNumber reports whether the clue carries a printed number.
func (c Clue) HasNumber() bool { return c.Number != "" }

// HasLabel reports whether the clue carries a display label.
func (c Clue) HasLabel() bool { return c.Label != "" }

// HasZone reports whether the clue is attached to any cells.
func (c Clue) HasZone() bool { return len(c.Zone) > 0 }

// DisplayNumber returns the label if present, else the number.
func (c Clue) DisplayNumber() string {
	if c.HasLabel() {
		return c.Label
	}
	return c.Number
}

// Equal compares every field, including zone order.
func (c Clue) Equal(other Clue) bool {
	return c.ID == other.ID &&
		c.Number == other.Number &&
		c.Label == other.Label &&
		c.Hint == other.Hint &&
		c.Zone.Equal(other.Zone)
}

// ClueList is the ordered set of clues sharing one list name.
type ClueList struct {
	name     string
	clues    []Clue // ordered by index
	byIndex  map[int]int
	byNumber map[string]int
}

func newClueList(name string) *ClueList {
	return &ClueList{
		name:     name,
		byIndex:  make(map[int]int),
		byNumber: make(map[string]int),
	}
}

// add inserts c keeping index order. When two clues share a number the
// first one added is found by number.
func (l *ClueList) add(c Clue) {
	at, _ := slices.BinarySearchFunc(l.clues, c.ID.Index, func(e Clue, idx int) int {
		return cmp.Compare(e.ID.Index, idx)
	})
	l.clues = slices.Insert(l.clues, at, c)
	l.reindex()
}

func (l *ClueList) reindex() {
	clear(l.byIndex)
	clear(l.byNumber)
	for i, c := range l.clues {
		l.byIndex[c.ID.Index] = i
		if c.Number == "" {
			continue
		}
		if _, dup := l.byNumber[c.Number]; !dup {
			l.byNumber[c.Number] = i
		}
	}
}

// Name returns the list name.
func (l *ClueList) Name() string { return l.name }

// Len returns the number of clues.
func (l *ClueList) Len() int { return len(l.clues) }

// Clues returns the clues in index order.
func (l *ClueList) Clues() []Clue {
	return slices.Clone(l.clues)
}

// ClueByIndex returns the clue with the given index.
func (l *ClueList) ClueByIndex(index int) (Clue, bool) {
	i, ok := l.byIndex[index]
	if !ok {
		return Clue{}, false
	}
	return l.clues[i], true
}

// ClueByNumber returns the first clue printed with number.
func (l *ClueList) ClueByNumber(number string) (Clue, bool) {
	i, ok := l.byNumber[number]
	if !ok {
		return Clue{}, false
	}
	return l.clues[i], true
}

// ClueIndex returns the index of the clue printed with number, or [NoIndex].
func (l *ClueList) ClueIndex(number string) int {
	c, ok := l.ClueByNumber(number)
	if !ok {
		return NoIndex
	}
	return c.ID.Index
}

// Equal compares names and every clue.
func (l *ClueList) Equal(other *ClueList) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.name == other.name && slices.EqualFunc(l.clues, other.clues, Clue.Equal)
}

func (l *ClueList) clone() *ClueList {
	out := newClueList(l.name)
	out.clues = make([]Clue, len(l.clues))
	for i, c := range l.clues {
		c.Zone = c.Zone.Clone()
		out.clues[i] = c
	}
	out.reindex()
	return out
}
