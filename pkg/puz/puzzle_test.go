package puz

import (
	"slices"
	"testing"
	"time"
)

func buildSample(t *testing.T) *Puzzle {
	t.Helper()
	b := mustBuilder(t,
		"1BC",
		"2#F",
	)
	if _, err := b.AddAcrossClue("Across", "1", "", "Top row"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddDownClue("Down", "1", "", "Left column"); err != nil {
		t.Fatal(err)
	}
	p := b.Build()
	p.Title = "Sample"
	p.Date = time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	return p
}

func TestPuzzleDimensions(t *testing.T) {
	p := buildSample(t)
	if p.Width() != 3 || p.Height() != 2 {
		t.Errorf("size = %dx%d, want 3x2", p.Width(), p.Height())
	}
	if p.Box(Position{2, 0}) != nil {
		t.Error("Box() off grid should be nil")
	}
	if !p.IsBlock(Position{1, 1}) || !p.IsBlock(Position{-1, 0}) {
		t.Error("IsBlock() wrong for block or off-grid position")
	}
	if !slices.Equal(p.ClueListNames(), []string{"Across", "Down"}) {
		t.Errorf("ClueListNames() = %v", p.ClueListNames())
	}
}

func TestPuzzlePercentages(t *testing.T) {
	p := buildSample(t)
	if got := p.PercentFilled(); got != 0 {
		t.Errorf("PercentFilled() = %d, want 0", got)
	}

	p.Box(Position{0, 1}).Response = "B"
	p.Box(Position{0, 2}).Response = "X"

	// 5 playable cells, 2 filled; 3 solvable cells (B, C, F), 1 correct.
	if got := p.PercentFilled(); got != 40 {
		t.Errorf("PercentFilled() = %d, want 40", got)
	}
	if got := p.PercentComplete(); got != 33 {
		t.Errorf("PercentComplete() = %d, want 33", got)
	}
}

func TestPuzzleHistoryMovesToFront(t *testing.T) {
	p := buildSample(t)
	a, d := ClueID{"Across", 0}, ClueID{"Down", 0}

	p.UpdateHistory(a)
	p.UpdateHistory(d)
	p.UpdateHistory(a)

	want := []ClueID{a, d}
	if got := p.History(); !slices.Equal(got, want) {
		t.Errorf("History() = %v, want %v", got, want)
	}
}

func TestPuzzleNotesAndFlags(t *testing.T) {
	p := buildSample(t)
	id := ClueID{"Down", 0}

	p.SetNote(id, Note{Text: "check"})
	if n, ok := p.Note(id); !ok || n.Text != "check" {
		t.Errorf("Note() = %+v, %v", n, ok)
	}
	p.SetNote(id, Note{})
	if _, ok := p.Note(id); ok {
		t.Error("empty note should remove the entry")
	}

	p.FlagClue(id, true)
	p.FlagClue(ClueID{"Across", 0}, true)
	if got := p.FlaggedClues(); len(got) != 2 || got[0].List != "Across" {
		t.Errorf("FlaggedClues() = %v", got)
	}
	p.FlagClue(id, false)
	if p.IsFlagged(id) {
		t.Error("unflagged clue still flagged")
	}
}

func TestPuzzleResetPlayState(t *testing.T) {
	p := buildSample(t)
	first := p.Box(Position{0, 0})
	first.InitialValue = "A"
	first.Response = "Q"
	first.Cheated = true
	p.Box(Position{0, 2}).Response = "C"
	p.Box(Position{0, 2}).Responder = "sam"
	p.Time = time.Minute
	p.Position = &Position{0, 2}
	p.FlagClue(ClueID{"Across", 0}, true)
	p.UpdateHistory(ClueID{"Across", 0})

	p.ResetPlayState()

	if first.Response != "A" || first.Cheated {
		t.Errorf("prefilled cell = %+v, want response A, not cheated", *first)
	}
	if b := p.Box(Position{0, 2}); !b.IsBlank() || b.HasResponder() {
		t.Errorf("cell (0,2) = %+v, want blank", *b)
	}
	if p.Time != 0 || p.Position != nil || len(p.FlaggedClues()) != 0 || len(p.History()) != 0 {
		t.Error("play state not cleared")
	}
}

func TestPuzzleCloneEqual(t *testing.T) {
	p := buildSample(t)
	p.SetNote(ClueID{"Across", 0}, Note{Scratch: "ab"})
	p.CurrentClue = &ClueID{"Across", 0}

	c := p.Clone()
	if !p.Equal(c) {
		t.Fatal("clone should equal original")
	}
	if p.Hash() != c.Hash() {
		t.Error("clone hash differs")
	}

	c.CurrentClue.Index = 9
	if p.CurrentClue.Index != 0 {
		t.Error("clone shares CurrentClue")
	}
	c.CurrentClue.Index = 0

	c.Box(Position{0, 0}).Response = "Z"
	if p.Box(Position{0, 0}).Response == "Z" {
		t.Error("clone shares grid")
	}
	if p.Equal(c) {
		t.Error("differing responses compared equal")
	}
}

func TestPuzzleEqualComparesDayOnly(t *testing.T) {
	p := buildSample(t)
	c := p.Clone()
	c.Date = p.Date.Add(5 * time.Hour)
	if !p.Equal(c) {
		t.Error("same calendar day should compare equal")
	}
	c.Date = time.Time{}
	if p.Equal(c) {
		t.Error("zero date should differ from a set date")
	}
}

func TestPuzzleEqualMarksVsHash(t *testing.T) {
	p := buildSample(t)
	c := p.Clone()
	_ = c.Box(Position{0, 0}).SetMark(0, 0, "1")
	if p.Equal(c) {
		t.Error("marks difference should make puzzles unequal")
	}
	if p.Hash() != c.Hash() {
		t.Error("marks should not affect the hash")
	}
}
