// Package puztest provides sample puzzles and comparison helpers for codec
// tests.
package puztest

import (
	"fmt"
	"testing"
	"time"

	"github.com/matzehuels/crosswire/pkg/puz"
)

// Crossword returns a 3x3 authored crossword with no play state:
//
//	C A T
//	A # O
//	B O W
//
// Across 1 CAT, 3 BOW; Down 1 CAB, 2 TOW. The centre cell is missing.
func Crossword(tb testing.TB) *puz.Puzzle {
	tb.Helper()
	solution := []string{"CAT", "A#O", "BOW"}
	numbers := map[puz.Position]string{{Row: 0, Col: 0}: "1", {Row: 0, Col: 2}: "2", {Row: 2, Col: 0}: "3"}

	grid := make([][]puz.Box, len(solution))
	for row, line := range solution {
		grid[row] = make([]puz.Box, len(line))
		for col, ch := range line {
			if ch == '#' {
				continue
			}
			b := puz.NewCell()
			b.Solution = string(ch)
			b.ClueNumber = numbers[puz.Position{Row: row, Col: col}]
			grid[row][col] = b
		}
	}

	b, err := puz.NewBuilder(grid)
	if err != nil {
		tb.Fatalf("NewBuilder() error: %v", err)
	}
	add := func(_ puz.ClueID, err error) {
		tb.Helper()
		if err != nil {
			tb.Fatalf("add clue: %v", err)
		}
	}
	add(b.AddAcrossClue("Across", "1", "", "Pet that purrs"))
	add(b.AddAcrossClue("Across", "3", "", "Bend at the waist"))
	add(b.AddDownClue("Down", "1", "", "Yellow ride"))
	add(b.AddDownClue("Down", "2", "", "Pull behind"))

	p := b.Build()
	p.Title = "Sample & Co"
	p.Author = "A. Setter"
	p.Copyright = "2024 Setter"
	p.Notes = "Warm-up puzzle"
	p.IntroMessage = "Have fun"
	p.CompletionMessage = "Well done"
	p.Source = "Daily Grid"
	p.SourceURL = "https://example.com/daily/42"
	p.Date = time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	return p
}

// Style decorates p the way styled grids do: a circled cell, a barred edge,
// colors, a decorated block in the centre and a mark grid.
func Style(tb testing.TB, p *puz.Puzzle) *puz.Puzzle {
	tb.Helper()
	p.Box(puz.Position{Row: 0, Col: 0}).Shape = puz.ShapeCircle
	p.Box(puz.Position{Row: 0, Col: 1}).Color = puz.RGB(0xdcdcdc)
	p.Box(puz.Position{Row: 2, Col: 1}).BarBottom = puz.BarSolid
	p.Box(puz.Position{Row: 2, Col: 2}).BarRight = puz.BarDashed

	block := p.Box(puz.Position{Row: 1, Col: 1})
	*block = puz.NewBlock()
	block.Color = puz.RGB(0x123456)

	if err := p.Box(puz.Position{Row: 2, Col: 2}).SetMarks([][]string{
		{"a", "", ""},
		{"", "", ""},
		{"", "", "z"},
	}); err != nil {
		tb.Fatalf("SetMarks() error: %v", err)
	}
	return p
}

// Play adds user progress to p.
func Play(tb testing.TB, p *puz.Puzzle) *puz.Puzzle {
	tb.Helper()
	p.Box(puz.Position{Row: 0, Col: 0}).Response = "C"
	p.Box(puz.Position{Row: 0, Col: 1}).Response = "A"
	p.Box(puz.Position{Row: 0, Col: 1}).Cheated = true
	p.Box(puz.Position{Row: 2, Col: 2}).Response = "X"
	p.Box(puz.Position{Row: 2, Col: 2}).Responder = "sam"
	p.Time = 95 * time.Second
	p.Position = &puz.Position{Row: 2, Col: 0}
	p.CurrentClue = &puz.ClueID{List: "Across", Index: 1}
	p.SetNote(puz.ClueID{List: "Down", Index: 1}, puz.Note{Text: "check\nthis", Scratch: "T_W"})
	p.PlayerNote = puz.Note{Text: "stuck on 2d"}
	p.FlagClue(puz.ClueID{List: "Across", Index: 0}, true)
	p.UpdateHistory(puz.ClueID{List: "Down", Index: 0})
	p.UpdateHistory(puz.ClueID{List: "Across", Index: 1})
	return p
}

// Diff describes the first difference between want and got, or returns ""
// when they are equal.
func Diff(want, got *puz.Puzzle) string {
	if want.Equal(got) {
		return ""
	}
	if got == nil || want == nil {
		return fmt.Sprintf("want %v, got %v", want, got)
	}
	meta := []struct {
		name      string
		want, got any
	}{
		{"Title", want.Title, got.Title},
		{"Author", want.Author, got.Author},
		{"Copyright", want.Copyright, got.Copyright},
		{"Notes", want.Notes, got.Notes},
		{"IntroMessage", want.IntroMessage, got.IntroMessage},
		{"CompletionMessage", want.CompletionMessage, got.CompletionMessage},
		{"Source", want.Source, got.Source},
		{"SourceURL", want.SourceURL, got.SourceURL},
		{"SupportURL", want.SupportURL, got.SupportURL},
		{"ShareURL", want.ShareURL, got.ShareURL},
		{"Date", want.Date.Format(time.DateOnly), got.Date.Format(time.DateOnly)},
		{"Kind", want.Kind, got.Kind},
		{"Time", want.Time, got.Time},
		{"PlayerNote", want.PlayerNote, got.PlayerNote},
		{"Position", deref(want.Position), deref(got.Position)},
		{"CurrentClue", deref(want.CurrentClue), deref(got.CurrentClue)},
		{"PinnedClue", deref(want.PinnedClue), deref(got.PinnedClue)},
		{"Images", fmt.Sprint(want.Images), fmt.Sprint(got.Images)},
		{"History", fmt.Sprint(want.History()), fmt.Sprint(got.History())},
		{"Flagged", fmt.Sprint(want.FlaggedClues()), fmt.Sprint(got.FlaggedClues())},
		{"NoteIDs", fmt.Sprint(want.NoteIDs()), fmt.Sprint(got.NoteIDs())},
		{"Width", want.Width(), got.Width()},
		{"Height", want.Height(), got.Height()},
		{"Lists", fmt.Sprint(want.ClueListNames()), fmt.Sprint(got.ClueListNames())},
	}
	for _, m := range meta {
		if m.want != m.got {
			return fmt.Sprintf("%s: want %v, got %v", m.name, m.want, m.got)
		}
	}
	for _, id := range want.NoteIDs() {
		wn, _ := want.Note(id)
		gn, _ := got.Note(id)
		if wn != gn {
			return fmt.Sprintf("note %v: want %+v, got %+v", id, wn, gn)
		}
	}
	for row := range want.Height() {
		for col := range want.Width() {
			pos := puz.Position{Row: row, Col: col}
			wb, gb := want.Box(pos), got.Box(pos)
			if !wb.Equal(gb) {
				return fmt.Sprintf("box %v: want %s, got %s", pos, describe(wb), describe(gb))
			}
		}
	}
	for _, name := range want.ClueListNames() {
		wl, gl := want.Clues(name), got.Clues(name)
		if wl.Len() != gl.Len() {
			return fmt.Sprintf("list %s: want %d clues, got %d", name, wl.Len(), gl.Len())
		}
		for i, wc := range wl.Clues() {
			if gc := gl.Clues()[i]; !wc.Equal(gc) {
				return fmt.Sprintf("clue %v: want %+v, got %+v", wc.ID, wc, gc)
			}
		}
	}
	return "puzzles differ"
}

func deref[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func describe(b *puz.Box) string {
	return fmt.Sprintf("{%s resp=%q sol=%q init=%q num=%q cheat=%v who=%q shape=%s bars=%s/%s/%s/%s colors=%s/%s/%s marks=%v clues=%v}",
		b.Kind, b.Response, b.Solution, b.InitialValue, b.ClueNumber, b.Cheated, b.Responder,
		b.Shape, b.BarTop, b.BarBottom, b.BarLeft, b.BarRight,
		b.Color, b.TextColor, b.BarColor, b.Marks(), b.Clues())
}
