package ipuz

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/crosswire/pkg/codec"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz"
	"github.com/matzehuels/crosswire/pkg/puz/puztest"
)

func fullPuzzle(t *testing.T) *puz.Puzzle {
	t.Helper()
	p := puztest.Play(t, puztest.Style(t, puztest.Crossword(t)))
	p.SupportURL = "https://example.com/support"
	p.ShareURL = "https://example.com/share"
	p.PinnedClue = &puz.ClueID{List: "Down", Index: 0}
	p.Images = []puz.PuzImage{{URL: "data:image/png;base64,AA==", Row: 1, Col: 1, Width: 1, Height: 1}}
	return p
}

// spacedNotes carries runs of spaces, which the writer turns into &nbsp;.
func spacedNotes(t *testing.T) *puz.Puzzle {
	t.Helper()
	p := fullPuzzle(t)
	p.PlayerNote = puz.Note{Text: "two  spaces", Scratch: "   lead"}
	p.SetNote(puz.ClueID{List: "Across", Index: 1}, puz.Note{Text: "end  ", AnagramSource: "A  B"})
	return p
}

func write(t *testing.T, p *puz.Puzzle, opts codec.Options) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := (Codec{}).Write(&buf, p, opts); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	return buf.Bytes()
}

func parse(t *testing.T, src string) *puz.Puzzle {
	t.Helper()
	p, err := Codec{}.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return p
}

// ipuzDoc builds a 3x2 crossword numbered
//
//	1 2 .
//	3 . .
//
// with extra top-level fields appended. Later fields replace earlier ones.
func ipuzDoc(fields ...string) string {
	base := []string{
		`"version": "http://ipuz.org/v2"`,
		`"kind": ["http://ipuz.org/crossword#1"]`,
		`"dimensions": {"width": 3, "height": 2}`,
		`"puzzle": [[1, 2, 0], [3, 0, 0]]`,
	}
	return "{" + strings.Join(append(base, fields...), ",\n") + "}"
}

func ext(name string) string {
	return strconv.Quote(Namespace + ":" + name)
}

const directionClues = `"clues": {
	"Across": [[1, "top"], [3, "bottom"]],
	"Down": [[1, "left"], [2, "middle"]]
}`

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		make func(t *testing.T) *puz.Puzzle
		omit bool
	}{
		{"plain", func(t *testing.T) *puz.Puzzle { return puztest.Crossword(t) }, false},
		{"styled", func(t *testing.T) *puz.Puzzle { return puztest.Style(t, puztest.Crossword(t)) }, false},
		{"full", fullPuzzle, false},
		{"omit play state", fullPuzzle, true},
		{"spaced notes", spacedNotes, false},
		{"current clue without position", func(t *testing.T) *puz.Puzzle {
			p := fullPuzzle(t)
			p.Position = nil
			return p
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.make(t)
			data := write(t, p, codec.Options{OmitPlayState: tt.omit})
			got, err := Codec{}.Parse(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Parse() error: %v\n%s", err, data)
			}
			want := p
			if tt.omit {
				want = p.Clone()
				want.ResetPlayState()
			}
			if d := puztest.Diff(want, got); d != "" {
				t.Errorf("round trip mismatch: %s\n%s", d, data)
			}
		})
	}
}

func TestOmitPlayStateFields(t *testing.T) {
	data := write(t, fullPuzzle(t), codec.Options{OmitPlayState: true})
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("written document is not JSON: %v", err)
	}
	for _, key := range []string{"saved", Namespace + ":playdata"} {
		if _, ok := doc[key]; ok {
			t.Errorf("OmitPlayState wrote %q", key)
		}
	}
	for _, key := range []string{"solution", "clues", Namespace + ":supporturl", Namespace + ":images", Namespace + ":pinnedClueID"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("OmitPlayState dropped %q", key)
		}
	}
	if got := doc[Namespace+":ioversion"]; got != float64(IOVersion) {
		t.Errorf("ioversion = %v, want %d", got, IOVersion)
	}
}

func TestWriteKeepsMarkupCharacters(t *testing.T) {
	data := write(t, puztest.Crossword(t), codec.Options{})
	if !bytes.Contains(data, []byte(`"title": "Sample & Co"`)) {
		t.Errorf("title not written verbatim:\n%s", data)
	}
	if !bytes.Contains(data, []byte(`"date": "03/09/2024"`)) {
		t.Errorf("date not written as MM/dd/yyyy:\n%s", data)
	}
}

func TestBlockCollapse(t *testing.T) {
	p := puztest.Crossword(t)
	centre := puz.Position{Row: 1, Col: 1}
	*p.Box(centre) = puz.NewBlock()

	got := parse(t, string(write(t, p, codec.Options{})))
	if box := got.Box(centre); !box.IsMissing() {
		t.Errorf("undecorated block read back as %s, want missing", box.Kind)
	}

	p.Box(centre).Shape = puz.ShapeStar
	got = parse(t, string(write(t, p, codec.Options{})))
	if box := got.Box(centre); box.Kind != puz.CellBlock || box.Shape != puz.ShapeStar {
		t.Errorf("decorated block read back as %s/%s, want block/star", box.Kind, box.Shape)
	}
}

func TestCellsAndStyles(t *testing.T) {
	p := parse(t, ipuzDoc(
		`"styles": {"circled": {"shapebg": "Circle"}}`,
		`"puzzle": [
			[{"cell": 1, "style": "circled"}, {"cell": 2, "style": {"highlight": true, "colortext": "3", "dashed": "tl", "barred": "T"}}, {"cell": "#", "style": {"color": "red"}}],
			[{"cell": "#"}, {"cell": 3, "value": "Q"}, {"style": {"label": "Z", "mark": {"TL": "a", "C": "b"}}}]
		]`,
	))

	tests := []struct {
		name string
		pos  puz.Position
		ok   func(b *puz.Box) bool
	}{
		{"named style", puz.Position{Row: 0, Col: 0}, func(b *puz.Box) bool {
			return b.Shape == puz.ShapeCircle && b.ClueNumber == "1"
		}},
		{"highlight and bars", puz.Position{Row: 0, Col: 1}, func(b *puz.Box) bool {
			return b.Color == puz.RGB(highlightColor) && b.TextColor == puz.RGB(palette[3]) &&
				b.BarTop == puz.BarSolid && b.BarLeft == puz.BarDashed && b.BarRight == puz.BarNone
		}},
		{"styled block", puz.Position{Row: 0, Col: 2}, func(b *puz.Box) bool {
			return b.Kind == puz.CellBlock && b.Color == puz.RGB(0xff0000)
		}},
		{"bare block object", puz.Position{Row: 1, Col: 0}, func(b *puz.Box) bool {
			return b.IsMissing()
		}},
		{"value", puz.Position{Row: 1, Col: 1}, func(b *puz.Box) bool {
			return b.Kind == puz.CellPlayable && b.InitialValue == "Q" && b.Response == "Q" && b.ClueNumber == "3"
		}},
		{"label and marks", puz.Position{Row: 1, Col: 2}, func(b *puz.Box) bool {
			tl, _ := b.Mark(0, 0)
			c, _ := b.Mark(1, 1)
			return b.Kind == puz.CellPlayable && b.InitialValue == "Z" && tl == "a" && c == "b"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if b := p.Box(tt.pos); !tt.ok(b) {
				t.Errorf("box %v = %+v", tt.pos, *b)
			}
		})
	}
}

func TestOverlays(t *testing.T) {
	p := parse(t, ipuzDoc(
		`"puzzle": [[1, 2, "#"], [3, 0, 0]]`,
		`"saved": [[["A"], {"value": ""}, "Z"], [null, 0, "#"]]`,
		`"solution": [["A", "B", null], [{"value": "C"}, "D", "E"]]`,
	))
	tests := []struct {
		pos      puz.Position
		kind     puz.CellKind
		response string
		solution string
	}{
		{puz.Position{Row: 0, Col: 0}, puz.CellPlayable, "A", "A"},
		{puz.Position{Row: 0, Col: 1}, puz.CellPlayable, puz.Blank, "B"},
		{puz.Position{Row: 0, Col: 2}, puz.CellBlock, "Z", ""},
		{puz.Position{Row: 1, Col: 0}, puz.CellPlayable, puz.Blank, "C"},
		{puz.Position{Row: 1, Col: 2}, puz.CellPlayable, puz.Blank, "E"},
	}
	for _, tt := range tests {
		b := p.Box(tt.pos)
		if b.Kind != tt.kind || b.Response != tt.response || b.Solution != tt.solution {
			t.Errorf("box %v = %s %q/%q, want %s %q/%q", tt.pos, b.Kind, b.Response, b.Solution, tt.kind, tt.response, tt.solution)
		}
	}

	_, err := Codec{}.Parse(strings.NewReader(ipuzDoc(`"saved": [[["A", "B"], 0, 0], [0, 0, 0]]`)))
	if !cwerrors.Is(err, cwerrors.ErrCodeInvalidFormat) {
		t.Errorf("multi-value saved cell error = %v, want INVALID_FORMAT", err)
	}
}

func TestCoordinateBase(t *testing.T) {
	zoneClue := func(cells string) string {
		return `"clues": {"Zones:Z": [{"clue": "z", "cells": ` + cells + `}]}`
	}
	tests := []struct {
		name   string
		fields []string
		want   puz.Zone
	}{
		{
			"no version, in range",
			[]string{zoneClue(`[[0, 0], [1, 0], [2, 0]]`)},
			puz.Zone{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}},
		},
		{
			"no version, column equals width",
			[]string{zoneClue(`[[1, 1], [2, 1], [3, 1]]`)},
			puz.Zone{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}},
		},
		{
			"no version, row equals height",
			[]string{zoneClue(`[[1, 2]]`)},
			puz.Zone{{Row: 1, Col: 0}},
		},
		{
			"no version, one-based cells that fit read zero-based",
			[]string{zoneClue(`[[1, 1], [2, 1]]`)},
			puz.Zone{{Row: 1, Col: 1}, {Row: 1, Col: 2}},
		},
		{
			"io version 2",
			[]string{ext("ioversion") + `: 2`, zoneClue(`[[1, 1], [2, 1]]`)},
			puz.Zone{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
		},
		{
			"io version 3",
			[]string{ext("ioversion") + `: 3`, zoneClue(`[[1, 1], [2, 1]]`)},
			puz.Zone{{Row: 1, Col: 1}, {Row: 1, Col: 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, ipuzDoc(tt.fields...))
			c, ok := p.Clue(puz.ClueID{List: "Z", Index: 0})
			if !ok {
				t.Fatal("clue Z[0] missing")
			}
			if !c.Zone.Equal(tt.want) {
				t.Errorf("zone = %v, want %v", c.Zone, tt.want)
			}
		})
	}
}

func TestClueIDShapes(t *testing.T) {
	want := puz.ClueID{List: "Across", Index: 1}
	tests := []struct {
		name string
		id   string
	}{
		{"index", `{"listname": "Across", "index": 1}`},
		{"list and number", `{"listname": "Across", "number": "3"}`},
		{"list and numeric number", `{"listname": "Across", "number": 3}`},
		{"across flag", `{"number": 3, "across": true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, ipuzDoc(directionClues, ext("pinnedClueID")+": "+tt.id))
			if p.PinnedClue == nil || *p.PinnedClue != want {
				t.Errorf("PinnedClue = %v, want %v", p.PinnedClue, want)
			}
		})
	}
}

func TestClueIDErrors(t *testing.T) {
	tests := []struct {
		name string
		id   string
		code cwerrors.Code
	}{
		{"unknown list", `{"listname": "Nope", "number": 1}`, cwerrors.ErrCodeUnresolvedReference},
		{"unknown number", `{"listname": "Across", "number": 9}`, cwerrors.ErrCodeUnresolvedReference},
		{"unknown shape", `{"clue": 1}`, cwerrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Codec{}.Parse(strings.NewReader(ipuzDoc(directionClues, ext("pinnedClueID")+": "+tt.id)))
			if !cwerrors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestClueTextFlattening(t *testing.T) {
	clue := `{"number": [1, 2], "clue": "Long", "continued": [{"number": 4, "direction": "Down"}, {"number": "5", "direction": "Across"}], "references": [{"number": 7, "direction": "Across"}], "enumeration": "3,4"}`
	tests := []struct {
		name     string
		showEnum string
		want     string
	}{
		{"with enumeration", `"showenumerations": true`, "Long (cont. 4 Down/5 Across) (ref. 7 Across) (clues 1/2) (3,4)"},
		{"without enumeration", `"showenumerations": false`, "Long (cont. 4 Down/5 Across) (ref. 7 Across) (clues 1/2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, ipuzDoc(tt.showEnum, `"clues": {"Clues:Extra": [`+clue+`]}`))
			c, _ := p.Clue(puz.ClueID{List: "Extra", Index: 0})
			if c.Hint != tt.want {
				t.Errorf("Hint = %q, want %q", c.Hint, tt.want)
			}
			if c.Number != "1" {
				t.Errorf("Number = %q, want 1", c.Number)
			}
		})
	}
}

func TestClueShapes(t *testing.T) {
	p := parse(t, ipuzDoc(`"clues": {
		"Across": [{"number": 1, "label": "A", "clue": "labelled"}],
		"Clues:Loose": ["bare hint", [3, "numbered"]]
	}`))

	across, _ := p.Clue(puz.ClueID{List: "Across", Index: 0})
	if across.Label != "A" || across.Hint != "labelled" || len(across.Zone) != 3 {
		t.Errorf("Across[0] = %+v", across)
	}
	bare, _ := p.Clue(puz.ClueID{List: "Loose", Index: 0})
	if bare.Hint != "bare hint" || bare.HasNumber() || bare.HasZone() {
		t.Errorf("Loose[0] = %+v", bare)
	}
	numbered, _ := p.Clue(puz.ClueID{List: "Loose", Index: 1})
	if numbered.Number != "3" || numbered.Hint != "numbered" {
		t.Errorf("Loose[1] = %+v", numbered)
	}
}

func TestClueListKeys(t *testing.T) {
	b, err := puz.NewBuilder(parse(t, ipuzDoc()).Boxes())
	if err != nil {
		t.Fatal(err)
	}
	mustAdd := func(_ puz.ClueID, err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	mustAdd(b.AddAcrossClue("Across", "1", "", "top"))
	mustAdd(b.AddDownClue("Sideways", "1", "", "left"))
	mustAdd(b.AddClue("Zones", "", "", "corner", puz.Zone{{Row: 1, Col: 2}}))
	mustAdd(b.AddClue("Mixed", "", "", "no cells", nil))
	mustAdd(b.AddClue("Mixed", "", "", "cells", puz.Zone{{Row: 0, Col: 2}}))
	p := b.Build()

	lists := clueLists(p)
	for _, key := range []string{"Across", "Down:Sideways", "Zones", "Clues:Mixed"} {
		if _, ok := lists[key]; !ok {
			t.Errorf("clueLists() has no key %q: %v", key, lists)
		}
	}

	got := parse(t, string(write(t, p, codec.Options{})))
	if d := puztest.Diff(p, got); d != "" {
		t.Errorf("round trip mismatch: %s", d)
	}
}

func TestAcrosticBoardClue(t *testing.T) {
	acrostic := func(clues string) string {
		return ipuzDoc(
			`"kind": ["http://ipuz.org/acrostic#1"]`,
			`"dimensions": {"width": 4, "height": 1}`,
			`"puzzle": [[1, 2, 3, 4]]`,
			`"clues": {"Clues": [`+clues+`]}`,
		)
	}
	board := puz.Zone{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}}

	t.Run("synthesized", func(t *testing.T) {
		p := parse(t, acrostic(`{"number": "A", "clue": "x", "cells": [[0, 0], [2, 0]]}, {"number": "B", "clue": "y", "cells": [[1, 0], [3, 0]]}`))
		if p.Kind != puz.KindAcrostic {
			t.Fatalf("Kind = %s, want acrostic", p.Kind)
		}
		quote, ok := p.Clue(puz.ClueID{List: acrosticQuoteList, Index: 0})
		if !ok {
			t.Fatal("no board clue added")
		}
		if !quote.Zone.Equal(board) || quote.Hint != acrosticQuoteList || quote.HasNumber() {
			t.Errorf("board clue = %+v", quote)
		}
	})

	t.Run("already covered", func(t *testing.T) {
		p := parse(t, acrostic(`{"clue": "all", "cells": [[3, 0], [2, 0], [1, 0], [0, 0]]}`))
		if p.Clues(acrosticQuoteList) != nil {
			t.Errorf("board clue added although one covers the grid")
		}
	})
}

func TestParseDate(t *testing.T) {
	march9 := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		s         string
		ioVersion int
		want      time.Time
	}{
		{"current", "03/09/2024", 3, march9},
		{"no version", "03/09/2024", 0, march9},
		{"day first", "09/03/2024", 1, march9},
		{"single digits", "3/9/2024", 3, march9},
		{"single digits day first file", "3/9/2024", 1, march9},
		{"garbage", "yesterday", 3, time.Time{}},
		{"empty", "", 3, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseDate(tt.s, tt.ioVersion); !got.Equal(tt.want) {
				t.Errorf("parseDate(%q, %d) = %v, want %v", tt.s, tt.ioVersion, got, tt.want)
			}
		})
	}
}

func TestParseStyleColor(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
		ok   bool
	}{
		{"0", 0x000000, true},
		{"3", 0xfffaa0, true},
		{"15", 0xebca9a, true},
		{"16", 0, false},
		{"abc", 0x000abc, true},
		{"ff0000", 0xff0000, true},
		{"#00ff00", 0x00ff00, true},
		{"rgb(1, 2, 3)", 0x010203, true},
		{"red", 0xff0000, true},
		{"nonsense", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseStyleColor(tt.in)
		if ok != tt.ok || (ok && got.RGB() != tt.want) {
			t.Errorf("ParseStyleColor(%q) = %v, %v, want %06x, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		in   string
		want puz.Shape
		ok   bool
	}{
		{"circle", puz.ShapeCircle, true},
		{"Arrow-Left", puz.ShapeArrowLeft, true},
		{"triangle up", puz.ShapeTriangleUp, true},
		{"ARROW_DOWN", puz.ShapeArrowDown, true},
		{"/", puz.ShapeForwardSlash, true},
		{`\`, puz.ShapeBackSlash, true},
		{"X", puz.ShapeX, true},
		{"hexagon", puz.ShapeNone, false},
	}
	for _, tt := range tests {
		got, ok := ParseShape(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseShape(%q) = %s, %v, want %s, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	for _, s := range puz.Shapes() {
		if got, ok := ParseShape(ShapeName(s)); !ok || got != s {
			t.Errorf("ParseShape(ShapeName(%s)) = %s, %v", s, got, ok)
		}
	}
}

func TestLegacyFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "legacy.ipuz"))
	if err != nil {
		t.Fatal(err)
	}
	p := parse(t, string(data))

	if want := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC); !p.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", p.Date, want)
	}
	extra, _ := p.Clue(puz.ClueID{List: "Extra", Index: 0})
	if want := (puz.Zone{{Row: 0, Col: 0}, {Row: 2, Col: 2}}); !extra.Zone.Equal(want) {
		t.Errorf("Extra zone = %v, want %v", extra.Zone, want)
	}
	if p.Position == nil || *p.Position != (puz.Position{Row: 0, Col: 2}) {
		t.Errorf("Position = %v, want (0, 2)", p.Position)
	}
	down2 := puz.ClueID{List: "Down", Index: 1}
	if p.CurrentClue == nil || *p.CurrentClue != down2 {
		t.Errorf("CurrentClue = %v, want %v", p.CurrentClue, down2)
	}
	if n, _ := p.Note(down2); n.Text != "pull\ntow" {
		t.Errorf("note text = %q, want %q", n.Text, "pull\ntow")
	}
	if !p.IsFlagged(puz.ClueID{List: "Across", Index: 1}) {
		t.Errorf("Across[1] not flagged: %v", p.FlaggedClues())
	}
	if p.Time != 1500*time.Millisecond {
		t.Errorf("Time = %v, want 1.5s", p.Time)
	}
	if b := p.Box(puz.Position{Row: 0, Col: 0}); !b.Cheated || b.Response != "C" {
		t.Errorf("box (0, 0) = %+v", *b)
	}
	if b := p.Box(puz.Position{Row: 2, Col: 2}); b.Responder != "kim" || b.Response != "W" {
		t.Errorf("box (2, 2) = %+v", *b)
	}
	if !p.Box(puz.Position{Row: 1, Col: 1}).IsMissing() {
		t.Errorf("centre should be missing")
	}
}

func TestLenientFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "lenient.ipuz"))
	if err != nil {
		t.Fatal(err)
	}
	p := parse(t, string(data))
	c, ok := p.Clue(puz.ClueID{List: "Across", Index: 0})
	if !ok || c.Hint != "Pair" || len(c.Zone) != 2 {
		t.Errorf("Across[0] = %+v, %v", c, ok)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code cwerrors.Code
	}{
		{"not json", "ipuz", cwerrors.ErrCodeInvalidFormat},
		{"array", "[]", cwerrors.ErrCodeInvalidFormat},
		{"no version", `{"kind": ["http://ipuz.org/crossword#1"]}`, cwerrors.ErrCodeInvalidFormat},
		{"future version", ipuzDoc(`"version": "http://ipuz.org/v9"`), cwerrors.ErrCodeUnsupportedVersion},
		{"sudoku", ipuzDoc(`"kind": ["http://ipuz.org/sudoku#1"]`), cwerrors.ErrCodeUnsupported},
		{"no dimensions", ipuzDoc(`"dimensions": null`), cwerrors.ErrCodeInvalidFormat},
		{"oversized grid", ipuzDoc(`"dimensions": {"width": 5000, "height": 3}`), cwerrors.ErrCodeInvalidFormat},
		{"short rows", ipuzDoc(`"puzzle": [[1, 2, 0]]`), cwerrors.ErrCodeInvalidFormat},
		{"short columns", ipuzDoc(`"puzzle": [[1, 2], [3, 0]]`), cwerrors.ErrCodeInvalidFormat},
		{"bad clue array", ipuzDoc(`"clues": {"Across": [[1, "a", "b"]]}`), cwerrors.ErrCodeInvalidFormat},
		{"across without number", ipuzDoc(`"clues": {"Across": ["no number"]}`), cwerrors.ErrCodeUnresolvedReference},
		{"zone off grid", ipuzDoc(ext("ioversion")+`: 3`, `"clues": {"Zones:Z": [{"clue": "z", "cells": [[5, 5]]}]}`), cwerrors.ErrCodeStructural},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Codec{}.Parse(strings.NewReader(tt.src))
			if p != nil {
				t.Errorf("Parse() returned a puzzle with error %v", err)
			}
			if !cwerrors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want %s", err, tt.code)
			}
			var fe *codec.FormatError
			if err != nil && !asFormatError(err, &fe) {
				t.Errorf("Parse() error %T is not a FormatError", err)
			}
		})
	}
}

func TestParseOversizedGrid(t *testing.T) {
	src := ipuzDoc(`"dimensions": {"width": ` + strconv.Itoa(cwerrors.MaxGridSize+1) + `, "height": 3}`)
	_, err := Codec{}.Parse(strings.NewReader(src))
	if err == nil || !strings.Contains(err.Error(), "exceed") {
		t.Errorf("Parse() error = %v, want the grid size limit", err)
	}
}

func asFormatError(err error, target **codec.FormatError) bool {
	fe, ok := err.(*codec.FormatError)
	if ok {
		*target = fe
	}
	return ok && fe.Format == codec.FormatIPuz
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		head string
		want bool
	}{
		{"ipuz", `{"version": "http://ipuz.org/v2"}`, true},
		{"bom and space", "\xef\xbb\xbf\n  {\"version\": \"http://ipuz.org/v1\"", true},
		{"other json", `{"title": "x"}`, false},
		{"xml", `<?xml version="1.0"?><crossword-compiler/>`, false},
	}
	for _, tt := range tests {
		if got := (Codec{}).Detect([]byte(tt.head)); got != tt.want {
			t.Errorf("Detect(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
