package native

import (
	"time"

	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz"
)

// document is the puzzle being decoded. Section 1 creates it; later
// sections fill in what they add.
type document struct {
	puzzle *puz.Puzzle
}

// section is one version's slice of the format.
type section struct {
	read  func(*decoder, *document) error
	write func(*encoder, *puz.Puzzle)
}

// sections[i] is introduced by version i+1. Reading or writing version N
// runs sections[:N] in order.
var sections = []section{
	{read: readV1, write: writeV1},
	{read: readV2, write: writeV2},
	{read: readV3, write: writeV3},
}

// LatestVersion is the version Write emits.
const LatestVersion = 3

const dateLayout = "2006-01-02"

// =============================================================================
// Version 1: grid, clues, metadata
// =============================================================================

func writeV1(e *encoder, p *puz.Puzzle) {
	e.uvarint(p.Width())
	e.uvarint(p.Height())
	e.u8(byte(p.Kind))
	e.str(p.Title)
	e.str(p.Author)
	e.str(p.Copyright)
	e.str(p.Notes)
	e.str(p.IntroMessage)
	e.str(p.CompletionMessage)
	e.str(p.Source)
	if p.Date.IsZero() {
		e.str("")
	} else {
		e.str(p.Date.Format(dateLayout))
	}
	e.varint(p.Time.Milliseconds())

	for _, row := range p.Boxes() {
		for i := range row {
			b := &row[i]
			e.u8(byte(b.Kind))
			if b.IsMissing() {
				continue
			}
			e.str(b.Solution)
			e.str(b.Response)
			e.str(b.InitialValue)
			e.str(b.ClueNumber)
			e.flag(b.Cheated)
		}
	}

	names := p.ClueListNames()
	e.uvarint(len(names))
	for _, name := range names {
		clues := p.Clues(name).Clues()
		e.str(name)
		e.uvarint(len(clues))
		for _, c := range clues {
			e.str(c.Number)
			e.str(c.Label)
			e.str(c.Hint)
			e.uvarint(len(c.Zone))
			for _, pos := range c.Zone {
				writePosition(e, pos)
			}
		}
	}
}

func readV1(d *decoder, doc *document) error {
	width := d.uvarint("width", cwerrors.MaxGridSize)
	height := d.uvarint("height", cwerrors.MaxGridSize)
	kind := puz.Kind(d.u8("kind"))
	var meta puz.Puzzle
	meta.Title = d.str("title")
	meta.Author = d.str("author")
	meta.Copyright = d.str("copyright")
	meta.Notes = d.str("notes")
	meta.IntroMessage = d.str("intro message")
	meta.CompletionMessage = d.str("completion message")
	meta.Source = d.str("source")
	date := d.str("date")
	elapsed := d.varint("time")
	if d.err != nil {
		return d.err
	}
	if err := cwerrors.ValidateDimensions(width, height); err != nil {
		return err
	}
	if kind > puz.KindAcrostic {
		return cwerrors.New(cwerrors.ErrCodeInvalidFormat, "unknown puzzle kind %d", kind)
	}
	if date != "" {
		t, err := time.Parse(dateLayout, date)
		if err != nil {
			return cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "bad date %q", date)
		}
		meta.Date = t
	}

	grid := make([][]puz.Box, height)
	for row := range grid {
		grid[row] = make([]puz.Box, width)
		for col := range grid[row] {
			grid[row][col] = readBox(d)
		}
	}
	if d.err != nil {
		return d.err
	}

	b, err := puz.NewBuilder(grid)
	if err != nil {
		return err
	}
	lists := d.uvarint("clue list count", maxCount)
	for range lists {
		name := d.str("clue list name")
		count := d.uvarint("clue count", maxCount)
		for range count {
			number := d.str("clue number")
			label := d.str("clue label")
			hint := d.str("clue hint")
			zone := make(puz.Zone, d.uvarint("zone length", maxCount))
			for i := range zone {
				zone[i] = readPosition(d)
			}
			if d.err != nil {
				return d.err
			}
			if _, err := b.AddClue(name, number, label, hint, zone); err != nil {
				return err
			}
		}
	}
	if d.err != nil {
		return d.err
	}

	p := b.Build()
	p.Kind = kind
	p.Title = meta.Title
	p.Author = meta.Author
	p.Copyright = meta.Copyright
	p.Notes = meta.Notes
	p.IntroMessage = meta.IntroMessage
	p.CompletionMessage = meta.CompletionMessage
	p.Source = meta.Source
	p.Date = meta.Date
	p.Time = time.Duration(elapsed) * time.Millisecond
	doc.puzzle = p
	return nil
}

func readBox(d *decoder) puz.Box {
	kind := puz.CellKind(d.u8("cell kind"))
	if kind > puz.CellPlayable {
		d.fail(cwerrors.ErrCodeInvalidFormat, "unknown cell kind %d", kind)
		return puz.Box{}
	}
	if kind == puz.CellMissing {
		return puz.Box{}
	}
	return puz.Box{
		Kind:         kind,
		Solution:     d.str("solution"),
		Response:     d.str("response"),
		InitialValue: d.str("initial value"),
		ClueNumber:   d.str("clue number"),
		Cheated:      d.flag("cheated"),
	}
}

// =============================================================================
// Version 2: source URL
// =============================================================================

func writeV2(e *encoder, p *puz.Puzzle) {
	e.u8(0) // retired "updatable" flag
	e.cstr(p.SourceURL)
}

func readV2(d *decoder, doc *document) error {
	d.u8("updatable flag")
	url := d.cstr("source url")
	if d.err != nil {
		return d.err
	}
	doc.puzzle.SourceURL = url
	return nil
}

// =============================================================================
// Version 3: styling and play state
// =============================================================================

func writeV3(e *encoder, p *puz.Puzzle) {
	e.str(p.SupportURL)
	e.str(p.ShareURL)

	for _, row := range p.Boxes() {
		for i := range row {
			b := &row[i]
			if b.IsMissing() {
				continue
			}
			e.u8(byte(b.Shape))
			e.u8(byte(b.BarTop))
			e.u8(byte(b.BarBottom))
			e.u8(byte(b.BarLeft))
			e.u8(byte(b.BarRight))
			writeColor(e, b.Color)
			writeColor(e, b.TextColor)
			writeColor(e, b.BarColor)
			e.flag(b.HasMarks())
			for _, markRow := range b.Marks() {
				for _, mark := range markRow {
					e.str(mark)
				}
			}
			e.str(b.Responder)
		}
	}

	ids := p.NoteIDs()
	e.uvarint(len(ids))
	for _, id := range ids {
		n, _ := p.Note(id)
		writeClueID(e, id)
		writeNote(e, n)
	}
	writeNote(e, p.PlayerNote)
	writeClueIDs(e, p.FlaggedClues())
	writeClueIDs(e, p.History())

	e.flag(p.Position != nil)
	if p.Position != nil {
		writePosition(e, *p.Position)
	}
	writeOptionalClueID(e, p.CurrentClue)
	writeOptionalClueID(e, p.PinnedClue)

	e.uvarint(len(p.Images))
	for _, img := range p.Images {
		e.str(img.URL)
		e.uvarint(img.Row)
		e.uvarint(img.Col)
		e.uvarint(img.Width)
		e.uvarint(img.Height)
	}
}

func readV3(d *decoder, doc *document) error {
	p := doc.puzzle
	p.SupportURL = d.str("support url")
	p.ShareURL = d.str("share url")

	for _, row := range p.Boxes() {
		for i := range row {
			b := &row[i]
			if b.IsMissing() {
				continue
			}
			if err := readStyle(d, b); err != nil {
				return err
			}
		}
	}

	noteCount := d.uvarint("note count", maxCount)
	for range noteCount {
		id := readClueID(d)
		n := readNote(d)
		if d.err != nil {
			return d.err
		}
		p.SetNote(id, n)
	}
	p.PlayerNote = readNote(d)
	for _, id := range readClueIDs(d, "flagged clues") {
		p.FlagClue(id, true)
	}
	p.SetHistory(readClueIDs(d, "history"))

	if d.flag("position present") {
		pos := readPosition(d)
		p.Position = &pos
	}
	p.CurrentClue = readOptionalClueID(d)
	p.PinnedClue = readOptionalClueID(d)

	images := d.uvarint("image count", maxCount)
	for range images {
		img := puz.PuzImage{URL: d.str("image url")}
		img.Row = d.uvarint("image row", cwerrors.MaxGridSize)
		img.Col = d.uvarint("image col", cwerrors.MaxGridSize)
		img.Width = d.uvarint("image width", cwerrors.MaxGridSize)
		img.Height = d.uvarint("image height", cwerrors.MaxGridSize)
		p.Images = append(p.Images, img)
	}
	return d.err
}

func readStyle(d *decoder, b *puz.Box) error {
	shape := puz.Shape(d.u8("shape"))
	var bars [4]puz.Bar
	for i := range bars {
		bars[i] = puz.Bar(d.u8("bar"))
	}
	b.Color = readColor(d)
	b.TextColor = readColor(d)
	b.BarColor = readColor(d)
	if d.flag("marks present") {
		marks := make([][]string, 3)
		for row := range marks {
			marks[row] = make([]string, 3)
			for col := range marks[row] {
				marks[row][col] = d.str("mark")
			}
		}
		if err := b.SetMarks(marks); err != nil {
			return err
		}
	}
	b.Responder = d.str("responder")
	if d.err != nil {
		return d.err
	}
	if shape > puz.ShapeX {
		return cwerrors.New(cwerrors.ErrCodeInvalidFormat, "unknown shape %d", shape)
	}
	for _, bar := range bars {
		if bar > puz.BarDotted {
			return cwerrors.New(cwerrors.ErrCodeInvalidFormat, "unknown bar style %d", bar)
		}
	}
	b.Shape = shape
	b.BarTop, b.BarBottom, b.BarLeft, b.BarRight = bars[0], bars[1], bars[2], bars[3]
	return nil
}

// =============================================================================
// Shared records
// =============================================================================

func writePosition(e *encoder, pos puz.Position) {
	e.uvarint(pos.Row)
	e.uvarint(pos.Col)
}

func readPosition(d *decoder) puz.Position {
	row := d.uvarint("row", cwerrors.MaxGridSize)
	col := d.uvarint("col", cwerrors.MaxGridSize)
	return puz.Position{Row: row, Col: col}
}

func writeColor(e *encoder, c puz.Color) {
	e.flag(c.IsSet())
	if c.IsSet() {
		e.uvarint(int(c.RGB()))
	}
}

func readColor(d *decoder) puz.Color {
	if !d.flag("color present") {
		return puz.Color{}
	}
	return puz.RGB(uint32(d.uvarint("color", 0xffffff)))
}

func writeClueID(e *encoder, id puz.ClueID) {
	e.str(id.List)
	e.uvarint(id.Index)
}

func readClueID(d *decoder) puz.ClueID {
	list := d.str("clue list")
	index := d.uvarint("clue index", maxCount)
	return puz.ClueID{List: list, Index: index}
}

func writeOptionalClueID(e *encoder, id *puz.ClueID) {
	e.flag(id != nil)
	if id != nil {
		writeClueID(e, *id)
	}
}

func readOptionalClueID(d *decoder) *puz.ClueID {
	if !d.flag("clue present") {
		return nil
	}
	id := readClueID(d)
	return &id
}

func writeClueIDs(e *encoder, ids []puz.ClueID) {
	e.uvarint(len(ids))
	for _, id := range ids {
		writeClueID(e, id)
	}
}

func readClueIDs(d *decoder, what string) []puz.ClueID {
	n := d.uvarint(what, maxCount)
	if d.err != nil || n == 0 {
		return nil
	}
	ids := make([]puz.ClueID, n)
	for i := range ids {
		ids[i] = readClueID(d)
	}
	return ids
}

func writeNote(e *encoder, n puz.Note) {
	e.str(n.Scratch)
	e.str(n.Text)
	e.str(n.AnagramSource)
	e.str(n.AnagramSolution)
}

func readNote(d *decoder) puz.Note {
	return puz.Note{
		Scratch:         d.str("note scratch"),
		Text:            d.str("note text"),
		AnagramSource:   d.str("anagram source"),
		AnagramSolution: d.str("anagram solution"),
	}
}
