package ipuz

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/tidwall/jsonc"

	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz"
)

const (
	versionV1 = "http://ipuz.org/v1"
	versionV2 = "http://ipuz.org/v2"

	kindCrossword = "http://ipuz.org/crossword"
	kindAcrostic  = "http://ipuz.org/acrostic"

	defaultBlock     = "#"
	defaultEmptyRead = "0"

	acrosticQuoteList = "Quote"
)

// maxInput bounds how much of a reader Parse will buffer.
const maxInput = 64 << 20

// document is a decoded IPuz file together with the settings that shape
// how its fields are read.
type document struct {
	root      object
	ioVersion int
	block     string
	empty     string
	styles    object
}

func decode(r io.Reader) (*document, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInput))
	if err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "read input")
	}
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "decode json")
	}
	root, ok := asObject(v)
	if !ok {
		return nil, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "top level is not an object")
	}

	doc := &document{root: root, block: defaultBlock, empty: defaultEmptyRead}
	if s, ok := text(root["block"]); ok {
		doc.block = s
	}
	if s, ok := text(root["empty"]); ok {
		doc.empty = s
	}
	doc.styles, _ = root.obj("styles")

	if v, ok := root.ext("ioversion"); ok {
		n, ok := toInt(v)
		if !ok {
			return nil, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "ioversion %v is not a number", v)
		}
		doc.ioVersion = n
	} else if _, ok := root.ext("playdata"); ok {
		doc.ioVersion = 1
	}
	return doc, nil
}

func (d *document) puzzle() (*puz.Puzzle, error) {
	if err := d.checkVersion(); err != nil {
		return nil, err
	}
	kind, err := d.kind()
	if err != nil {
		return nil, err
	}
	width, height, err := d.dimensions()
	if err != nil {
		return nil, err
	}

	grid, err := d.cells(width, height)
	if err != nil {
		return nil, err
	}
	if err := d.overlay("saved", grid, false); err != nil {
		return nil, err
	}
	if err := d.overlay("solution", grid, true); err != nil {
		return nil, err
	}

	b, err := puz.NewBuilder(grid)
	if err != nil {
		return nil, err
	}
	p := b.Puzzle()
	p.Kind = kind
	d.metadata(p)

	if err := d.clues(b, width, height); err != nil {
		return nil, err
	}
	if err := d.extensions(p); err != nil {
		return nil, err
	}
	if kind == puz.KindAcrostic {
		if err := ensureBoardClue(b); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func (d *document) checkVersion() error {
	v, ok := d.root["version"].(string)
	if !ok {
		return cwerrors.New(cwerrors.ErrCodeInvalidFormat, "missing version")
	}
	if !strings.EqualFold(v, versionV1) && !strings.EqualFold(v, versionV2) {
		return cwerrors.New(cwerrors.ErrCodeUnsupportedVersion, "unsupported ipuz version %q", v)
	}
	return nil
}

// kind returns acrostic as soon as one kind names it, crossword when some
// kind is a crossword.
func (d *document) kind() (puz.Kind, error) {
	kinds, ok := d.root.arr("kind")
	if !ok {
		return 0, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "missing kind")
	}
	found := false
	for _, k := range kinds {
		s, _ := k.(string)
		s = strings.ToLower(s)
		if strings.HasPrefix(s, kindAcrostic) {
			return puz.KindAcrostic, nil
		}
		if strings.HasPrefix(s, kindCrossword) {
			found = true
		}
	}
	if !found {
		return 0, cwerrors.New(cwerrors.ErrCodeUnsupported, "no supported kind in %v", kinds)
	}
	return puz.KindCrossword, nil
}

func (d *document) dimensions() (width, height int, err error) {
	dims, ok := d.root.obj("dimensions")
	if !ok {
		return 0, 0, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "missing dimensions")
	}
	width, okW := dims.integer("width")
	height, okH := dims.integer("height")
	if !okW || !okH {
		return 0, 0, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "dimensions need width and height")
	}
	if err := cwerrors.ValidateDimensions(width, height); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func (d *document) metadata(p *puz.Puzzle) {
	r := d.root
	p.Title = r.str("title")
	p.Author = r.str("author")
	p.Copyright = r.str("copyright")
	p.IntroMessage = r.str("intro")
	p.Notes = r.str("notes")
	p.CompletionMessage = r.str("explanation")
	p.SourceURL = r.str("url")
	p.Source = r.str("publisher")
	p.Date = parseDate(r.str("date"), d.ioVersion)
}

const (
	dateLayout        = "01/02/2006"
	dateLayoutV1      = "02/01/2006"
	dateLayoutSingles = "1/2/2006"
)

// parseDate reads a date in the layout of the file's IO version. A date
// that matches no layout is dropped.
func parseDate(s string, ioVersion int) time.Time {
	if s == "" {
		return time.Time{}
	}
	layout := dateLayout
	if ioVersion == 1 {
		layout = dateLayoutV1
	}
	for _, l := range []string{layout, dateLayoutSingles} {
		if t, err := time.Parse(l, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// =============================================================================
// Cells
// =============================================================================

func (d *document) cells(width, height int) ([][]puz.Box, error) {
	rows, ok := d.root.arr("puzzle")
	if !ok {
		return nil, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "missing puzzle cells")
	}
	if len(rows) < height {
		return nil, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "puzzle has %d rows, want %d", len(rows), height)
	}
	grid := make([][]puz.Box, height)
	for row := range height {
		cols, ok := rows[row].([]any)
		if !ok || len(cols) < width {
			return nil, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "puzzle row %d has fewer than %d cells", row, width)
		}
		grid[row] = make([]puz.Box, width)
		for col := range width {
			box, err := d.cell(cols[col])
			if err != nil {
				return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "cell (%d, %d)", row, col)
			}
			grid[row][col] = box
		}
	}
	return grid, nil
}

// cell decodes one puzzle entry. Null and block tokens are missing cells;
// a block carrying a style or value is kept as a decorated block.
func (d *document) cell(v any) (puz.Box, error) {
	if v == nil {
		return puz.Box{}, nil
	}
	obj, ok := asObject(v)
	if !ok {
		return d.token(v)
	}

	inner, present := obj["cell"]
	if !present {
		inner = d.empty
	}
	box, err := d.cell(inner)
	if err != nil {
		return puz.Box{}, err
	}
	created := false
	if box.IsMissing() {
		box = puz.NewBlock()
		created = true
	}

	set := false
	if style := d.style(obj["style"]); style != nil {
		if set, err = applyStyle(style, &box); err != nil {
			return puz.Box{}, err
		}
	}
	if value := obj.str("value"); value != "" {
		box.InitialValue = value
		box.Response = value
		set = true
	}
	if created && !set {
		return puz.Box{}, nil
	}
	return box, nil
}

func (d *document) token(v any) (puz.Box, error) {
	s, ok := text(v)
	if !ok {
		return puz.Box{}, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "unrecognised cell %v", v)
	}
	switch s {
	case d.block:
		return puz.Box{}, nil
	case d.empty:
		return puz.NewCell(), nil
	}
	box := puz.NewCell()
	box.ClueNumber = s
	return box, nil
}

// style resolves an inline style object or the name of a shared style.
func (d *document) style(v any) object {
	if obj, ok := asObject(v); ok {
		return obj
	}
	name, _ := v.(string)
	if name == "" || d.styles == nil {
		return nil
	}
	obj, _ := d.styles.obj(name)
	return obj
}

// overlay reads the saved or solution grid onto the cells. A value over a
// missing cell turns it into a block that keeps the value.
func (d *document) overlay(key string, grid [][]puz.Box, solution bool) error {
	rows, _ := d.root.arr(key)
	for row := range min(len(rows), len(grid)) {
		cols, ok := rows[row].([]any)
		if !ok {
			return cwerrors.New(cwerrors.ErrCodeInvalidFormat, "%s row %d is not an array", key, row)
		}
		for col := range min(len(cols), len(grid[row])) {
			value, err := d.value(cols[col])
			if err != nil {
				return cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "%s (%d, %d)", key, row, col)
			}
			if value == "" {
				continue
			}
			box := &grid[row][col]
			if box.IsMissing() {
				*box = puz.NewBlock()
			}
			if solution {
				box.Solution = value
			} else {
				box.Response = value
			}
		}
	}
	return nil
}

// value decodes a saved or solution entry: "" for nothing, [puz.Blank] for
// an empty cell, else the letters.
func (d *document) value(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case []any:
		if len(v) != 1 {
			return "", cwerrors.New(cwerrors.ErrCodeInvalidFormat, "multiple cell values not supported: %v", v)
		}
		return d.value(v[0])
	case map[string]any:
		s, ok := text(v["value"])
		switch {
		case !ok:
			return "", nil
		case s == "":
			return puz.Blank, nil
		}
		return s, nil
	}
	s, ok := text(v)
	switch {
	case !ok || s == d.block:
		return "", nil
	case s == d.empty || s == "":
		return puz.Blank, nil
	}
	return s, nil
}

// =============================================================================
// Acrostics
// =============================================================================

// ensureBoardClue makes sure some clue spans every clued cell so the whole
// quote can be selected at once.
func ensureBoardClue(b *puz.Builder) error {
	p := b.Puzzle()
	var board puz.Zone
	for row := range p.Height() {
		for col := range p.Width() {
			pos := puz.Position{Row: row, Col: col}
			if box := p.Box(pos); !box.IsBlock() && len(box.Clues()) > 0 {
				board = append(board, pos)
			}
		}
	}
	if len(board) == 0 {
		return nil
	}
	for _, c := range p.AllClues() {
		if c.Zone.Covers(board) {
			return nil
		}
	}
	_, err := b.AddClue(acrosticQuoteList, "", "", acrosticQuoteList, board)
	return err
}
