package jpz

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/matzehuels/crosswire/pkg/codec/ipuz"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/markup"
	"github.com/matzehuels/crosswire/pkg/puz"
)

// maxCells bounds the grid a document may declare.
const maxCells = 1 << 20

// state is where the reader is in the document.
type state uint8

const (
	stateOuter state = iota
	stateGrid
	stateClues
	stateWord
)

// metadataTags are the outer elements whose text is kept.
var metadataTags = map[string]bool{
	"title":        true,
	"creator":      true,
	"copyright":    true,
	"publisher":    true,
	"description":  true,
	"instructions": true,
	"completion":   true,
}

// markAttributes names the 3x3 mark grid, indexed [row][col].
var markAttributes = [3][3]string{
	{"top-left-number", "top-number", "top-right-number"},
	{"left-number", "center-number", "right-number"},
	{"bottom-left-number", "bottom-number", "bottom-right-number"},
}

var arrowShapes = map[string]puz.Shape{
	"left":   puz.ShapeArrowLeft,
	"right":  puz.ShapeArrowRight,
	"top":    puz.ShapeArrowUp,
	"bottom": puz.ShapeArrowDown,
}

// clueEntry is a clue as written, before zones are resolved.
type clueEntry struct {
	list     string
	number   string
	hint     string
	word     string
	citation string
}

// parser collects the raw document. It knows nothing about acrostics;
// see build.go for turning the result into a puzzle.
type parser struct {
	state state

	sawPuzzle bool
	sawGrid   bool
	sawClues  bool
	acrostic  bool

	meta  map[string]string
	outer strings.Builder

	width, height int
	boxes         [][]puz.Box
	cell          *puz.Position

	clues      []clueEntry
	clueText   strings.Builder
	listName   string
	clueNumber string
	clueFormat string
	clueWord   string
	clueCite   string

	zones    map[string]puz.Zone
	wordID   string
	word     puz.Zone
	wordOpen bool
}

func newParser() *parser {
	return &parser{
		meta:     make(map[string]string),
		zones:    make(map[string]puz.Zone),
		listName: "No List",
	}
}

func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

// parse consumes the whole token stream.
func (p *parser) parse(r io.Reader) error {
	dec := newDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "read xml")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.start(t); err != nil {
				return err
			}
		case xml.EndElement:
			p.end(t)
		case xml.CharData:
			p.chars(t)
		}
	}
	return p.check()
}

func (p *parser) check() error {
	switch {
	case !p.sawPuzzle:
		return cwerrors.New(cwerrors.ErrCodeInvalidFormat, "no rectangular-puzzle element")
	case !p.sawGrid || p.boxes == nil:
		return cwerrors.New(cwerrors.ErrCodeInvalidFormat, "no grid")
	case !p.sawClues || len(p.clues) == 0:
		return cwerrors.New(cwerrors.ErrCodeInvalidFormat, "no clues")
	}
	return nil
}

func (p *parser) start(el xml.StartElement) error {
	name := strings.ToLower(el.Name.Local)
	switch name {
	case "rectangular-puzzle":
		p.sawPuzzle = true
	case "grid":
		p.sawGrid = true
		p.state = stateGrid
	case "clues":
		p.sawClues = true
		p.state = stateClues
	case "word":
		p.state = stateWord
	case "acrostic":
		p.acrostic = true
	}

	switch p.state {
	case stateGrid:
		return p.gridStart(name, el)
	case stateClues:
		p.cluesStart(name, el)
	case stateWord:
		return p.wordStart(name, el)
	default:
		p.outerStart(name, el)
	}
	return nil
}

func (p *parser) end(el xml.EndElement) {
	name := strings.ToLower(el.Name.Local)
	switch p.state {
	case stateGrid:
		if name == "cell" {
			p.cell = nil
		}
	case stateClues:
		p.cluesEnd(name, el)
	case stateWord:
		p.wordEnd(name)
	default:
		p.outerEnd(name, el)
	}

	switch name {
	case "grid", "clues", "word":
		p.state = stateOuter
	}
}

func (p *parser) chars(data xml.CharData) {
	switch p.state {
	case stateOuter:
		p.outer.Write(data)
	case stateClues:
		p.clueText.Write(data)
	}
}

// ---------------------------------------------------------------------------
// Outer
// ---------------------------------------------------------------------------

func (p *parser) outerStart(name string, el xml.StartElement) {
	if metadataTags[name] {
		p.outer.Reset()
		return
	}
	p.outer.WriteString("<" + el.Name.Local + ">")
}

func (p *parser) outerEnd(name string, el xml.EndElement) {
	if metadataTags[name] {
		p.meta[name] = strings.TrimSpace(p.outer.String())
		return
	}
	p.outer.WriteString("</" + el.Name.Local + ">")
}

// ---------------------------------------------------------------------------
// Grid
// ---------------------------------------------------------------------------

func (p *parser) gridStart(name string, el xml.StartElement) error {
	switch name {
	case "grid":
		return p.grid(el)
	case "cell":
		return p.parseCell(el)
	case "arrow":
		p.arrow(el)
	}
	return nil
}

func (p *parser) grid(el xml.StartElement) error {
	width, err := intAttr(el, "width")
	if err != nil {
		return err
	}
	height, err := intAttr(el, "height")
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 || width*height > maxCells {
		return cwerrors.New(cwerrors.ErrCodeInvalidFormat, "bad grid size %dx%d", width, height)
	}
	p.width, p.height = width, height
	p.boxes = make([][]puz.Box, height)
	for row := range p.boxes {
		p.boxes[row] = make([]puz.Box, width)
	}
	return nil
}

func (p *parser) parseCell(el xml.StartElement) error {
	if p.boxes == nil {
		return cwerrors.New(cwerrors.ErrCodeInvalidFormat, "cell outside a sized grid")
	}
	x, err := intAttr(el, "x")
	if err != nil {
		return err
	}
	y, err := intAttr(el, "y")
	if err != nil {
		return err
	}
	pos := puz.Position{Row: y - 1, Col: x - 1}
	if pos.Row < 0 || pos.Row >= p.height || pos.Col < 0 || pos.Col >= p.width {
		return nil
	}
	p.cell = &pos

	box := puz.NewCell()
	if isBlockType(attr(el, "type")) {
		box = puz.NewBlock()
	}
	hasData := false

	if sol := attr(el, "solution"); sol != "" && !box.IsBlock() {
		box.Solution = sol
	}
	if filled := attr(el, "solve-state"); filled != "" {
		box.InitialValue = filled
		box.Response = filled
		hasData = true
	}
	if number, ok := lookupAttr(el, "number"); ok {
		box.ClueNumber = number
		hasData = true
	}
	if shape := attr(el, "background-shape"); shape != "" {
		if s, ok := ipuz.ParseShape(shape); ok {
			box.Shape = s
			hasData = true
		}
	}
	if color, ok := lookupAttr(el, "background-color"); ok {
		if rgb, ok := markup.ParseColor(color); ok {
			box.Color = puz.RGB(rgb)
			hasData = true
		}
	}

	for edge, bar := range map[string]*puz.Bar{
		"top-bar":    &box.BarTop,
		"bottom-bar": &box.BarBottom,
		"left-bar":   &box.BarLeft,
		"right-bar":  &box.BarRight,
	} {
		if strings.EqualFold(attr(el, edge), "true") {
			*bar = puz.BarSolid
		}
	}
	hasData = hasData || box.HasBars()

	for row, names := range markAttributes {
		for col, name := range names {
			if mark, ok := lookupAttr(el, name); ok {
				if err := box.SetMark(row, col, mark); err != nil {
					return err
				}
				hasData = true
			}
		}
	}

	if !box.IsBlock() || hasData {
		p.boxes[pos.Row][pos.Col] = box
	}
	return nil
}

// arrow draws an arrow child of the current cell as its shape. Only the
// "to" side is read.
func (p *parser) arrow(el xml.StartElement) {
	if p.cell == nil {
		return
	}
	shape, ok := arrowShapes[strings.ToLower(strings.TrimSpace(attr(el, "to")))]
	if !ok {
		return
	}
	box := &p.boxes[p.cell.Row][p.cell.Col]
	if box.IsMissing() {
		*box = puz.NewBlock()
	}
	box.Shape = shape
}

func isBlockType(t string) bool {
	switch strings.ToLower(t) {
	case "block", "void", "clue":
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Clues
// ---------------------------------------------------------------------------

func (p *parser) cluesStart(name string, el xml.StartElement) {
	switch name {
	case "title":
		p.clueText.Reset()
	case "clue":
		p.clueText.Reset()
		p.clueNumber = attr(el, "number")
		if _, link := lookupAttr(el, "is-link"); !link {
			p.clueFormat = attr(el, "format")
			p.clueCite = attr(el, "citation")
			p.clueWord = attr(el, "word")
		}
	default:
		p.clueText.WriteString("<" + el.Name.Local + ">")
	}
}

func (p *parser) cluesEnd(name string, el xml.EndElement) {
	switch name {
	case "title":
		p.listName = strings.TrimSpace(markup.Strip(p.clueText.String()))
	case "clue":
		hint := p.clueText.String()
		if p.clueFormat != "" {
			hint += " (" + p.clueFormat + ")"
		}
		p.clues = append(p.clues, clueEntry{
			list:     p.listName,
			number:   p.clueNumber,
			hint:     hint,
			word:     p.clueWord,
			citation: p.clueCite,
		})
		p.clueNumber, p.clueFormat, p.clueWord, p.clueCite = "", "", "", ""
	default:
		p.clueText.WriteString("</" + el.Name.Local + ">")
	}
}

// ---------------------------------------------------------------------------
// Words
// ---------------------------------------------------------------------------

func (p *parser) wordStart(name string, el xml.StartElement) error {
	switch name {
	case "word":
		p.wordID = attr(el, "id")
		p.word = nil
		p.wordOpen = true
		x, hasX := lookupAttr(el, "x")
		y, hasY := lookupAttr(el, "y")
		if hasX && hasY {
			return p.addCells(x, y)
		}
	case "cells":
		return p.addCells(attr(el, "x"), attr(el, "y"))
	}
	return nil
}

func (p *parser) wordEnd(name string) {
	if name != "word" || !p.wordOpen {
		return
	}
	if p.wordID != "" {
		p.zones[p.wordID] = p.word
	}
	p.wordID, p.word, p.wordOpen = "", nil, false
}

func (p *parser) addCells(x, y string) error {
	cells, err := ExpandRange(x, y)
	if err != nil {
		return err
	}
	p.word = append(p.word, cells...)
	return nil
}

// ExpandRange turns 1-based JPZ coordinates into 0-based positions. Either
// axis may be a range "a-b", running up or down. A range on one axis walks
// that axis for each value of the other; ranges of equal length on both
// axes walk diagonally.
func ExpandRange(x, y string) (puz.Zone, error) {
	cols, err := coordRange(x)
	if err != nil {
		return nil, err
	}
	rows, err := coordRange(y)
	if err != nil {
		return nil, err
	}

	var zone puz.Zone
	if len(rows) > 1 && len(rows) == len(cols) {
		for i := range rows {
			zone = append(zone, puz.Position{Row: rows[i], Col: cols[i]})
		}
		return zone, nil
	}
	for _, row := range rows {
		for _, col := range cols {
			zone = append(zone, puz.Position{Row: row, Col: col})
		}
	}
	return zone, nil
}

func coordRange(s string) ([]int, error) {
	from, to, isRange := strings.Cut(strings.TrimSpace(s), "-")
	start, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "bad coordinate %q", s)
	}
	end := start
	if isRange {
		if end, err = strconv.Atoi(strings.TrimSpace(to)); err != nil {
			return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "bad coordinate %q", s)
		}
	}
	step := 1
	if end < start {
		step = -1
	}
	if (end-start)*step >= maxCells {
		return nil, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "coordinate range %q too long", s)
	}
	out := make([]int, 0, (end-start)*step+1)
	for v := start; ; v += step {
		out = append(out, v-1)
		if v == end {
			break
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Attributes
// ---------------------------------------------------------------------------

func lookupAttr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func attr(el xml.StartElement, name string) string {
	v, _ := lookupAttr(el, name)
	return v
}

func intAttr(el xml.StartElement, name string) (int, error) {
	v, ok := lookupAttr(el, name)
	if !ok {
		return 0, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "<%s> has no %s", el.Name.Local, name)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "<%s> %s", el.Name.Local, name)
	}
	return n, nil
}
