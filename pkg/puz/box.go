package puz

import (
	"encoding/binary"
	"fmt"
	"maps"
	"slices"

	"github.com/cespare/xxhash/v2"

	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
)

// Blank is the response of a cell nobody has filled in.
const Blank = " "

// =============================================================================
// Cell Kind
// =============================================================================

// CellKind tells the three observable cell states apart.
type CellKind uint8

const (
	// CellMissing is the absence of a cell. It is the zero value.
	CellMissing CellKind = iota
	// CellBlock is a block, with or without decoration.
	CellBlock
	// CellPlayable is a cell the solver fills in.
	CellPlayable
)

func (k CellKind) String() string {
	switch k {
	case CellMissing:
		return "missing"
	case CellBlock:
		return "block"
	case CellPlayable:
		return "playable"
	default:
		return fmt.Sprintf("CellKind(%d)", uint8(k))
	}
}

// =============================================================================
// Shape, Bar, Color
// =============================================================================

// Shape is a glyph drawn in the background of a cell.
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeCircle
	ShapeArrowLeft
	ShapeArrowRight
	ShapeArrowUp
	ShapeArrowDown
	ShapeTriangleLeft
	ShapeTriangleRight
	ShapeTriangleUp
	ShapeTriangleDown
	ShapeDiamond
	ShapeClub
	ShapeHeart
	ShapeSpade
	ShapeStar
	ShapeSquare
	ShapeRhombus
	ShapeForwardSlash
	ShapeBackSlash
	ShapeX
)

var shapeNames = [...]string{
	"none", "circle", "arrow-left", "arrow-right", "arrow-up", "arrow-down",
	"triangle-left", "triangle-right", "triangle-up", "triangle-down",
	"diamond", "club", "heart", "spade", "star", "square", "rhombus",
	"forward-slash", "back-slash", "x",
}

// Shapes lists every shape except ShapeNone.
func Shapes() []Shape {
	out := make([]Shape, 0, len(shapeNames)-1)
	for s := ShapeCircle; s <= ShapeX; s++ {
		out = append(out, s)
	}
	return out
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// Bar is the style of one cell edge.
type Bar uint8

const (
	BarNone Bar = iota
	BarSolid
	BarDashed
	BarDotted
)

func (b Bar) String() string {
	switch b {
	case BarNone:
		return "none"
	case BarSolid:
		return "solid"
	case BarDashed:
		return "dashed"
	case BarDotted:
		return "dotted"
	default:
		return fmt.Sprintf("Bar(%d)", uint8(b))
	}
}

// Color is an optional 24-bit RGB value. The zero Color is unset.
type Color struct {
	rgb uint32
	set bool
}

// RGB returns a set color; bits above 0xffffff are dropped.
func RGB(rgb uint32) Color {
	return Color{rgb: rgb & 0xffffff, set: true}
}

// IsSet reports whether the color carries a value.
func (c Color) IsSet() bool { return c.set }

// RGB returns the 0xRRGGBB value, 0 when unset.
func (c Color) RGB() uint32 { return c.rgb }

// String returns "#rrggbb" or "unset".
func (c Color) String() string {
	if !c.set {
		return "unset"
	}
	return fmt.Sprintf("#%06x", c.rgb)
}

// =============================================================================
// Box
// =============================================================================

// Box is the complete play and style state of one grid cell.
//
// The zero Box is a missing cell. Use [NewCell] and [NewBlock] for the other
// kinds so that Response starts out [Blank].
type Box struct {
	Kind CellKind

	Response     string
	Solution     string
	InitialValue string
	ClueNumber   string
	Cheated      bool
	Responder    string

	Shape     Shape
	BarTop    Bar
	BarBottom Bar
	BarLeft   Bar
	BarRight  Bar
	Color     Color
	TextColor Color
	BarColor  Color

	marks         *[3][3]string
	cluePositions map[ClueID]int
}

// NewCell returns an empty playable cell.
func NewCell() Box {
	return Box{Kind: CellPlayable, Response: Blank}
}

// NewBlock returns an undecorated block.
func NewBlock() Box {
	return Box{Kind: CellBlock, Response: Blank}
}

// IsBlock reports whether b is missing or a block. A nil box is a block.
func IsBlock(b *Box) bool {
	return b == nil || b.IsBlock()
}

// IsBlock reports whether the cell cannot be played.
func (b *Box) IsBlock() bool { return b.Kind != CellPlayable }

// IsMissing reports whether there is no cell at all.
func (b *Box) IsMissing() bool { return b.Kind == CellMissing }

// IsBlank reports whether nothing has been entered.
func (b *Box) IsBlank() bool { return b.Response == Blank || b.Response == "" }

func (b *Box) HasSolution() bool     { return b.Solution != "" }
func (b *Box) HasInitialValue() bool { return b.InitialValue != "" }
func (b *Box) HasClueNumber() bool   { return b.ClueNumber != "" }
func (b *Box) HasResponder() bool    { return b.Responder != "" }
func (b *Box) HasShape() bool        { return b.Shape != ShapeNone }

// HasBars reports whether any edge is barred.
func (b *Box) HasBars() bool {
	return b.BarTop != BarNone || b.BarBottom != BarNone ||
		b.BarLeft != BarNone || b.BarRight != BarNone
}

// HasStyle reports whether the cell carries any decoration.
func (b *Box) HasStyle() bool {
	return b.HasShape() || b.HasBars() || b.HasMarks() ||
		b.Color.IsSet() || b.TextColor.IsSet() || b.BarColor.IsSet()
}

// IsCorrect reports whether the response matches a known solution.
func (b *Box) IsCorrect() bool {
	return b.HasSolution() && b.Response == b.Solution
}

// ---------------------------------------------------------------------------
// Marks
// ---------------------------------------------------------------------------

// SetMarks sets the 3x3 grid of small text marks, indexed [row][col].
// Empty strings are unset entries. A nil grid clears the marks. Any shape
// other than 3x3 fails with a STRUCTURAL error.
func (b *Box) SetMarks(marks [][]string) error {
	if marks == nil {
		b.marks = nil
		return nil
	}
	if len(marks) != 3 {
		return cwerrors.New(cwerrors.ErrCodeStructural, "marks must have 3 rows, got %d", len(marks))
	}
	var grid [3][3]string
	for row, cols := range marks {
		if len(cols) != 3 {
			return cwerrors.New(cwerrors.ErrCodeStructural, "marks row %d must have 3 columns, got %d", row, len(cols))
		}
		copy(grid[row][:], cols)
	}
	b.marks = &grid
	return nil
}

// SetMark sets a single mark, creating the grid when needed.
func (b *Box) SetMark(row, col int, mark string) error {
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return cwerrors.New(cwerrors.ErrCodeStructural, "mark position (%d, %d) outside 3x3", row, col)
	}
	if b.marks == nil {
		b.marks = new([3][3]string)
	}
	b.marks[row][col] = mark
	return nil
}

// HasMarks reports whether a mark grid is present.
func (b *Box) HasMarks() bool { return b.marks != nil }

// Mark returns the mark at (row, col); ok is false when unset.
func (b *Box) Mark(row, col int) (mark string, ok bool) {
	if b.marks == nil || row < 0 || row > 2 || col < 0 || col > 2 {
		return "", false
	}
	mark = b.marks[row][col]
	return mark, mark != ""
}

// Marks returns a copy of the mark grid, or nil.
func (b *Box) Marks() [][]string {
	if b.marks == nil {
		return nil
	}
	out := make([][]string, 3)
	for row := range out {
		out[row] = slices.Clone(b.marks[row][:])
	}
	return out
}

// ---------------------------------------------------------------------------
// Clue membership
// ---------------------------------------------------------------------------

func (b *Box) setCluePosition(id ClueID, index int) {
	if b.cluePositions == nil {
		b.cluePositions = make(map[ClueID]int)
	}
	b.cluePositions[id] = index
}

// IsPartOf reports whether the cell belongs to the clue's zone.
func (b *Box) IsPartOf(id ClueID) bool {
	_, ok := b.cluePositions[id]
	return ok
}

// CluePosition returns the cell's index within the clue's zone, or -1.
func (b *Box) CluePosition(id ClueID) int {
	if i, ok := b.cluePositions[id]; ok {
		return i
	}
	return -1
}

// Clues returns the ids of every clue containing the cell, in ClueID order.
func (b *Box) Clues() []ClueID {
	ids := slices.Collect(maps.Keys(b.cluePositions))
	slices.SortFunc(ids, ClueID.Compare)
	return ids
}

// ClueIn returns the first clue from list containing the cell.
func (b *Box) ClueIn(list string) (ClueID, bool) {
	for _, id := range b.Clues() {
		if id.List == list {
			return id, true
		}
	}
	return ClueID{}, false
}

// ---------------------------------------------------------------------------
// Equality
// ---------------------------------------------------------------------------

// Equal compares every field, marks included.
func (b *Box) Equal(other *Box) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.Kind != other.Kind ||
		b.Response != other.Response ||
		b.Solution != other.Solution ||
		b.InitialValue != other.InitialValue ||
		b.ClueNumber != other.ClueNumber ||
		b.Cheated != other.Cheated ||
		b.Responder != other.Responder ||
		b.Shape != other.Shape ||
		b.BarTop != other.BarTop ||
		b.BarBottom != other.BarBottom ||
		b.BarLeft != other.BarLeft ||
		b.BarRight != other.BarRight ||
		b.Color != other.Color ||
		b.TextColor != other.TextColor ||
		b.BarColor != other.BarColor {
		return false
	}
	if !maps.Equal(b.cluePositions, other.cluePositions) {
		return false
	}
	if (b.marks == nil) != (other.marks == nil) {
		return false
	}
	return b.marks == nil || *b.marks == *other.marks
}

// Hash returns a structural hash consistent with Equal for every field
// except the marks, which it skips. Boxes differing only in marks are
// unequal yet hash the same.
func (b *Box) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeInt := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	writeString := func(s string) {
		writeInt(uint64(len(s)))
		_, _ = d.WriteString(s)
	}
	writeColor := func(c Color) {
		if c.set {
			writeInt(uint64(c.rgb) | 1<<32)
		} else {
			writeInt(0)
		}
	}
	writeBool := func(v bool) {
		if v {
			writeInt(1)
		} else {
			writeInt(0)
		}
	}

	writeInt(uint64(b.Kind))
	writeString(b.Response)
	writeString(b.Solution)
	writeString(b.InitialValue)
	writeString(b.ClueNumber)
	writeBool(b.Cheated)
	writeString(b.Responder)
	writeInt(uint64(b.Shape))
	writeInt(uint64(b.BarTop)<<24 | uint64(b.BarBottom)<<16 | uint64(b.BarLeft)<<8 | uint64(b.BarRight))
	writeColor(b.Color)
	writeColor(b.TextColor)
	writeColor(b.BarColor)
	for _, id := range b.Clues() {
		writeString(id.List)
		writeInt(uint64(id.Index))
		writeInt(uint64(b.cluePositions[id]))
	}
	return d.Sum64()
}

func (b Box) clone() Box {
	if b.marks != nil {
		m := *b.marks
		b.marks = &m
	}
	b.cluePositions = maps.Clone(b.cluePositions)
	return b
}
