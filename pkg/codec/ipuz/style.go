package ipuz

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/crosswire/pkg/markup"
	"github.com/matzehuels/crosswire/pkg/puz"
)

// palette is the set of colors a one or two digit style color indexes.
var palette = [...]uint32{
	0x000000, 0xd9d1f1, 0xafe1af, 0xfffaa0,
	0xadd8e6, 0xfaa0a0, 0xbdffff, 0xf5f5dc,
	0xcccccc, 0xcf9fff, 0x50c878, 0xfafa33,
	0x4169e1, 0xfa8072, 0x00ffff, 0xebca9a,
}

// highlightColor is what "highlight": true paints a cell with.
var highlightColor = palette[3]

const paletteDigits = 2

var shapeNames = []struct {
	shape puz.Shape
	read  string
	write string
}{
	{puz.ShapeCircle, "circle", "circle"},
	{puz.ShapeArrowLeft, "arrowleft", "arrow-left"},
	{puz.ShapeArrowRight, "arrowright", "arrow-right"},
	{puz.ShapeArrowUp, "arrowup", "arrow-up"},
	{puz.ShapeArrowDown, "arrowdown", "arrow-down"},
	{puz.ShapeTriangleLeft, "triangleleft", "triangle-left"},
	{puz.ShapeTriangleRight, "triangleright", "triangle-right"},
	{puz.ShapeTriangleUp, "triangleup", "triangle-up"},
	{puz.ShapeTriangleDown, "triangledown", "triangle-down"},
	{puz.ShapeDiamond, "diamond", "diamond"},
	{puz.ShapeClub, "club", "club"},
	{puz.ShapeHeart, "heart", "heart"},
	{puz.ShapeSpade, "spade", "spade"},
	{puz.ShapeStar, "star", "star"},
	{puz.ShapeSquare, "square", "square"},
	{puz.ShapeRhombus, "rhombus", "rhombus"},
	{puz.ShapeForwardSlash, "/", "/"},
	{puz.ShapeBackSlash, `\`, `\`},
	{puz.ShapeX, "x", "X"},
}

var shapePunct = regexp.MustCompile(`[^A-Za-z0-9/\\]`)

// ParseShape matches a shapebg value leniently: case and any punctuation
// other than the slashes are ignored, so "Arrow-Left" and "arrow left"
// both name the left arrow.
func ParseShape(name string) (puz.Shape, bool) {
	name = strings.ToLower(shapePunct.ReplaceAllString(name, ""))
	for _, s := range shapeNames {
		if s.read == name {
			return s.shape, true
		}
	}
	return puz.ShapeNone, false
}

// ShapeName returns the shapebg name written for shape, or "" for none.
func ShapeName(shape puz.Shape) string {
	for _, s := range shapeNames {
		if s.shape == shape {
			return s.write
		}
	}
	return ""
}

// ParseStyleColor reads a style color: a short number indexes the built-in
// palette, a longer string is hex digits, and anything else is tried as a
// CSS color.
func ParseStyleColor(s string) (puz.Color, bool) {
	if s == "" {
		return puz.Color{}, false
	}
	if len(s) <= paletteDigits {
		if i, err := strconv.Atoi(s); err == nil && i >= 0 && i < len(palette) {
			return puz.RGB(palette[i]), true
		}
	} else if v, err := strconv.ParseInt(s, 16, 32); err == nil && v >= 0 {
		return puz.RGB(uint32(v)), true
	}
	if rgb, ok := markup.ParseColor(s); ok {
		return puz.RGB(rgb), true
	}
	return puz.Color{}, false
}

func colorHex(c puz.Color) string {
	return fmt.Sprintf("%06X", c.RGB())
}

var markKeys = [3][3]string{
	{"TL", "T", "TR"},
	{"L", "C", "R"},
	{"BL", "B", "BR"},
}

// applyStyle copies a style object onto box and reports whether it set
// anything.
func applyStyle(style object, box *puz.Box) (bool, error) {
	set := false
	if label := style.str("label"); label != "" {
		box.InitialValue = label
		box.Response = label
		set = true
	}
	if shape, ok := ParseShape(style.str("shapebg")); ok {
		box.Shape = shape
		set = true
	}

	if style.boolean("highlight", false) {
		box.Color = puz.RGB(highlightColor)
		set = true
	}
	colors := []struct {
		key string
		dst *puz.Color
	}{
		{"color", &box.Color},
		{"colortext", &box.TextColor},
		{"colorbar", &box.BarColor},
	}
	for _, c := range colors {
		if v, ok := ParseStyleColor(style.str(c.key)); ok {
			*c.dst = v
			set = true
		}
	}

	// solid is read last so it wins over the lighter bars
	bars := []struct {
		key string
		bar puz.Bar
	}{
		{"dotted", puz.BarDotted},
		{"dashed", puz.BarDashed},
		{"barred", puz.BarSolid},
	}
	for _, b := range bars {
		for _, ch := range strings.ToUpper(style.str(b.key)) {
			switch ch {
			case 'T':
				box.BarTop = b.bar
			case 'B':
				box.BarBottom = b.bar
			case 'L':
				box.BarLeft = b.bar
			case 'R':
				box.BarRight = b.bar
			default:
				continue
			}
			set = true
		}
	}

	if mark, ok := style.obj("mark"); ok {
		marks := make([][]string, 3)
		for row := range marks {
			marks[row] = make([]string, 3)
			for col := range marks[row] {
				marks[row][col] = mark.str(markKeys[row][col])
			}
		}
		if err := box.SetMarks(marks); err != nil {
			return set, err
		}
		set = true
	}
	return set, nil
}

type styleJSON struct {
	ShapeBg   string    `json:"shapebg,omitempty"`
	Label     string    `json:"label,omitempty"`
	Color     string    `json:"color,omitempty"`
	ColorText string    `json:"colortext,omitempty"`
	ColorBar  string    `json:"colorbar,omitempty"`
	Barred    string    `json:"barred,omitempty"`
	Dashed    string    `json:"dashed,omitempty"`
	Dotted    string    `json:"dotted,omitempty"`
	Mark      *markJSON `json:"mark,omitempty"`
}

type markJSON struct {
	TL string `json:"TL,omitempty"`
	T  string `json:"T,omitempty"`
	TR string `json:"TR,omitempty"`
	L  string `json:"L,omitempty"`
	C  string `json:"C,omitempty"`
	R  string `json:"R,omitempty"`
	BL string `json:"BL,omitempty"`
	B  string `json:"B,omitempty"`
	BR string `json:"BR,omitempty"`
}

// hasCellStyle reports whether a cell needs a style object on write.
func hasCellStyle(box *puz.Box) bool {
	return box.HasStyle() || (box.Kind == puz.CellBlock && box.HasInitialValue())
}

func styleOf(box *puz.Box) *styleJSON {
	if !hasCellStyle(box) {
		return nil
	}
	s := &styleJSON{ShapeBg: ShapeName(box.Shape)}
	if box.IsBlock() {
		s.Label = box.InitialValue
	}
	if box.Color.IsSet() {
		s.Color = colorHex(box.Color)
	}
	if box.TextColor.IsSet() {
		s.ColorText = colorHex(box.TextColor)
	}
	if box.BarColor.IsSet() {
		s.ColorBar = colorHex(box.BarColor)
	}
	s.Barred = barLetters(box, puz.BarSolid)
	s.Dashed = barLetters(box, puz.BarDashed)
	s.Dotted = barLetters(box, puz.BarDotted)
	if m := box.Marks(); m != nil {
		s.Mark = &markJSON{
			TL: m[0][0], T: m[0][1], TR: m[0][2],
			L: m[1][0], C: m[1][1], R: m[1][2],
			BL: m[2][0], B: m[2][1], BR: m[2][2],
		}
	}
	return s
}

func barLetters(box *puz.Box, bar puz.Bar) string {
	var sb strings.Builder
	for _, edge := range []struct {
		letter byte
		bar    puz.Bar
	}{{'T', box.BarTop}, {'R', box.BarRight}, {'B', box.BarBottom}, {'L', box.BarLeft}} {
		if edge.bar == bar {
			sb.WriteByte(edge.letter)
		}
	}
	return sb.String()
}
