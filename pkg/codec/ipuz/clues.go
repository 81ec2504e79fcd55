package ipuz

import (
	"strconv"
	"strings"

	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz"
)

// Clue list directions. A list key is "Direction" or "Direction:Name".
const (
	dirAcross = "Across"
	dirDown   = "Down"
	dirZones  = "Zones"
	dirClues  = "Clues"
)

type clueEntry struct {
	number string
	label  string
	hint   string
	zone   puz.Zone
}

// clues adds every list under "clues". Across and Down lists get their
// zones from the grid; other lists take the cells given in the file.
func (d *document) clues(b *puz.Builder, width, height int) error {
	lists, ok := d.root.obj("clues")
	if !ok {
		return nil
	}
	showEnum := d.root.boolean("showenumerations", true)
	base := d.coordBase(lists, width, height)

	for _, key := range sortedKeys(lists) {
		items, ok := lists.arr(key)
		if !ok {
			return cwerrors.New(cwerrors.ErrCodeInvalidFormat, "clue list %q is not an array", key)
		}
		dir, name, found := strings.Cut(key, ":")
		if !found {
			name = dir
		}
		if i := strings.IndexByte(name, ':'); i >= 0 {
			name = name[:i]
		}
		for i, item := range items {
			c, err := readClue(item, showEnum, base)
			if err != nil {
				return cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "clue %s[%d]", key, i)
			}
			switch dir {
			case dirAcross:
				_, err = b.AddAcrossClue(name, c.number, c.label, c.hint)
			case dirDown:
				_, err = b.AddDownClue(name, c.number, c.label, c.hint)
			default:
				_, err = b.AddClue(name, c.number, c.label, c.hint, c.zone)
			}
			if err != nil {
				return cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "clue %s[%d]", key, i)
			}
		}
	}
	return nil
}

// coordBase returns 1 when clue cells count from one. Files with an IO
// version say so; others are 1-based only if some cell would be off the
// grid when read 0-based.
func (d *document) coordBase(lists object, width, height int) int {
	switch {
	case d.ioVersion >= 3:
		return 0
	case d.ioVersion > 0:
		return 1
	}
	for _, key := range sortedKeys(lists) {
		items, _ := lists.arr(key)
		for _, item := range items {
			obj, ok := asObject(item)
			if !ok {
				continue
			}
			cells, _ := obj.arr("cells")
			for _, cell := range cells {
				xy, _ := cell.([]any)
				if len(xy) < 2 {
					continue
				}
				col, _ := toInt(xy[0])
				row, _ := toInt(xy[1])
				if row >= height || col >= width {
					return 1
				}
			}
		}
	}
	return 0
}

func readClue(v any, showEnum bool, base int) (clueEntry, error) {
	switch v := v.(type) {
	case string:
		return clueEntry{hint: v}, nil
	case []any:
		if len(v) != 2 {
			return clueEntry{}, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "clue array has %d entries, want 2", len(v))
		}
		hint, ok := v[1].(string)
		if !ok {
			return clueEntry{}, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "clue hint %v is not a string", v[1])
		}
		return numberedClue(v[0], "", hint, "", nil)
	case map[string]any:
		obj := object(v)
		num := obj["number"]
		if _, ok := clueNumber(num); !ok {
			num = obj["numbers"]
		}
		hint, ok := obj["clue"].(string)
		if !ok {
			return clueEntry{}, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "clue object has no hint")
		}
		var sb strings.Builder
		sb.WriteString(hint)
		if refs, _ := obj.arr("continued"); len(refs) > 0 {
			writeCrossRefs(&sb, refs, "cont.")
		}
		if refs, _ := obj.arr("references"); len(refs) > 0 {
			writeCrossRefs(&sb, refs, "ref.")
		}
		enum := ""
		if showEnum {
			enum = obj.str("enumeration")
		}
		zone, err := clueZone(obj, base)
		if err != nil {
			return clueEntry{}, err
		}
		return numberedClue(num, obj.str("label"), sb.String(), enum, zone)
	}
	return clueEntry{}, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "unsupported clue %v", v)
}

// numberedClue folds a compound clue number and the enumeration into the
// hint.
func numberedClue(num any, label, hint, enum string, zone puz.Zone) (clueEntry, error) {
	switch num.(type) {
	case nil, string:
	case []any:
		if s := clueNumberText(num); s != "" {
			hint += " (clues " + s + ")"
		}
	default:
		if _, ok := toInt(num); !ok {
			return clueEntry{}, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "unrecognised clue number %v", num)
		}
	}
	if enum != "" {
		hint += " (" + enum + ")"
	}
	number, _ := clueNumber(num)
	return clueEntry{number: number, label: label, hint: hint, zone: zone}, nil
}

// clueNumber picks the plain number out of a clue number, which may be a
// number, a string or a list of either.
func clueNumber(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case []any:
		for _, sub := range v {
			if n, ok := clueNumber(sub); ok {
				return n, true
			}
		}
		return "", false
	}
	if i, ok := toInt(v); ok {
		return strconv.Itoa(i), true
	}
	return "", false
}

// clueNumberText renders a compound number as "1/2".
func clueNumberText(v any) string {
	if a, ok := v.([]any); ok {
		parts := make([]string, len(a))
		for i, sub := range a {
			parts[i] = clueNumberText(sub)
		}
		return strings.Join(parts, "/")
	}
	n, _ := clueNumber(v)
	return n
}

func writeCrossRefs(sb *strings.Builder, refs []any, desc string) {
	sb.WriteString(" (" + desc + " ")
	for i, ref := range refs {
		if i > 0 {
			sb.WriteByte('/')
		}
		obj, _ := asObject(ref)
		sb.WriteString(clueNumberText(obj["number"]))
		sb.WriteByte(' ')
		sb.WriteString(obj.str("direction"))
	}
	sb.WriteByte(')')
}

func clueZone(obj object, base int) (puz.Zone, error) {
	cells, ok := obj.arr("cells")
	if !ok {
		return nil, nil
	}
	zone := make(puz.Zone, 0, len(cells))
	for _, cell := range cells {
		xy, _ := cell.([]any)
		if len(xy) < 2 {
			return nil, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "clue cell %v is not [col, row]", cell)
		}
		col, okC := toInt(xy[0])
		row, okR := toInt(xy[1])
		if !okC || !okR {
			return nil, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "clue cell %v is not numeric", cell)
		}
		zone = append(zone, puz.Position{Row: row - base, Col: col - base})
	}
	return zone, nil
}

// =============================================================================
// Clue IDs
// =============================================================================

// clueIDJSON is the only shape the writer uses.
type clueIDJSON struct {
	List  string `json:"listname"`
	Index int    `json:"index"`
}

func toClueIDJSON(id *puz.ClueID) *clueIDJSON {
	if id == nil {
		return nil
	}
	return &clueIDJSON{List: id.List, Index: id.Index}
}

// decodeClueID accepts the three clue reference shapes files have used:
// {listname, index}, {listname, number} and {number, across}. The two
// number forms need the clue lists built already. A nil value decodes to
// nil.
func decodeClueID(v any, p *puz.Puzzle) (*puz.ClueID, error) {
	if v == nil {
		return nil, nil
	}
	obj, ok := asObject(v)
	if !ok {
		return nil, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "clue id %v is not an object", v)
	}
	switch {
	case obj.has("listname") && obj.has("index"):
		index, ok := obj.integer("index")
		if !ok {
			return nil, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "clue id index %v is not a number", obj["index"])
		}
		return &puz.ClueID{List: obj.str("listname"), Index: index}, nil
	case obj.has("listname") && obj.has("number"):
		return clueIDByNumber(p, obj.str("listname"), obj.str("number"))
	case obj.has("number") && obj.has("across"):
		list := dirDown
		if obj.boolean("across", false) {
			list = dirAcross
		}
		return clueIDByNumber(p, list, obj.str("number"))
	}
	return nil, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "cannot decode clue id %v", v)
}

func clueIDByNumber(p *puz.Puzzle, list, number string) (*puz.ClueID, error) {
	l := p.Clues(list)
	if l == nil {
		return nil, cwerrors.New(cwerrors.ErrCodeUnresolvedReference, "clue id names unknown list %q", list)
	}
	index := l.ClueIndex(number)
	if index == puz.NoIndex {
		return nil, cwerrors.New(cwerrors.ErrCodeUnresolvedReference, "no clue %s in list %q", number, list)
	}
	return &puz.ClueID{List: list, Index: index}, nil
}

// =============================================================================
// Writing
// =============================================================================

type clueJSON struct {
	Number string   `json:"number,omitempty"`
	Label  string   `json:"label,omitempty"`
	Clue   string   `json:"clue"`
	Cells  [][2]int `json:"cells,omitempty"`
}

// clueLists encodes every list under the key that lets a reader rebuild
// it: Across or Down when the zones follow from the grid, Zones when every
// clue has cells, Clues otherwise.
func clueLists(p *puz.Puzzle) map[string][]any {
	out := make(map[string][]any)
	for _, name := range p.ClueListNames() {
		list := p.Clues(name)
		var dir string
		switch {
		case p.IsDirectionList(list, puz.Across):
			dir = dirAcross
		case p.IsDirectionList(list, puz.Down):
			dir = dirDown
		case isZonesList(list):
			dir = dirZones
		default:
			dir = dirClues
		}
		key := name
		if name != dir {
			key = dir + ":" + name
		}
		grid := dir == dirAcross || dir == dirDown

		entries := make([]any, 0, list.Len())
		for _, c := range list.Clues() {
			entries = append(entries, clueValue(c, dir == dirZones || (!grid && c.HasZone())))
		}
		out[key] = entries
	}
	return out
}

func isZonesList(list *puz.ClueList) bool {
	if list.Len() == 0 {
		return false
	}
	for _, c := range list.Clues() {
		if !c.HasZone() {
			return false
		}
	}
	return true
}

func clueValue(c puz.Clue, withZone bool) any {
	if withZone || c.HasLabel() {
		out := clueJSON{Number: c.Number, Label: c.Label, Clue: c.Hint}
		for _, pos := range c.Zone {
			out.Cells = append(out.Cells, [2]int{pos.Col, pos.Row})
		}
		return out
	}
	if c.HasNumber() {
		return []string{c.Number, c.Hint}
	}
	return c.Hint
}
