package ipuz

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/crosswire/pkg/codec"
	"github.com/matzehuels/crosswire/pkg/puz"
)

const (
	writeVersion       = versionV2
	writeKindCrossword = kindCrossword + "#1"
	writeKindAcrostic  = kindAcrostic + "#1"
	writeEmpty         = 0
)

// field is one member of an orderedObject.
type field struct {
	key   string
	value any
}

// orderedObject marshals its fields in the order given, so files keep
// the familiar header-first layout.
type orderedObject []field

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(f.key); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(':')
		if err := enc.Encode(f.value); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type cellJSON struct {
	Style *styleJSON `json:"style,omitempty"`
	Value string     `json:"value,omitempty"`
	Cell  any        `json:"cell"`
}

type dimensionsJSON struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func encodeDocument(p *puz.Puzzle, opts codec.Options) orderedObject {
	kind := writeKindCrossword
	if p.Kind == puz.KindAcrostic {
		kind = writeKindAcrostic
	}
	doc := orderedObject{
		{"version", writeVersion},
		{"kind", []string{kind}},
	}
	meta := func(key, value string) {
		if value != "" {
			doc = append(doc, field{key, value})
		}
	}
	meta("title", p.Title)
	meta("author", p.Author)
	meta("copyright", p.Copyright)
	meta("publisher", p.Source)
	meta("url", p.SourceURL)
	meta("intro", p.IntroMessage)
	meta("explanation", p.CompletionMessage)
	meta("notes", p.Notes)
	if !p.Date.IsZero() {
		meta("date", p.Date.Format(dateLayout))
	}

	doc = append(doc,
		field{"dimensions", dimensionsJSON{Width: p.Width(), Height: p.Height()}},
		field{"puzzle", puzzleCells(p)},
	)
	if !opts.OmitPlayState {
		doc = append(doc, field{"saved", savedCells(p)})
	}
	if p.HasSolution() {
		doc = append(doc, field{"solution", solutionCells(p)})
	}
	doc = append(doc, field{"clues", clueLists(p)})

	doc = append(doc, field{"volatile", map[string]string{
		Namespace + ":playdata":   "*",
		Namespace + ":supporturl": "",
		Namespace + ":shareurl":   "",
		Namespace + ":ioversion":  "",
		Namespace + ":images":     "",
	}})
	ext := func(name string, value any) {
		doc = append(doc, field{Namespace + ":" + name, value})
	}
	if p.SupportURL != "" {
		ext("supporturl", p.SupportURL)
	}
	if p.ShareURL != "" {
		ext("shareurl", p.ShareURL)
	}
	if p.PinnedClue != nil {
		ext("pinnedClueID", toClueIDJSON(p.PinnedClue))
	}
	ext("ioversion", IOVersion)
	if len(p.Images) > 0 {
		ext("images", images(p.Images))
	}
	if !opts.OmitPlayState {
		ext("playdata", playData(p))
	}
	return doc
}

// puzzleCells writes each cell as "#", a clue number, the empty token, or
// an object when it carries a style or an initial value.
func puzzleCells(p *puz.Puzzle) [][]any {
	out := make([][]any, p.Height())
	for row := range out {
		out[row] = make([]any, p.Width())
		for col := range out[row] {
			box := p.Box(puz.Position{Row: row, Col: col})
			if box.IsMissing() {
				out[row][col] = defaultBlock
				continue
			}
			var contents any = writeEmpty
			switch {
			case box.IsBlock():
				contents = defaultBlock
			case box.HasClueNumber():
				contents = box.ClueNumber
			}
			if !hasCellStyle(box) && !box.HasInitialValue() {
				out[row][col] = contents
				continue
			}
			cell := cellJSON{Style: styleOf(box), Cell: contents}
			if !box.IsBlock() {
				cell.Value = box.InitialValue
			}
			out[row][col] = cell
		}
	}
	return out
}

func savedCells(p *puz.Puzzle) [][]any {
	out := make([][]any, p.Height())
	for row := range out {
		out[row] = make([]any, p.Width())
		for col := range out[row] {
			box := p.Box(puz.Position{Row: row, Col: col})
			switch {
			case box.IsBlock():
				out[row][col] = defaultBlock
			case box.IsBlank():
				out[row][col] = writeEmpty
			default:
				out[row][col] = box.Response
			}
		}
	}
	return out
}

func solutionCells(p *puz.Puzzle) [][]any {
	out := make([][]any, p.Height())
	for row := range out {
		out[row] = make([]any, p.Width())
		for col := range out[row] {
			box := p.Box(puz.Position{Row: row, Col: col})
			switch {
			case box.IsBlock():
				out[row][col] = defaultBlock
			case box.HasSolution():
				out[row][col] = box.Solution
			}
		}
	}
	return out
}

func images(imgs []puz.PuzImage) []map[string]any {
	out := make([]map[string]any, len(imgs))
	for i, img := range imgs {
		out[i] = map[string]any{
			Namespace + ":url":    img.URL,
			Namespace + ":row":    img.Row,
			Namespace + ":col":    img.Col,
			Namespace + ":width":  img.Width,
			Namespace + ":height": img.Height,
		}
	}
	return out
}
