package jpz

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/crosswire/pkg/codec/ipuz"
	"github.com/matzehuels/crosswire/pkg/puz"
)

const (
	compilerNS = "http://crossword.info/xml/crossword-compiler"
	puzzleNS   = "http://crossword.info/xml/rectangular-puzzle"
)

type documentXML struct {
	XMLName xml.Name  `xml:"crossword-compiler"`
	XMLNS   string    `xml:"xmlns,attr"`
	Puzzle  puzzleXML `xml:"rectangular-puzzle"`
}

type puzzleXML struct {
	XMLNS        string      `xml:"xmlns,attr"`
	Metadata     metadataXML `xml:"metadata"`
	Instructions string      `xml:"instructions,omitempty"`
	Completion   string      `xml:"completion,omitempty"`
	Crossword    *bodyXML    `xml:"crossword,omitempty"`
	Acrostic     *bodyXML    `xml:"acrostic,omitempty"`
}

type metadataXML struct {
	Title       string `xml:"title,omitempty"`
	Creator     string `xml:"creator,omitempty"`
	Copyright   string `xml:"copyright,omitempty"`
	Publisher   string `xml:"publisher,omitempty"`
	Description string `xml:"description,omitempty"`
}

type bodyXML struct {
	Grid  gridXML    `xml:"grid"`
	Words []wordXML  `xml:"word"`
	Clues []cluesXML `xml:"clues"`
}

type gridXML struct {
	Width  int       `xml:"width,attr"`
	Height int       `xml:"height,attr"`
	Cells  []cellXML `xml:"cell"`
}

type cellXML struct {
	X          int        `xml:"x,attr"`
	Y          int        `xml:"y,attr"`
	Type       string     `xml:"type,attr,omitempty"`
	Solution   string     `xml:"solution,attr,omitempty"`
	SolveState string     `xml:"solve-state,attr,omitempty"`
	Number     string     `xml:"number,attr,omitempty"`
	Shape      string     `xml:"background-shape,attr,omitempty"`
	Color      string     `xml:"background-color,attr,omitempty"`
	TopBar     string     `xml:"top-bar,attr,omitempty"`
	BottomBar  string     `xml:"bottom-bar,attr,omitempty"`
	LeftBar    string     `xml:"left-bar,attr,omitempty"`
	RightBar   string     `xml:"right-bar,attr,omitempty"`
	Marks      []xml.Attr `xml:",any,attr"`
}

type wordXML struct {
	ID    string       `xml:"id,attr"`
	X     string       `xml:"x,attr,omitempty"`
	Y     string       `xml:"y,attr,omitempty"`
	Cells []cellRefXML `xml:"cells"`
}

type cellRefXML struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

type cluesXML struct {
	Ordering string    `xml:"ordering,attr"`
	Title    titleXML  `xml:"title"`
	Clues    []clueXML `xml:"clue"`
}

type titleXML struct {
	Bold string `xml:"b"`
}

type clueXML struct {
	Word   string `xml:"word,attr,omitempty"`
	Number string `xml:"number,attr,omitempty"`
	Text   string `xml:",chardata"`
}

func encodeDocument(p *puz.Puzzle) *documentXML {
	body := &bodyXML{Grid: grid(p)}
	acrostic := p.Kind == puz.KindAcrostic

	nextWord := 1
	for _, name := range p.ClueListNames() {
		list := cluesXML{Ordering: "normal", Title: titleXML{Bold: name}}
		for _, c := range p.Clues(name).Clues() {
			entry := clueXML{Number: c.Number, Text: c.Hint}
			if acrostic {
				entry.Number = c.DisplayNumber()
				if name == QuoteList {
					entry.Number, entry.Text = "", quoteMarker
				}
			}
			if c.HasZone() {
				id := strconv.Itoa(nextWord)
				nextWord++
				body.Words = append(body.Words, word(id, c.Zone))
				entry.Word = id
			}
			list.Clues = append(list.Clues, entry)
		}
		body.Clues = append(body.Clues, list)
	}

	doc := &documentXML{
		XMLNS: compilerNS,
		Puzzle: puzzleXML{
			XMLNS: puzzleNS,
			Metadata: metadataXML{
				Title:       p.Title,
				Creator:     p.Author,
				Copyright:   p.Copyright,
				Publisher:   p.Source,
				Description: p.Notes,
			},
			Instructions: p.IntroMessage,
			Completion:   p.CompletionMessage,
		},
	}
	if acrostic {
		doc.Puzzle.Acrostic = body
	} else {
		doc.Puzzle.Crossword = body
	}
	return doc
}

func grid(p *puz.Puzzle) gridXML {
	g := gridXML{Width: p.Width(), Height: p.Height()}
	for row, boxes := range p.Boxes() {
		for col := range boxes {
			g.Cells = append(g.Cells, cell(&boxes[col], row, col))
		}
	}
	return g
}

func cell(box *puz.Box, row, col int) cellXML {
	c := cellXML{X: col + 1, Y: row + 1}
	switch {
	case box.IsMissing():
		c.Type = "void"
		return c
	case box.IsBlock():
		c.Type = "block"
	default:
		c.Solution = box.Solution
	}
	c.SolveState = box.InitialValue
	c.Number = box.ClueNumber
	c.Shape = ipuz.ShapeName(box.Shape)
	if box.Color.IsSet() {
		c.Color = fmt.Sprintf("#%06x", box.Color.RGB())
	}
	c.TopBar = barAttr(box.BarTop)
	c.BottomBar = barAttr(box.BarBottom)
	c.LeftBar = barAttr(box.BarLeft)
	c.RightBar = barAttr(box.BarRight)
	for row, names := range markAttributes {
		for col, name := range names {
			if mark, ok := box.Mark(row, col); ok {
				c.Marks = append(c.Marks, xml.Attr{Name: xml.Name{Local: name}, Value: mark})
			}
		}
	}
	return c
}

func barAttr(b puz.Bar) string {
	if b == puz.BarNone {
		return ""
	}
	return "true"
}

// word writes a straight zone as a coordinate range and anything else cell
// by cell.
func word(id string, zone puz.Zone) wordXML {
	w := wordXML{ID: id}
	if x, y, ok := asRange(zone); ok {
		w.X, w.Y = x, y
		return w
	}
	for _, pos := range zone {
		w.Cells = append(w.Cells, cellRefXML{X: pos.Col + 1, Y: pos.Row + 1})
	}
	return w
}

// asRange reports whether zone is a run of single steps in one direction,
// and if so gives it as JPZ coordinates.
func asRange(zone puz.Zone) (x, y string, ok bool) {
	if len(zone) == 0 {
		return "", "", false
	}
	first, last := zone[0], zone[len(zone)-1]
	if len(zone) > 1 {
		dRow, dCol := zone[1].Row-first.Row, zone[1].Col-first.Col
		if dRow < -1 || dRow > 1 || dCol < -1 || dCol > 1 || (dRow == 0 && dCol == 0) {
			return "", "", false
		}
		for i := 1; i < len(zone); i++ {
			if zone[i].Row-zone[i-1].Row != dRow || zone[i].Col-zone[i-1].Col != dCol {
				return "", "", false
			}
		}
	}
	return span(first.Col, last.Col), span(first.Row, last.Row), true
}

func span(from, to int) string {
	if from == to {
		return strconv.Itoa(from + 1)
	}
	return strconv.Itoa(from+1) + "-" + strconv.Itoa(to+1)
}
