package jpz

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/matzehuels/crosswire/pkg/codec"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/markup"
)

// Summary is what Peek learns about a document without building a puzzle.
type Summary struct {
	Title     string   `json:"title,omitempty"`
	Creator   string   `json:"creator,omitempty"`
	Copyright string   `json:"copyright,omitempty"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Acrostic  bool     `json:"acrostic"`
	Clues     int      `json:"clues"`
	Lists     []string `json:"lists"`
}

var (
	exprPuzzle    = xpath.MustCompile(`//*[local-name()='rectangular-puzzle']`)
	exprTitle     = xpath.MustCompile(`//*[local-name()='metadata']/*[local-name()='title']`)
	exprCreator   = xpath.MustCompile(`//*[local-name()='metadata']/*[local-name()='creator']`)
	exprCopyright = xpath.MustCompile(`//*[local-name()='metadata']/*[local-name()='copyright']`)
	exprGrid      = xpath.MustCompile(`//*[local-name()='grid']`)
	exprAcrostic  = xpath.MustCompile(`boolean(//*[local-name()='acrostic'])`)
	exprClueCount = xpath.MustCompile(`count(//*[local-name()='clues']/*[local-name()='clue'])`)
	exprListTitle = xpath.MustCompile(`//*[local-name()='clues']/*[local-name()='title']`)
)

// Peek reads the metadata, grid size and clue counts of a JPZ document
// with XPath queries. It is cheaper than Parse and tolerates documents
// Parse would reject for structural reasons.
func Peek(r io.Reader) (*Summary, error) {
	data, err := readDocument(r)
	if err != nil {
		return nil, codec.Wrap(codec.FormatJPZ, err, "read")
	}
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, codec.Wrap(codec.FormatJPZ, cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "parse xml"), "peek")
	}
	if xmlquery.QuerySelector(doc, exprPuzzle) == nil {
		return nil, codec.Errorf(codec.FormatJPZ, cwerrors.ErrCodeInvalidFormat, "no rectangular-puzzle element")
	}

	s := &Summary{
		Title:     innerText(doc, exprTitle),
		Creator:   innerText(doc, exprCreator),
		Copyright: innerText(doc, exprCopyright),
	}
	if g := xmlquery.QuerySelector(doc, exprGrid); g != nil {
		s.Width, _ = strconv.Atoi(g.SelectAttr("width"))
		s.Height, _ = strconv.Atoi(g.SelectAttr("height"))
	}
	nav := xmlquery.CreateXPathNavigator(doc)
	if v, ok := exprAcrostic.Evaluate(nav).(bool); ok {
		s.Acrostic = v
	}
	if v, ok := exprClueCount.Evaluate(xmlquery.CreateXPathNavigator(doc)).(float64); ok {
		s.Clues = int(v)
	}
	for _, n := range xmlquery.QuerySelectorAll(doc, exprListTitle) {
		s.Lists = append(s.Lists, strings.TrimSpace(markup.Strip(n.InnerText())))
	}
	return s, nil
}

func innerText(doc *xmlquery.Node, expr *xpath.Expr) string {
	n := xmlquery.QuerySelector(doc, expr)
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.InnerText())
}
