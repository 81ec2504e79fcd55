package jpz

import (
	"slices"
	"strings"

	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz"
)

const (
	// QuoteList is the list an acrostic's quote clue is read into.
	QuoteList = "Quote"
	quoteHint = "Quote"
	// quoteMarker is the text of the clue spanning an acrostic quote.
	quoteMarker = "[QUOTE]"
)

// puzzle turns the parsed document into a puzzle. Documents that look like
// acrostics but have no usable quote clue are read as crosswords.
func (p *parser) puzzle() (*puz.Puzzle, error) {
	if p.acrostic || p.quoteClue() >= 0 {
		pz, ok, err := p.buildAcrostic()
		if err != nil {
			return nil, err
		}
		if ok {
			return pz, nil
		}
	}
	return p.buildCrossword()
}

func (p *parser) buildCrossword() (*puz.Puzzle, error) {
	b, err := puz.NewBuilder(p.boxes)
	if err != nil {
		return nil, err
	}
	for _, c := range p.clues {
		zone, err := p.zone(c)
		if err != nil {
			return nil, err
		}
		if _, err := b.AddClue(c.list, c.number, "", c.hint, zone); err != nil {
			return nil, err
		}
	}
	pz := b.Build()
	p.setMetadata(pz)
	return pz, nil
}

func (p *parser) zone(c clueEntry) (puz.Zone, error) {
	if c.word == "" {
		return nil, nil
	}
	zone, ok := p.zones[c.word]
	if !ok {
		return nil, cwerrors.New(cwerrors.ErrCodeUnresolvedReference,
			"clue %s %q refers to unknown word %q", c.list, c.number, c.word)
	}
	return zone, nil
}

func (p *parser) setMetadata(pz *puz.Puzzle) {
	pz.Title = p.meta["title"]
	pz.Author = p.meta["creator"]
	pz.Copyright = p.meta["copyright"]
	pz.Source = p.meta["publisher"]
	pz.Notes = p.meta["description"]
	pz.IntroMessage = p.meta["instructions"]
	pz.CompletionMessage = p.completion()
}

// completion appends the clue citations, grouped by list, to the
// completion text.
func (p *parser) completion() string {
	cited := make(map[string]*strings.Builder)
	for _, c := range p.clues {
		if c.citation == "" {
			continue
		}
		sb := cited[c.list]
		if sb == nil {
			sb = new(strings.Builder)
			cited[c.list] = sb
		}
		sb.WriteString("<p>" + c.number + ": " + c.citation + "</p>")
	}

	msg := p.meta["completion"]
	if len(cited) == 0 {
		return msg
	}
	var out strings.Builder
	if msg != "" {
		out.WriteString(msg + "<br/>")
	}
	lists := make([]string, 0, len(cited))
	for name := range cited {
		lists = append(lists, name)
	}
	slices.Sort(lists)
	for _, name := range lists {
		out.WriteString("<h1>" + name + "</h1>" + cited[name].String())
	}
	return out.String()
}

// ---------------------------------------------------------------------------
// Acrostics
// ---------------------------------------------------------------------------

// quoteClue returns the index of the last quote clue, or -1.
func (p *parser) quoteClue() int {
	for i := len(p.clues) - 1; i >= 0; i-- {
		if isQuoteClue(p.clues[i]) {
			return i
		}
	}
	return -1
}

func isQuoteClue(c clueEntry) bool {
	return c.number == "" && strings.EqualFold(c.hint, quoteMarker)
}

// buildAcrostic reads the document as an acrostic. ok is false, with no
// error, when no quote rows can be found.
func (p *parser) buildAcrostic() (pz *puz.Puzzle, ok bool, err error) {
	i := p.quoteClue()
	if i < 0 {
		return nil, false, nil
	}
	quote, err := p.zone(p.clues[i])
	if err != nil || len(quote) == 0 {
		return nil, false, err
	}
	lastRow := -1
	for _, pos := range quote {
		lastRow = max(lastRow, pos.Row)
	}
	if lastRow < 0 {
		return nil, false, nil
	}
	if lastRow >= p.height {
		return nil, false, cwerrors.New(cwerrors.ErrCodeStructural,
			"quote reaches row %d of a %d row grid", lastRow+1, p.height)
	}

	grid := make([][]puz.Box, lastRow+1)
	for row := range grid {
		grid[row] = slices.Clone(p.boxes[row])
	}
	b, err := puz.NewBuilder(grid)
	if err != nil {
		return nil, false, err
	}

	for _, c := range p.clues {
		if isQuoteClue(c) {
			zone, err := p.zone(c)
			if err != nil {
				return nil, false, err
			}
			if _, err := b.AddClue(QuoteList, "", "", quoteHint, zone); err != nil {
				return nil, false, err
			}
			continue
		}
		zone, err := p.linkZone(b, c, lastRow)
		if err != nil {
			return nil, false, err
		}
		if _, err := b.AddClue(c.list, "", c.number, c.hint, zone); err != nil {
			return nil, false, err
		}
	}

	pz = b.Build()
	pz.Kind = puz.KindAcrostic
	p.setMetadata(pz)
	return pz, true, nil
}

// linkZone maps an answer key zone onto the quote: each key cell carries
// the number of the quote cell it fills. Cells within the quote rows
// (up to lastRow) are quote cells already and are kept as they are.
func (p *parser) linkZone(b *puz.Builder, c clueEntry, lastRow int) (puz.Zone, error) {
	key, err := p.zone(c)
	if err != nil {
		return nil, err
	}
	linkErr := func(format string, args ...any) error {
		return cwerrors.New(cwerrors.ErrCodeLinkage, "clue %s %q: "+format,
			append([]any{c.list, c.number}, args...)...)
	}

	var direct puz.Zone
	for _, pos := range key {
		if pos.Row < 0 || pos.Row >= p.height || pos.Col < 0 || pos.Col >= p.width {
			return nil, linkErr("position %v is outside the grid", pos)
		}
		box := &p.boxes[pos.Row][pos.Col]
		if box.IsBlock() {
			return nil, linkErr("position %v is a block", pos)
		}
		if pos.Row <= lastRow {
			direct = append(direct, pos)
			continue
		}
		if !box.HasClueNumber() {
			return nil, linkErr("position %v has no number linking it to the quote", pos)
		}
		target, ok := b.NumberPosition(box.ClueNumber)
		if !ok {
			return nil, linkErr("number %s at %v is not in the quote", box.ClueNumber, pos)
		}
		direct = append(direct, target)
	}
	return direct, nil
}
