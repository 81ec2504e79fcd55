package ipuz

import (
	"time"

	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/markup"
	"github.com/matzehuels/crosswire/pkg/puz"
)

// extensions reads the namespaced fields. Clue lists must be complete.
func (d *document) extensions(p *puz.Puzzle) error {
	r := d.root
	p.SupportURL = r.extStr("supporturl")
	p.ShareURL = r.extStr("shareurl")

	if v, ok := r.ext("images"); ok {
		list, ok := v.([]any)
		if !ok {
			return cwerrors.New(cwerrors.ErrCodeInvalidFormat, "images is not an array")
		}
		for i, item := range list {
			img, err := readImage(item)
			if err != nil {
				return cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "image %d", i)
			}
			p.Images = append(p.Images, img)
		}
	}

	pinned, _ := r.ext("pinnedClueID")
	id, err := decodeClueID(pinned, p)
	if err != nil {
		return err
	}
	p.PinnedClue = id

	if play, ok := r.extObj("playdata"); ok {
		return readPlayData(play, p)
	}
	return nil
}

func readImage(v any) (puz.PuzImage, error) {
	obj, ok := asObject(v)
	if !ok {
		return puz.PuzImage{}, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "not an object")
	}
	url := obj.extStr("url")
	if url == "" {
		return puz.PuzImage{}, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "missing url")
	}
	img := puz.PuzImage{URL: url}
	for _, f := range []struct {
		key string
		dst *int
	}{
		{"row", &img.Row},
		{"col", &img.Col},
		{"width", &img.Width},
		{"height", &img.Height},
	} {
		v, _ := obj.ext(f.key)
		n, ok := toInt(v)
		if !ok {
			return puz.PuzImage{}, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "missing %s", f.key)
		}
		*f.dst = n
	}
	return img, nil
}

func readPlayData(play object, p *puz.Puzzle) error {
	readBoxExtras(play, p)
	if err := readPosition(play, p); err != nil {
		return err
	}

	history, err := clueIDList(play, "cluehistory", p)
	if err != nil {
		return err
	}
	p.SetHistory(history)

	notes, _ := play.arr("cluenotes")
	for _, item := range notes {
		obj, ok := asObject(item)
		if !ok {
			return cwerrors.New(cwerrors.ErrCodeInvalidFormat, "clue note %v is not an object", item)
		}
		id, err := decodeClueID(obj["clue"], p)
		if err != nil {
			return err
		}
		if id != nil {
			p.SetNote(*id, readNote(obj))
		}
	}
	if obj, ok := play.obj("playernote"); ok {
		p.PlayerNote = readNote(obj)
	}

	flagged, err := clueIDList(play, "flaggedclues", p)
	if err != nil {
		return err
	}
	for _, id := range flagged {
		p.FlagClue(id, true)
	}

	if ms, ok := play.integer("completiontime"); ok {
		p.Time = time.Duration(ms) * time.Millisecond
	}
	return nil
}

func readBoxExtras(play object, p *puz.Puzzle) {
	rows, _ := play.arr("boxextras")
	for row := range min(len(rows), p.Height()) {
		cols, _ := rows[row].([]any)
		for col := range min(len(cols), p.Width()) {
			box := p.Box(puz.Position{Row: row, Col: col})
			extra, ok := asObject(cols[col])
			if box.IsBlock() || !ok {
				continue
			}
			box.Cheated = extra.boolean("cheated", box.Cheated)
			if extra.has("responder") {
				box.Responder = extra.str("responder")
			}
		}
	}
}

// readPosition reads the cursor. Old files give the direction as an
// across flag instead of a clue id. A current clue without a cursor is
// kept under currentclue.
func readPosition(play object, p *puz.Puzzle) error {
	obj, ok := play.obj("position")
	if !ok {
		return readCurrentClue(play, p)
	}
	row, okR := obj.integer("row")
	col, okC := obj.integer("col")
	if !okR || !okC {
		return readCurrentClue(play, p)
	}
	pos := puz.Position{Row: row, Col: col}
	if p.InBounds(pos) {
		p.Position = &pos
	}

	if obj.has("across") {
		list := dirDown
		if obj.boolean("across", false) {
			list = dirAcross
		}
		p.CurrentClue = nil
		if box := p.Box(pos); !puz.IsBlock(box) {
			if id, ok := box.ClueIn(list); ok {
				p.CurrentClue = &id
			}
		}
		return nil
	}
	id, err := decodeClueID(obj["clueid"], p)
	if err != nil {
		return err
	}
	p.CurrentClue = id
	return nil
}

func readCurrentClue(play object, p *puz.Puzzle) error {
	if !play.has("currentclue") {
		return nil
	}
	id, err := decodeClueID(play["currentclue"], p)
	if err != nil {
		return err
	}
	p.CurrentClue = id
	return nil
}

func clueIDList(play object, key string, p *puz.Puzzle) ([]puz.ClueID, error) {
	items, _ := play.arr(key)
	var out []puz.ClueID
	for _, item := range items {
		id, err := decodeClueID(item, p)
		if err != nil {
			return nil, err
		}
		if id != nil {
			out = append(out, *id)
		}
	}
	return out, nil
}

func readNote(obj object) puz.Note {
	return puz.Note{
		Scratch:         obj.str("scratch"),
		Text:            markup.Strip(obj.str("text")),
		AnagramSource:   obj.str("anagramsource"),
		AnagramSolution: obj.str("anagramsolution"),
	}
}

// =============================================================================
// Writing
// =============================================================================

type playDataJSON struct {
	BoxExtras       [][]boxExtraJSON `json:"boxextras,omitempty"`
	Position        *positionJSON    `json:"position,omitempty"`
	CurrentClue     *clueIDJSON      `json:"currentclue,omitempty"`
	ClueHistory     []clueIDJSON     `json:"cluehistory,omitempty"`
	ClueNotes       []clueNoteJSON   `json:"cluenotes"`
	PlayerNote      *noteJSON        `json:"playernote,omitempty"`
	FlaggedClues    []clueIDJSON     `json:"flaggedclues"`
	CompletionTime  int64            `json:"completiontime"`
	PercentFilled   int              `json:"percentfilled"`
	PercentComplete int              `json:"percentcomplete"`
}

type boxExtraJSON struct {
	Cheated   bool   `json:"cheated,omitempty"`
	Responder string `json:"responder,omitempty"`
}

type positionJSON struct {
	Row    int         `json:"row"`
	Col    int         `json:"col"`
	ClueID *clueIDJSON `json:"clueid,omitempty"`
}

type noteJSON struct {
	Scratch         string `json:"scratch,omitempty"`
	Text            string `json:"text,omitempty"`
	AnagramSource   string `json:"anagramsource,omitempty"`
	AnagramSolution string `json:"anagramsolution,omitempty"`
}

type clueNoteJSON struct {
	Clue clueIDJSON `json:"clue"`
	noteJSON
}

func toNoteJSON(n puz.Note) noteJSON {
	return noteJSON{
		Scratch:         n.Scratch,
		Text:            markup.Apply(n.Text),
		AnagramSource:   n.AnagramSource,
		AnagramSolution: n.AnagramSolution,
	}
}

func playData(p *puz.Puzzle) *playDataJSON {
	out := &playDataJSON{
		BoxExtras:       boxExtras(p),
		ClueNotes:       []clueNoteJSON{},
		FlaggedClues:    []clueIDJSON{},
		CompletionTime:  p.Time.Milliseconds(),
		PercentFilled:   p.PercentFilled(),
		PercentComplete: p.PercentComplete(),
	}
	if p.Position != nil {
		out.Position = &positionJSON{Row: p.Position.Row, Col: p.Position.Col, ClueID: toClueIDJSON(p.CurrentClue)}
	} else {
		out.CurrentClue = toClueIDJSON(p.CurrentClue)
	}
	for _, id := range p.History() {
		out.ClueHistory = append(out.ClueHistory, *toClueIDJSON(&id))
	}
	for _, id := range p.NoteIDs() {
		n, _ := p.Note(id)
		out.ClueNotes = append(out.ClueNotes, clueNoteJSON{Clue: *toClueIDJSON(&id), noteJSON: toNoteJSON(n)})
	}
	if !p.PlayerNote.IsEmpty() {
		n := toNoteJSON(p.PlayerNote)
		out.PlayerNote = &n
	}
	for _, id := range p.FlaggedClues() {
		out.FlaggedClues = append(out.FlaggedClues, *toClueIDJSON(&id))
	}
	return out
}

// boxExtras is nil unless some cell was cheated on or has a responder.
func boxExtras(p *puz.Puzzle) [][]boxExtraJSON {
	found := false
	out := make([][]boxExtraJSON, p.Height())
	for row := range out {
		out[row] = make([]boxExtraJSON, p.Width())
		for col := range out[row] {
			box := p.Box(puz.Position{Row: row, Col: col})
			if box.IsBlock() {
				continue
			}
			out[row][col] = boxExtraJSON{Cheated: box.Cheated, Responder: box.Responder}
			found = found || box.Cheated || box.HasResponder()
		}
	}
	if !found {
		return nil
	}
	return out
}
