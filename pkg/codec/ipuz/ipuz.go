package ipuz

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/matzehuels/crosswire/pkg/codec"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz"
)

const (
	// Namespace prefixes the extension fields this package writes.
	Namespace = "io.github.matzehuels.crosswire"
	// LegacyNamespace is read as an alias of Namespace.
	LegacyNamespace = "app.crossword.yourealwaysbe"
	// IOVersion is the extension version written.
	IOVersion = 3
)

// Codec reads and writes IPuz.
type Codec struct{}

var _ codec.Codec = Codec{}

func (Codec) Format() codec.Format { return codec.FormatIPuz }

func (Codec) Extensions() []string { return []string{".ipuz"} }

// Detect looks for a JSON object mentioning ipuz.org.
func (Codec) Detect(head []byte) bool {
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.TrimLeft(head, " \t\r\n")
	return bytes.HasPrefix(head, []byte("{")) && bytes.Contains(head, []byte("ipuz.org"))
}

func (Codec) Parse(r io.Reader) (*puz.Puzzle, error) {
	doc, err := decode(r)
	if err != nil {
		return nil, codec.Wrap(codec.FormatIPuz, err, "decode")
	}
	p, err := doc.puzzle()
	if err != nil {
		return nil, codec.Wrap(codec.FormatIPuz, err, "read puzzle")
	}
	return p, nil
}

func (Codec) Write(w io.Writer, p *puz.Puzzle, opts codec.Options) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(encodeDocument(p, opts)); err != nil {
		return codec.Wrap(codec.FormatIPuz, cwerrors.Wrap(cwerrors.ErrCodeInternal, err, "encode"), "write")
	}
	return nil
}
