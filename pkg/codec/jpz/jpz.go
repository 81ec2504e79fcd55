package jpz

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path"
	"strings"

	"github.com/matzehuels/crosswire/pkg/codec"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz"
)

const maxInput = 64 << 20

var zipMagic = []byte("PK\x03\x04")

// Codec reads and writes JPZ.
type Codec struct{}

var _ codec.Codec = Codec{}

func (Codec) Format() codec.Format { return codec.FormatJPZ }

func (Codec) Extensions() []string { return []string{".jpz", ".xml"} }

// Detect accepts zip archives, as .jpz files usually are, and XML naming a
// crossword-compiler or rectangular-puzzle element.
func (Codec) Detect(head []byte) bool {
	if bytes.HasPrefix(head, zipMagic) {
		return true
	}
	lower := bytes.ToLower(head)
	return bytes.Contains(lower, []byte("<crossword-compiler")) ||
		bytes.Contains(lower, []byte("<rectangular-puzzle"))
}

func (Codec) Parse(r io.Reader) (*puz.Puzzle, error) {
	data, err := readDocument(r)
	if err != nil {
		return nil, codec.Wrap(codec.FormatJPZ, err, "read")
	}
	p := newParser()
	if err := p.parse(bytes.NewReader(data)); err != nil {
		return nil, codec.Wrap(codec.FormatJPZ, err, "parse")
	}
	pz, err := p.puzzle()
	if err != nil {
		return nil, codec.Wrap(codec.FormatJPZ, err, "build puzzle")
	}
	return pz, nil
}

// Write encodes p. JPZ carries no play state, so opts changes nothing.
func (Codec) Write(w io.Writer, p *puz.Puzzle, _ codec.Options) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return codec.Wrap(codec.FormatJPZ, cwerrors.Wrap(cwerrors.ErrCodeInternal, err, "write header"), "write")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(encodeDocument(p)); err != nil {
		return codec.Wrap(codec.FormatJPZ, cwerrors.Wrap(cwerrors.ErrCodeInternal, err, "encode"), "write")
	}
	if err := enc.Close(); err != nil {
		return codec.Wrap(codec.FormatJPZ, cwerrors.Wrap(cwerrors.ErrCodeInternal, err, "flush"), "write")
	}
	return nil
}

// readDocument returns the XML bytes, unzipping when needed.
func readDocument(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInput+1))
	if err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidInput, err, "read input")
	}
	if len(data) > maxInput {
		return nil, cwerrors.New(cwerrors.ErrCodeInvalidInput, "input larger than %d bytes", maxInput)
	}
	if !bytes.HasPrefix(data, zipMagic) {
		return data, nil
	}
	return unzip(data)
}

// unzip returns the puzzle inside a .jpz archive: the first entry with a
// .jpz or .xml name, else the first file.
func unzip(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "open zip")
	}
	var pick *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(f.Name))
		if ext == ".jpz" || ext == ".xml" {
			pick = f
			break
		}
		if pick == nil {
			pick = f
		}
	}
	if pick == nil {
		return nil, cwerrors.New(cwerrors.ErrCodeInvalidFormat, "zip holds no files")
	}
	rc, err := pick.Open()
	if err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "open %s", pick.Name)
	}
	defer rc.Close()
	out, err := io.ReadAll(io.LimitReader(rc, maxInput+1))
	if err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "unzip %s", pick.Name)
	}
	if len(out) > maxInput {
		return nil, cwerrors.New(cwerrors.ErrCodeInvalidInput, "%s larger than %d bytes", pick.Name, maxInput)
	}
	return out, nil
}
