package native

import (
	"bytes"
	"io"

	"github.com/matzehuels/crosswire/pkg/codec"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz"
)

var magic = []byte("XWPZ")

// Codec reads and writes the native format. The zero value writes UTF-8.
type Codec struct {
	// Charset is used for strings when writing. Reading always follows
	// the charset declared in the file.
	Charset Charset
}

var _ codec.Codec = Codec{}

func (Codec) Format() codec.Format { return codec.FormatNative }

func (Codec) Extensions() []string { return []string{".xwpz"} }

func (Codec) Detect(head []byte) bool { return bytes.HasPrefix(head, magic) }

// Parse decodes a file of any known version.
func (Codec) Parse(r io.Reader) (*puz.Puzzle, error) {
	d := newDecoder(r)
	version := readHeader(d)
	if d.err != nil {
		return nil, codec.Wrap(codec.FormatNative, d.err, "read header")
	}
	doc := &document{}
	for _, s := range sections[:version] {
		if err := s.read(d, doc); err != nil {
			return nil, codec.Wrap(codec.FormatNative, err, "read body")
		}
	}
	return doc.puzzle, nil
}

// Write encodes p as LatestVersion.
func (c Codec) Write(w io.Writer, p *puz.Puzzle, opts codec.Options) error {
	return c.WriteVersion(w, p, LatestVersion, opts)
}

// WriteVersion encodes p as an older version. Fields introduced by later
// versions are dropped.
func (c Codec) WriteVersion(w io.Writer, p *puz.Puzzle, version int, opts codec.Options) error {
	if version < 1 || version > LatestVersion {
		return codec.Errorf(codec.FormatNative, cwerrors.ErrCodeUnsupportedVersion,
			"cannot write version %d (supported: 1-%d)", version, LatestVersion)
	}
	if c.Charset > CharsetLatin1 {
		return codec.Errorf(codec.FormatNative, cwerrors.ErrCodeInvalidInput, "unknown charset %d", c.Charset)
	}
	if opts.OmitPlayState {
		p = p.Clone()
		p.ResetPlayState()
	}

	e := &encoder{charset: c.Charset}
	e.buf.Write(magic)
	e.u8(byte(version))
	e.u8(byte(c.Charset))
	for _, s := range sections[:version] {
		s.write(e, p)
	}
	if e.err != nil {
		return codec.Wrap(codec.FormatNative, e.err, "encode")
	}
	if _, err := w.Write(e.buf.Bytes()); err != nil {
		return codec.Wrap(codec.FormatNative, cwerrors.Wrap(cwerrors.ErrCodeInternal, err, "write"), "write")
	}
	return nil
}

// Version reads just the header and reports the file version.
func Version(r io.Reader) (int, error) {
	d := newDecoder(r)
	v := readHeader(d)
	if d.err != nil {
		return 0, codec.Wrap(codec.FormatNative, d.err, "read header")
	}
	return v, nil
}

func readHeader(d *decoder) int {
	var head [4]byte
	for i := range head {
		head[i] = d.u8("magic")
	}
	if d.err != nil {
		return 0
	}
	if !bytes.Equal(head[:], magic) {
		d.fail(cwerrors.ErrCodeInvalidFormat, "not a native puzzle file")
		return 0
	}
	version := int(d.u8("version"))
	charset := Charset(d.u8("charset"))
	if d.err != nil {
		return 0
	}
	if version < 1 || version > LatestVersion {
		d.fail(cwerrors.ErrCodeUnsupportedVersion, "unsupported version %d", version)
		return 0
	}
	if charset > CharsetLatin1 {
		d.fail(cwerrors.ErrCodeInvalidFormat, "unknown charset %d", charset)
		return 0
	}
	d.charset = charset
	return version
}
