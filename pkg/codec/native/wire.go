package native

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
)

// Charset is the declared string encoding of a file.
type Charset byte

const (
	CharsetUTF8   Charset = 0
	CharsetLatin1 Charset = 1
)

func (c Charset) String() string {
	switch c {
	case CharsetUTF8:
		return "UTF-8"
	case CharsetLatin1:
		return "ISO-8859-1"
	default:
		return "unknown"
	}
}

const (
	maxStringLen = 1 << 20
	maxCount     = 1 << 16
)

// decoder reads primitives, remembering the first failure so callers can
// read a whole record and check once.
type decoder struct {
	r       *bufio.Reader
	charset Charset
	err     error
}

func newDecoder(r io.Reader) *decoder {
	return &decoder{r: bufio.NewReader(r)}
}

func (d *decoder) fail(code cwerrors.Code, format string, args ...any) {
	if d.err == nil {
		d.err = cwerrors.New(code, format, args...)
	}
}

func (d *decoder) ioFail(err error, what string) {
	if d.err != nil {
		return
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		d.err = cwerrors.New(cwerrors.ErrCodeInvalidFormat, "truncated data reading %s", what)
		return
	}
	d.err = cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "read %s", what)
}

func (d *decoder) u8(what string) byte {
	if d.err != nil {
		return 0
	}
	b, err := d.r.ReadByte()
	if err != nil {
		d.ioFail(err, what)
	}
	return b
}

func (d *decoder) flag(what string) bool {
	switch b := d.u8(what); b {
	case 0:
		return false
	case 1:
		return true
	default:
		d.fail(cwerrors.ErrCodeInvalidFormat, "%s: bad flag byte %d", what, b)
		return false
	}
}

// uint reads an unsigned varint no larger than limit.
func (d *decoder) uvarint(what string, limit int) int {
	if d.err != nil {
		return 0
	}
	v, err := binary.ReadUvarint(d.r)
	if err != nil {
		d.ioFail(err, what)
		return 0
	}
	if v > uint64(limit) {
		d.fail(cwerrors.ErrCodeInvalidFormat, "%s: %d exceeds %d", what, v, limit)
		return 0
	}
	return int(v)
}

func (d *decoder) varint(what string) int64 {
	if d.err != nil {
		return 0
	}
	v, err := binary.ReadVarint(d.r)
	if err != nil {
		d.ioFail(err, what)
	}
	return v
}

func (d *decoder) str(what string) string {
	if !d.flag(what) {
		return ""
	}
	n := d.uvarint(what, maxStringLen)
	if d.err != nil {
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		d.ioFail(err, what)
		return ""
	}
	return d.decodeText(buf, what)
}

// cstring reads a null-terminated string.
func (d *decoder) cstr(what string) string {
	if d.err != nil {
		return ""
	}
	buf, err := d.r.ReadBytes(0)
	if err != nil {
		d.ioFail(err, what)
		return ""
	}
	return d.decodeText(buf[:len(buf)-1], what)
}

func (d *decoder) decodeText(buf []byte, what string) string {
	switch d.charset {
	case CharsetLatin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(buf)
		if err != nil {
			d.fail(cwerrors.ErrCodeInvalidFormat, "%s: %v", what, err)
			return ""
		}
		return string(out)
	default:
		if !utf8.Valid(buf) {
			d.fail(cwerrors.ErrCodeInvalidFormat, "%s: invalid UTF-8", what)
			return ""
		}
		return string(buf)
	}
}

// encoder accumulates a file in memory; Write emits it in one call.
type encoder struct {
	buf     bytes.Buffer
	charset Charset
	err     error
}

func (e *encoder) u8(b byte) { e.buf.WriteByte(b) }

func (e *encoder) flag(v bool) {
	if v {
		e.u8(1)
	} else {
		e.u8(0)
	}
}

func (e *encoder) uvarint(v int) {
	e.buf.Write(binary.AppendUvarint(nil, uint64(v)))
}

func (e *encoder) varint(v int64) {
	e.buf.Write(binary.AppendVarint(nil, v))
}

func (e *encoder) str(s string) {
	if s == "" {
		e.flag(false)
		return
	}
	b := e.encodeText(s)
	e.flag(true)
	e.uvarint(len(b))
	e.buf.Write(b)
}

func (e *encoder) cstr(s string) {
	e.buf.Write(e.encodeText(s))
	e.u8(0)
}

func (e *encoder) encodeText(s string) []byte {
	if e.charset != CharsetLatin1 {
		return []byte(s)
	}
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil && e.err == nil {
		e.err = cwerrors.Wrap(cwerrors.ErrCodeInvalidInput, err, "cannot encode %q as %s", s, e.charset)
	}
	return []byte(out)
}
