// Package codec defines the contract shared by the puzzle file formats.
//
// Each format lives in its own subpackage (native, ipuz, jpz) and exposes a
// value implementing [Codec]. Codecs are stateless: Parse and Write are pure
// transforms between bytes and a [puz.Puzzle], safe for concurrent use.
//
// A [Registry] groups codecs so callers can pick one by name, by file
// extension, or by sniffing the first bytes of the input:
//
//	reg := codec.NewRegistry(native.Codec{}, ipuz.Codec{}, jpz.Codec{})
//	c, err := reg.Detect(data)
//	p, err := c.Parse(bytes.NewReader(data))
//
// Every error returned by Parse or Write is a [*FormatError] naming the
// format and wrapping a coded [errors.Error], so both errors.As and
// errors.Is work on it.
package codec

import (
	"fmt"
	"io"

	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz"
)

// Format names a wire format.
type Format string

const (
	FormatNative Format = "native"
	FormatIPuz   Format = "ipuz"
	FormatJPZ    Format = "jpz"
)

// Options controls Write.
type Options struct {
	// OmitPlayState writes only the authored puzzle and its solution,
	// leaving out responses, notes, flags, history, position and time.
	OmitPlayState bool
}

// Codec reads and writes one wire format.
type Codec interface {
	// Format returns the format identifier.
	Format() Format
	// Extensions lists the file extensions, with leading dot.
	Extensions() []string
	// Detect reports whether head, the first bytes of a file, look like
	// this format.
	Detect(head []byte) bool
	// Parse decodes a puzzle. It never returns a partial puzzle with an error.
	Parse(r io.Reader) (*puz.Puzzle, error)
	// Write encodes p.
	Write(w io.Writer, p *puz.Puzzle, opts Options) error
}

// FormatError is the single error kind of a codec.
type FormatError struct {
	Format Format
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %v", e.Format, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Errorf builds a FormatError around a new coded error.
func Errorf(f Format, code cwerrors.Code, format string, args ...any) error {
	return &FormatError{Format: f, Err: cwerrors.New(code, format, args...)}
}

// Wrap tags err with the format. Coded errors are kept as they are; any
// other error becomes INVALID_FORMAT with context prepended. A FormatError
// passes through unchanged.
func Wrap(f Format, err error, context string) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*FormatError); ok {
		return err
	}
	if cwerrors.GetCode(err) != "" {
		return &FormatError{Format: f, Err: err}
	}
	return &FormatError{Format: f, Err: cwerrors.Wrap(cwerrors.ErrCodeInvalidFormat, err, "%s", context)}
}
