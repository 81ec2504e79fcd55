package codec

import (
	"path/filepath"
	"slices"
	"strings"

	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
)

// SniffLen is how many leading bytes Detect implementations are given.
const SniffLen = 512

// Registry is an ordered set of codecs. Detection tries codecs in
// registration order.
type Registry struct {
	codecs []Codec
}

// NewRegistry returns a registry of the given codecs.
func NewRegistry(codecs ...Codec) *Registry {
	return &Registry{codecs: slices.Clone(codecs)}
}

// Formats lists the registered formats in registration order.
func (r *Registry) Formats() []Format {
	out := make([]Format, len(r.codecs))
	for i, c := range r.codecs {
		out[i] = c.Format()
	}
	return out
}

// FormatNames is Formats as strings, for flag help and validation.
func (r *Registry) FormatNames() []string {
	out := make([]string, len(r.codecs))
	for i, c := range r.codecs {
		out[i] = string(c.Format())
	}
	return out
}

// Lookup returns the codec for a format name.
func (r *Registry) Lookup(name string) (Codec, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, c := range r.codecs {
		if c.Format() == f {
			return c, nil
		}
	}
	return nil, cwerrors.New(cwerrors.ErrCodeUnsupported, "unknown format %q (supported: %s)",
		name, strings.Join(r.FormatNames(), ", "))
}

// ForPath returns the codec whose extensions match path.
func (r *Registry) ForPath(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range r.codecs {
		if slices.Contains(c.Extensions(), ext) {
			return c, nil
		}
	}
	return nil, cwerrors.New(cwerrors.ErrCodeUnsupported, "no format for file %s", filepath.Base(path))
}

// Detect returns the first codec that recognizes head.
func (r *Registry) Detect(head []byte) (Codec, error) {
	if len(head) > SniffLen {
		head = head[:SniffLen]
	}
	for _, c := range r.codecs {
		if c.Detect(head) {
			return c, nil
		}
	}
	return nil, cwerrors.New(cwerrors.ErrCodeUnsupported, "unrecognized puzzle data")
}

// Resolve picks a codec for input: an explicit format name wins, then the
// content, then the file extension.
func (r *Registry) Resolve(name, path string, head []byte) (Codec, error) {
	if name != "" {
		return r.Lookup(name)
	}
	if c, err := r.Detect(head); err == nil {
		return c, nil
	}
	if path != "" {
		return r.ForPath(path)
	}
	return nil, cwerrors.New(cwerrors.ErrCodeUnsupported, "cannot determine puzzle format")
}
