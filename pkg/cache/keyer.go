package cache

import (
	"github.com/matzehuels/crosswire/pkg/codec"
)

// Keyer derives cache keys.
type Keyer interface {
	// PuzzleKey addresses the parsed puzzle of a document with the given
	// content hash, read as format.
	PuzzleKey(contentHash string, format codec.Format) string
	// ConvertKey addresses the bytes written for a document converted to
	// format with opts.
	ConvertKey(contentHash string, format codec.Format, opts codec.Options) string
}

// DefaultKeyer produces "puzzle:<hash>" and "convert:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) PuzzleKey(contentHash string, format codec.Format) string {
	return hashKey("puzzle", contentHash, format)
}

func (DefaultKeyer) ConvertKey(contentHash string, format codec.Format, opts codec.Options) string {
	return hashKey("convert", contentHash, format, opts.OmitPlayState)
}

// ScopedKeyer wraps a Keyer with a prefix, so several deployments can share
// one Redis without seeing each other's entries.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "crosswire:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// the default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) PuzzleKey(contentHash string, format codec.Format) string {
	return k.prefix + k.inner.PuzzleKey(contentHash, format)
}

func (k *ScopedKeyer) ConvertKey(contentHash string, format codec.Format, opts codec.Options) string {
	return k.prefix + k.inner.ConvertKey(contentHash, format, opts)
}
