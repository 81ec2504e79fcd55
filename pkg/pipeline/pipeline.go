// Package pipeline provides the detect → parse → write pipeline shared by
// the CLI and the HTTP server.
//
// By centralizing this logic, both entry points resolve formats, consult
// the cache and report hooks the same way.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Convert(ctx, data, pipeline.Options{
//	    Filename: "monday.jpz",
//	    To:       codec.FormatIPuz,
//	})
//	os.Stdout.Write(result.Output)
//
// Run individual stages:
//
//	p, info, err := runner.Parse(ctx, data, opts)
//	out, err := runner.Write(ctx, p, codec.FormatJPZ, codec.Options{})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crosswire/pkg/codec"
	"github.com/matzehuels/crosswire/pkg/codec/ipuz"
	"github.com/matzehuels/crosswire/pkg/codec/jpz"
	"github.com/matzehuels/crosswire/pkg/codec/native"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultOutput is the output format when none is given.
const DefaultOutput = codec.FormatIPuz

// MaxInput bounds the bytes read from one input document.
const MaxInput = 64 << 20

// DefaultRegistry returns a registry of every codec. Native comes first
// because its magic is the cheapest to sniff.
func DefaultRegistry() *codec.Registry {
	return codec.NewRegistry(native.Codec{}, ipuz.Codec{}, jpz.Codec{})
}

// ValidateFormat checks that a format name is known to the default
// registry. Names are case-insensitive.
func ValidateFormat(name string) error {
	return cwerrors.ValidateFormat(name, DefaultRegistry().FormatNames())
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// From forces the input format. Empty means detect from content, then
	// from Filename's extension.
	From string `json:"from,omitempty"`
	// Filename is the input's name, used only as an extension hint.
	Filename string `json:"filename,omitempty"`

	// To is the output format for Convert.
	To codec.Format `json:"to,omitempty"`
	// OmitPlayState drops responses, notes and other play state on write.
	OmitPlayState bool `json:"omit_play_state,omitempty"`

	// Refresh bypasses cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.To == "" {
		o.To = DefaultOutput
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks format names.
func (o *Options) Validate() error {
	reg := DefaultRegistry()
	if o.From != "" {
		if _, err := reg.Lookup(o.From); err != nil {
			return err
		}
	}
	if o.To != "" {
		if _, err := reg.Lookup(string(o.To)); err != nil {
			return err
		}
	}
	return nil
}

// CodecOptions returns the options passed to Codec.Write.
func (o *Options) CodecOptions() codec.Options {
	return codec.Options{OmitPlayState: o.OmitPlayState}
}

// =============================================================================
// Results
// =============================================================================

// ParseInfo describes a parse.
type ParseInfo struct {
	// Format is the format the input was read as.
	Format codec.Format
	// ContentHash is the BLAKE3 hash of the input bytes.
	ContentHash string
	// CacheHit is true when the puzzle came from the cache.
	CacheHit bool
	// Duration covers detection, cache lookup and parsing.
	Duration time.Duration
}

// Result contains the outputs of a Convert run.
type Result struct {
	Puzzle *puz.Puzzle
	Parse  ParseInfo

	// To is the output format and Output the bytes written.
	To     codec.Format
	Output []byte

	// WriteHit is true when Output came from the cache.
	WriteHit      bool
	WriteDuration time.Duration
}

// errEmpty is returned for zero-length input.
var errEmpty = cwerrors.New(cwerrors.ErrCodeInvalidInput, "empty input")
