// Package pkg provides the core libraries for Crosswire crossword conversion.
//
// # Overview
//
// Crosswire reads and writes crossword and acrostic puzzles in three formats
// and keeps styling and play state across conversions. The pkg directory is
// organized into three areas:
//
//  1. [puz] - The puzzle model (grid, boxes, clue lists, notes, play state)
//  2. [codec] - Format codecs ([codec/native], [codec/ipuz], [codec/jpz])
//  3. Infrastructure ([pipeline], [cache], [archive], [config], [observability])
//
// # Architecture
//
// The typical data flow through Crosswire:
//
//	Puzzle file (ipuz, jpz, native)
//	         ↓
//	    [codec] registry (detect by content, then extension)
//	         ↓
//	    [puz] model (validated grid + clue lists)
//	         ↓
//	    [codec] writer for the target format
//
// [pipeline] wraps this flow with a cache keyed on the input bytes and the
// conversion options. The CLI and the HTTP server both go through it.
//
// # Quick Start
//
//	r := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := r.Convert(ctx, data, pipeline.Options{
//	    Filename: "monday.jpz",
//	    To:       "ipuz",
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("monday.ipuz", res.Output, 0o644)
//
// # Main Packages
//
// [puz] - Positions, boxes, clues and the Puzzle aggregate. Puzzles are
// assembled through a single-use Builder that derives across and down
// zones from the grid.
//
// [markup] - CSS color parsing and the small HTML subset used in clue and
// note text.
//
// [codec] - The Codec interface and a Registry that resolves a codec by name,
// file extension or content.
//
// [pipeline] - Parse, write and convert with caching, shared by every entry
// point.
//
// [cache] - File, Redis and null caches with TTLs and a scoped keyer.
//
// [archive] - Deduplicated puzzle storage on disk or in MongoDB with
// zstd, lz4 or xz compressed blobs.
//
// [config] - TOML or YAML configuration with XDG default locations.
//
// [errors] - Coded errors shared by codecs, the CLI and the HTTP server.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [puz]: https://pkg.go.dev/github.com/matzehuels/crosswire/pkg/puz
// [markup]: https://pkg.go.dev/github.com/matzehuels/crosswire/pkg/markup
// [codec]: https://pkg.go.dev/github.com/matzehuels/crosswire/pkg/codec
// [codec/native]: https://pkg.go.dev/github.com/matzehuels/crosswire/pkg/codec/native
// [codec/ipuz]: https://pkg.go.dev/github.com/matzehuels/crosswire/pkg/codec/ipuz
// [codec/jpz]: https://pkg.go.dev/github.com/matzehuels/crosswire/pkg/codec/jpz
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/crosswire/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/crosswire/pkg/cache
// [archive]: https://pkg.go.dev/github.com/matzehuels/crosswire/pkg/archive
// [config]: https://pkg.go.dev/github.com/matzehuels/crosswire/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/crosswire/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/crosswire/pkg/errors
package pkg
