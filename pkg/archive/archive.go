// Package archive is a library of puzzles kept in their native encoding.
//
// An [Archive] encodes each added puzzle with the native codec, compresses
// the bytes and hands a [Record] to a [Store]. Records are deduplicated by
// a BLAKE3 fingerprint of the puzzle with its play state removed, so adding
// the same puzzle twice, solved or not, returns the existing record.
//
// Two stores exist: [FileStore] writes CBOR files to a directory and
// [MongoStore] keeps records in MongoDB.
package archive

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/matzehuels/crosswire/pkg/codec"
	"github.com/matzehuels/crosswire/pkg/codec/native"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz"
)

// Archive adds and loads puzzles through a Store.
type Archive struct {
	store       Store
	compression Compression
	logger      *log.Logger
	now         func() time.Time
}

// New returns an archive over store. A nil logger discards output.
func New(store Store, compression Compression, logger *log.Logger) *Archive {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Archive{store: store, compression: compression, logger: logger, now: time.Now}
}

// Store returns the underlying store.
func (a *Archive) Store() Store { return a.store }

// Add archives p. If a puzzle with the same fingerprint exists, its record
// is returned with existed set and nothing is written.
func (a *Archive) Add(ctx context.Context, p *puz.Puzzle, source codec.Format) (rec *Record, existed bool, err error) {
	fp, err := Fingerprint(p)
	if err != nil {
		return nil, false, err
	}
	if rec, err := a.store.FindByFingerprint(ctx, fp); err == nil {
		a.logger.Debug("archive hit", "id", rec.ID, "fingerprint", fp[:12])
		return rec, true, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := (native.Codec{}).Write(&buf, p, codec.Options{}); err != nil {
		return nil, false, err
	}
	blob, used, err := compress(buf.Bytes(), a.compression)
	if err != nil {
		return nil, false, cwerrors.Wrap(cwerrors.ErrCodeInternal, err, "compress puzzle")
	}

	rec = &Record{
		ID:          uuid.NewString(),
		Fingerprint: fp,
		Source:      source,
		Compression: used,
		Size:        buf.Len(),
		Blob:        blob,
		CreatedAt:   a.now().UTC(),
	}
	describe(rec, p)
	if err := a.store.Put(ctx, rec); err != nil {
		return nil, false, err
	}
	a.logger.Info("archived puzzle", "id", rec.ID, "title", rec.Title,
		"compression", used, "bytes", len(blob), "raw", rec.Size)
	return rec, false, nil
}

// Load returns the puzzle stored under id.
func (a *Archive) Load(ctx context.Context, id string) (*puz.Puzzle, *Record, error) {
	if err := cwerrors.ValidateRecordID(id); err != nil {
		return nil, nil, err
	}
	rec, err := a.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil, cwerrors.New(cwerrors.ErrCodeNotFound, "no archived puzzle %q", id)
	}
	if err != nil {
		return nil, nil, err
	}
	raw, err := decompress(rec.Blob, rec.Compression, rec.Size)
	if err != nil {
		return nil, nil, cwerrors.Wrap(cwerrors.ErrCodeInternal, err, "record %s", id)
	}
	p, err := (native.Codec{}).Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("record %s: %w", id, err)
	}
	return p, rec, nil
}

// List returns record summaries, newest first.
func (a *Archive) List(ctx context.Context) ([]Record, error) {
	return a.store.List(ctx)
}

// Remove deletes the record with id.
func (a *Archive) Remove(ctx context.Context, id string) error {
	if err := cwerrors.ValidateRecordID(id); err != nil {
		return err
	}
	err := a.store.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return cwerrors.New(cwerrors.ErrCodeNotFound, "no archived puzzle %q", id)
	}
	return err
}

// Close closes the store.
func (a *Archive) Close() error { return a.store.Close() }

// Fingerprint returns the BLAKE3 digest of p's native encoding without
// play state.
func Fingerprint(p *puz.Puzzle) (string, error) {
	h := blake3.New()
	if err := (native.Codec{}).Write(h, p, codec.Options{OmitPlayState: true}); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
