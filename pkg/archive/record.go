package archive

import (
	"reflect"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/matzehuels/crosswire/pkg/codec"
	"github.com/matzehuels/crosswire/pkg/puz"
)

// Record is one archived puzzle. Blob holds the native encoding of the
// puzzle, compressed as Compression says; Size is its uncompressed length.
type Record struct {
	ID          string       `cbor:"id" bson:"_id" json:"id"`
	Fingerprint string       `cbor:"fingerprint" bson:"fingerprint" json:"fingerprint"`
	Title       string       `cbor:"title,omitempty" bson:"title,omitempty" json:"title,omitempty"`
	Author      string       `cbor:"author,omitempty" bson:"author,omitempty" json:"author,omitempty"`
	Kind        string       `cbor:"kind" bson:"kind" json:"kind"`
	Width       int          `cbor:"width" bson:"width" json:"width"`
	Height      int          `cbor:"height" bson:"height" json:"height"`
	Source      codec.Format `cbor:"source,omitempty" bson:"source,omitempty" json:"source,omitempty"`
	Compression Compression  `cbor:"compression" bson:"compression" json:"compression"`
	Size        int          `cbor:"size" bson:"size" json:"size"`
	Blob        []byte       `cbor:"blob,omitempty" bson:"blob,omitempty" json:"-"`
	CreatedAt   time.Time    `cbor:"created_at" bson:"created_at" json:"created_at"`
}

// Summary returns a copy of r without the blob.
func (r *Record) Summary() Record {
	s := *r
	s.Blob = nil
	return s
}

func describe(r *Record, p *puz.Puzzle) {
	r.Title = p.Title
	r.Author = p.Author
	r.Kind = p.Kind.String()
	r.Width = p.Width()
	r.Height = p.Height()
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	encMode, err = opts.EncMode()
	if err != nil {
		panic("archive: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("archive: CBOR decoder initialization failed: " + err.Error())
	}
}

func marshalRecord(r *Record) ([]byte, error) { return encMode.Marshal(r) }

func unmarshalRecord(data []byte) (*Record, error) {
	var r Record
	if err := decMode.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
