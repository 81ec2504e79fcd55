package codec

import (
	"bytes"
	"errors"
	"io"
	"testing"

	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz"
)

type stubCodec struct {
	format Format
	exts   []string
	prefix string
}

func (s stubCodec) Format() Format       { return s.format }
func (s stubCodec) Extensions() []string { return s.exts }

func (s stubCodec) Detect(head []byte) bool {
	return bytes.HasPrefix(head, []byte(s.prefix))
}

func (s stubCodec) Parse(io.Reader) (*puz.Puzzle, error) { return nil, nil }

func (s stubCodec) Write(io.Writer, *puz.Puzzle, Options) error { return nil }

func testRegistry() *Registry {
	return NewRegistry(
		stubCodec{format: "alpha", exts: []string{".al"}, prefix: "AL"},
		stubCodec{format: "beta", exts: []string{".be", ".bet"}, prefix: "{"},
	)
}

func TestRegistryLookup(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"alpha", "alpha", false},
		{" BETA ", "beta", false},
		{"gamma", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := reg.Lookup(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !cwerrors.Is(err, cwerrors.ErrCodeUnsupported) {
					t.Errorf("Lookup() code = %s, want UNSUPPORTED", cwerrors.GetCode(err))
				}
				return
			}
			if c.Format() != tt.want {
				t.Errorf("Lookup() = %s, want %s", c.Format(), tt.want)
			}
		})
	}
}

func TestRegistryForPath(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"/tmp/puzzle.al", "alpha", false},
		{"puzzle.BET", "beta", false},
		{"puzzle.txt", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c, err := reg.ForPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ForPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.Format() != tt.want {
				t.Errorf("ForPath() = %s, want %s", c.Format(), tt.want)
			}
		})
	}
}

func TestRegistryResolve(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name, format, path string
		head               string
		want               Format
		wantErr            bool
	}{
		{"explicit wins", "alpha", "x.be", "{", "alpha", false},
		{"content before extension", "", "x.al", "{}", "beta", false},
		{"extension fallback", "", "x.al", "???", "alpha", false},
		{"nothing matches", "", "", "???", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := reg.Resolve(tt.format, tt.path, []byte(tt.head))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.Format() != tt.want {
				t.Errorf("Resolve() = %s, want %s", c.Format(), tt.want)
			}
		})
	}
}

func TestFormatErrorChain(t *testing.T) {
	err := Errorf(FormatJPZ, cwerrors.ErrCodeLinkage, "clue %s has no cell", "A")

	var fe *FormatError
	if !errors.As(err, &fe) || fe.Format != FormatJPZ {
		t.Fatalf("errors.As() did not find FormatError in %v", err)
	}
	if !cwerrors.Is(err, cwerrors.ErrCodeLinkage) {
		t.Errorf("code = %s, want LINKAGE", cwerrors.GetCode(err))
	}
	if got, want := err.Error(), "jpz: LINKAGE: clue A has no cell"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapKeepsCode(t *testing.T) {
	inner := cwerrors.New(cwerrors.ErrCodeStructural, "ragged grid")
	err := Wrap(FormatIPuz, inner, "build grid")
	if !cwerrors.Is(err, cwerrors.ErrCodeStructural) {
		t.Errorf("Wrap() lost code: %v", err)
	}

	plain := Wrap(FormatIPuz, io.ErrUnexpectedEOF, "decode")
	if !cwerrors.Is(plain, cwerrors.ErrCodeInvalidFormat) {
		t.Errorf("Wrap() of plain error code = %s, want INVALID_FORMAT", cwerrors.GetCode(plain))
	}
	if !errors.Is(plain, io.ErrUnexpectedEOF) {
		t.Error("Wrap() hid the cause")
	}
	if Wrap(FormatIPuz, err, "again") != err {
		t.Error("Wrap() re-wrapped a FormatError")
	}
	if Wrap(FormatIPuz, nil, "noop") != nil {
		t.Error("Wrap(nil) != nil")
	}
}
