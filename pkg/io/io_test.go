package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/crosswire/pkg/codec"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz/puztest"
)

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.ipuz")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadInput(path, nil)
	if err != nil || string(got) != "{}" {
		t.Errorf("ReadInput(file) = %q, %v", got, err)
	}

	got, err = ReadInput(Stdio, strings.NewReader("from stdin"))
	if err != nil || string(got) != "from stdin" {
		t.Errorf("ReadInput(-) = %q, %v", got, err)
	}

	_, err = ReadInput(filepath.Join(t.TempDir(), "missing"), nil)
	if !cwerrors.Is(err, cwerrors.ErrCodeInvalidPath) {
		t.Errorf("ReadInput(missing) error = %v, want INVALID_PATH", err)
	}
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jpz")

	if err := WriteOutput(path, []byte("first"), nil); err != nil {
		t.Fatalf("WriteOutput() error: %v", err)
	}
	if err := WriteOutput(path, []byte("second"), nil); err != nil {
		t.Fatalf("WriteOutput() overwrite error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "second" {
		t.Errorf("file = %q, %v", data, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}

	var stdout bytes.Buffer
	if err := WriteOutput(Stdio, []byte("piped"), &stdout); err != nil || stdout.String() != "piped" {
		t.Errorf("WriteOutput(-) = %q, %v", stdout.String(), err)
	}

	err = WriteOutput(filepath.Join(dir, "no", "such", "dir.ipuz"), []byte("x"), nil)
	if !cwerrors.Is(err, cwerrors.ErrCodeInvalidPath) {
		t.Errorf("WriteOutput(bad dir) error = %v, want INVALID_PATH", err)
	}
}

func TestSummarize(t *testing.T) {
	p := puztest.Crossword(t)
	s := Summarize(p, codec.FormatIPuz)

	if s.Title != "Sample & Co" || s.Author != "A. Setter" || s.Date != "2024-03-09" {
		t.Errorf("metadata = %+v", s)
	}
	if s.Kind != "crossword" || s.Size() != "3x3" {
		t.Errorf("Kind = %s, Size = %s", s.Kind, s.Size())
	}
	if s.Cells != 8 || s.Blocks != 0 {
		t.Errorf("Cells = %d, Blocks = %d; want 8, 0", s.Cells, s.Blocks)
	}
	want := []ListInfo{{"Across", 2}, {"Down", 2}}
	if len(s.Lists) != 2 || s.Lists[0] != want[0] || s.Lists[1] != want[1] {
		t.Errorf("Lists = %v, want %v", s.Lists, want)
	}
	if s.ClueCount() != 4 {
		t.Errorf("ClueCount() = %d, want 4", s.ClueCount())
	}
	if !s.HasSolution || s.PercentFilled != 0 {
		t.Errorf("HasSolution = %v, PercentFilled = %d", s.HasSolution, s.PercentFilled)
	}

	styled := Summarize(puztest.Style(t, puztest.Crossword(t)), "")
	if styled.Blocks != 1 {
		t.Errorf("styled Blocks = %d, want 1", styled.Blocks)
	}
	if styled.Hash == s.Hash {
		t.Error("styling should change the hash")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, Summarize(puztest.Crossword(t), codec.FormatJPZ)); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["format"] != "jpz" || got["width"] != float64(3) {
		t.Errorf("decoded = %v", got)
	}
	if _, ok := got["lists"].([]any); !ok {
		t.Errorf("lists = %T", got["lists"])
	}
}
