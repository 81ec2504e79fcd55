package io

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/crosswire/pkg/codec"
	"github.com/matzehuels/crosswire/pkg/puz"
)

// Summary is the JSON view of a puzzle used by `info` and the inspect
// endpoint.
type Summary struct {
	Format          codec.Format `json:"format,omitempty"`
	Title           string       `json:"title,omitempty"`
	Author          string       `json:"author,omitempty"`
	Copyright       string       `json:"copyright,omitempty"`
	Source          string       `json:"source,omitempty"`
	Date            string       `json:"date,omitempty"`
	Kind            string       `json:"kind"`
	Width           int          `json:"width"`
	Height          int          `json:"height"`
	Cells           int          `json:"cells"`
	Blocks          int          `json:"blocks"`
	Lists           []ListInfo   `json:"lists"`
	HasSolution     bool         `json:"has_solution"`
	PercentFilled   int          `json:"percent_filled"`
	PercentComplete int          `json:"percent_complete"`
	Hash            string       `json:"hash"`
}

// ListInfo counts the clues of one list.
type ListInfo struct {
	Name  string `json:"name"`
	Clues int    `json:"clues"`
}

// Summarize builds a summary of p, read as format.
func Summarize(p *puz.Puzzle, format codec.Format) Summary {
	s := Summary{
		Format:          format,
		Title:           p.Title,
		Author:          p.Author,
		Copyright:       p.Copyright,
		Source:          p.Source,
		Kind:            p.Kind.String(),
		Width:           p.Width(),
		Height:          p.Height(),
		Lists:           []ListInfo{},
		HasSolution:     p.HasSolution(),
		PercentFilled:   p.PercentFilled(),
		PercentComplete: p.PercentComplete(),
		Hash:            fmt.Sprintf("%016x", p.Hash()),
	}
	if !p.Date.IsZero() {
		s.Date = p.Date.Format("2006-01-02")
	}
	for _, row := range p.Boxes() {
		for _, b := range row {
			switch b.Kind {
			case puz.CellPlayable:
				s.Cells++
			case puz.CellBlock:
				s.Blocks++
			}
		}
	}
	for _, name := range p.ClueListNames() {
		s.Lists = append(s.Lists, ListInfo{Name: name, Clues: p.Clues(name).Len()})
	}
	return s
}

// ClueCount returns the total number of clues.
func (s Summary) ClueCount() int {
	n := 0
	for _, l := range s.Lists {
		n += l.Clues
	}
	return n
}

// Size returns "WxH".
func (s Summary) Size() string {
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
}

// WriteJSON encodes s as indented JSON.
func WriteJSON(w io.Writer, s any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
