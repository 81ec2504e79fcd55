// Package io moves puzzle documents between files and the pipeline and
// exports puzzle summaries as JSON.
//
// # Files
//
// [ReadInput] reads a document from a path, or from standard input when
// the path is "-", refusing inputs larger than the pipeline accepts.
// [WriteOutput] writes through a temporary file in the target directory and
// renames it into place, so a failed conversion never leaves a truncated
// puzzle behind:
//
//	data, err := io.ReadInput("monday.jpz", os.Stdin)
//	// ... convert ...
//	err = io.WriteOutput("monday.ipuz", out, os.Stdout)
//
// # Summaries
//
// [Summarize] condenses a puzzle into a [Summary]: metadata, grid size,
// clue counts per list and solving progress. [WriteJSON] encodes it for
// `crosswire info --json` and the server's inspect endpoint:
//
//	{
//	  "format": "ipuz",
//	  "title": "Monday",
//	  "kind": "crossword",
//	  "width": 15,
//	  "height": 15,
//	  "lists": [{"name": "Across", "clues": 38}, {"name": "Down", "clues": 40}],
//	  "percent_filled": 12
//	}
package io
