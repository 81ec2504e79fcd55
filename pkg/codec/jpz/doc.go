// Package jpz reads and writes JPZ puzzles, the XML format of Crossword
// Compiler and the sites exporting it.
//
// Input may be the bare XML document or a zip archive holding it. Element
// names are matched case-insensitively and without namespace prefixes.
//
// # Reading
//
// The reader walks the token stream with four states: outside any grid or
// clue list, inside the grid, inside a clue list, and inside a word
// definition. Metadata text is kept with any nested markup re-emitted as
// plain tags, so citations and formatted notes survive. Cells of type
// block, void or clue are blocks; blocks carrying nothing worth keeping
// become missing cells.
//
// Word coordinates are 1-based and may be ranges: x="1-3" y="2" is the
// first three cells of the second row. When both axes are ranges of the
// same length the word runs diagonally.
//
// # Acrostics
//
// Some exporters drop the acrostic element, so a puzzle is also read as
// an acrostic when it has an unnumbered clue whose text is "[QUOTE]". The
// rows up to the last one of that clue's word form the quote grid; the rows
// below are answer keys whose cell numbers point back into the quote. Words
// over the quote rows themselves, as this package writes them, are taken
// as they are. A key cell that is off the grid, a block, unnumbered, or
// numbered with a number the quote does not contain is a LINKAGE error.
//
// # Writing
//
// The writer emits a crossword-compiler document with metadata, grid, one
// word per clue zone and the clue lists. JPZ has no place for play state,
// so only pre-filled cells are written as solve-state; responses, notes and
// history are dropped. Dashed and dotted bars are written as plain bars,
// and text and bar colors are not written.
package jpz
