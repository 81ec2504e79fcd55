// Package ipuz reads and writes IPuz JSON puzzles (http://ipuz.org).
//
// Crossword and acrostic kinds are supported. Styles, named style
// dictionaries, the saved and solution overlays and every clue shape of the
// format are read; continuations, cross references and enumerations are
// folded into the hint text.
//
// # Extensions
//
// Fields the format has no place for live under the extension namespace
// [Namespace]: support and share URLs, overlay images, the pinned clue,
// an IO version and the play data object (cheat flags, responders, cursor,
// clue history, notes, flags, completion time). Files using the older
// namespace [LegacyNamespace] are read the same way.
//
// The IO version selects how a few details are read:
//
//   - 1: dates are dd/MM/yyyy and clue cells are 1-based.
//   - 2: dates are MM/dd/yyyy and clue cells are 1-based.
//   - 3: dates are MM/dd/yyyy and clue cells are 0-based.
//
// A file without a version is read with MM/dd/yyyy dates and clue cells
// taken as 1-based only when some coordinate would be off the grid
// otherwise. The writer always emits version 3.
//
// Input may contain comments and trailing commas.
package ipuz
