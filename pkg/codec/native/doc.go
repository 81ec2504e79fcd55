// Package native implements the compact binary puzzle format.
//
// # Layout
//
// A file starts with the magic "XWPZ", a version byte and a charset byte
// (0 UTF-8, 1 ISO-8859-1). The body is a sequence of sections, one per
// format version: a version N file holds sections 1 through N in order.
//
//   - Section 1: dimensions, kind, metadata, time, grid, clue lists.
//   - Section 2: the source URL, null-terminated.
//   - Section 3: support and share URLs, cell styling, notes, flags,
//     history, position, current and pinned clue, images.
//
// Integers are varints. Optional strings are a presence byte followed by a
// varint length and the bytes in the declared charset.
//
// Reading never upgrades a file: bytes written as version 1 decode with the
// section 1 reader alone, and later fields keep their zero values. New
// versions append a section; they never change an earlier one.
package native
