// Package chunk packs labelled row values into length-bounded text chunks.
//
// A row is a sequence of values aligned to a header. Every value is run through
// [Sanitize] so that it cannot be confused with the chunk text syntax, then
// rendered as a "field: value" item. Items are packed greedily into chunks of at
// most MaxLen characters, separated by "; ":
//
//	[ID:A1] OrderID: A1; Customer: Acme; Total: 12.50
//
// Every chunk starts with the owning row's ID prefix so that row ownership can
// be recovered from chunk text alone.
//
// # Segmentation
//
// An item that cannot fit in a chunk on its own is split into part-numbered
// segments, each a standalone chunk:
//
//	[ID:A1] Note [Part1]: xxxxxxxxxxxxxxxxxx
//	[ID:A1] Note [Part2]: xxxxxxxxxxxxxxxxxx
//
// Concatenating the segment slices in part order reproduces the sanitized value
// exactly.
//
// Lengths are measured in Unicode code points, not bytes.
package chunk
