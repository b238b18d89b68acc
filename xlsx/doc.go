// Package xlsx extracts length-bounded row chunks from Excel workbooks.
//
// Each worksheet is read as a table whose first row is the header. Merged
// cells are resolved to their anchor's current value, booleans render as
// TRUE/FALSE, IMAGE() formulas render as "[Image]" and hyperlinked cells gain
// a " [Link:<target>]" suffix. Rows are then packed by the chunk package, and
// each non-empty sheet is introduced by a "=== Sheet: <name> ===" line.
//
// Formulas are never evaluated: the cached values stored in the workbook are
// used. External links are not followed.
//
// Basic usage:
//
//	doc, err := xlsx.Open("orders.xlsx", format.DefaultOptions())
//	if err != nil {
//	    // handle error
//	}
//	text, err := doc.ExtractText()
package xlsx
