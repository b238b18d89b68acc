package chunk

import "strings"

// Substitutes for characters that collide with the chunk text syntax.
const (
	// SemicolonSubstitute replaces ';', the item separator.
	SemicolonSubstitute = "；"
	// LineBreakMarker replaces '\n', the chunk separator.
	LineBreakMarker = "↵"
	// TabExpansion replaces '\t'.
	TabExpansion = "    "
)

var sanitizer = strings.NewReplacer(
	";", SemicolonSubstitute,
	"\n", LineBreakMarker,
	"\r", "",
	"\t", TabExpansion,
)

// Sanitize normalizes a cell value for embedding in chunk text.
// Semicolons become full-width semicolons, newlines become a visible
// line-break marker, carriage returns are dropped and tabs expand to four spaces.
func Sanitize(value string) string {
	return sanitizer.Replace(value)
}
