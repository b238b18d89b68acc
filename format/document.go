package format

import (
	"strings"

	"github.com/tsawler/tabchunk/chunk"
)

// Document is a tabular document opened by an adapter. A Document holds no
// open file handles between calls; each extraction opens, reads and releases
// the underlying file.
type Document interface {
	// Path returns the document's file path.
	Path() string

	// Format returns the format tag derived from the path's extension.
	Format() Format

	// ExtractText returns all chunks as one newline-joined text blob.
	ExtractText() (string, error)

	// ExtractMetadata returns structural information about the document.
	ExtractMetadata() (map[string]any, error)

	// Chunks returns the chunks that ExtractText joins.
	Chunks() ([]chunk.Chunk, error)

	// Supports reports whether the adapter declares ext.
	Supports(ext string) bool
}

// Constructor creates a Document for path.
type Constructor func(path string, opts Options) (Document, error)

// Kind describes an adapter type: the extensions it declares and how to
// construct it.
type Kind struct {
	Name       string
	Extensions []string
	New        Constructor
}

// Supports reports whether ext is one of k's extensions. The comparison is
// case-insensitive and a leading '.' is ignored.
func (k Kind) Supports(ext string) bool {
	return SupportsExt(k.Extensions, ext)
}

// SupportsExt reports whether ext is in exts, ignoring case and a leading '.'.
func SupportsExt(exts []string, ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
