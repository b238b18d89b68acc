package tabchunk

import (
	"fmt"
	"log/slog"

	"github.com/tsawler/tabchunk/chunk"
	"github.com/tsawler/tabchunk/format"
	"github.com/tsawler/tabchunk/fsutil"
)

// Extractor provides a fluent interface for extracting chunks from CSV and
// Excel files. Each configuration method returns a new Extractor instance,
// making it safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	format   format.Format

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Extractor with a copy of its options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		format:   e.format,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// UniqueKey names the header column whose value identifies each row
// (default "OrderID"). When the header has no such column the first column
// is used.
//
// Example:
//
//	text, err := tabchunk.Open("orders.csv").UniqueKey("InvoiceNo").Text()
func (e *Extractor) UniqueKey(key string) *Extractor {
	newExt := e.clone()
	newExt.options.uniqueKey = key
	return newExt
}

// MaxLen sets the character budget per chunk (default 350). Lengths are
// counted in Unicode code points.
//
// Example:
//
//	chunks, err := tabchunk.Open("orders.xlsx").MaxLen(200).Chunks()
func (e *Extractor) MaxLen(n int) *Extractor {
	newExt := e.clone()
	if n <= 0 && newExt.err == nil {
		newExt.err = fmt.Errorf("max length must be positive, got %d", n)
	}
	newExt.options.maxLen = n
	return newExt
}

// OverheadPadding sets the slack reserved per field when deciding whether
// the field must be split into parts (default 3).
func (e *Extractor) OverheadPadding(n int) *Extractor {
	newExt := e.clone()
	if n < 0 && newExt.err == nil {
		newExt.err = fmt.Errorf("overhead padding must not be negative, got %d", n)
	}
	newExt.options.overheadPadding = n
	return newExt
}

// Encoding sets the character encoding of CSV input, e.g. "gbk" (default
// "utf-8"). Workbooks ignore it.
//
// Example:
//
//	text, err := tabchunk.Open("legacy.csv").Encoding("gbk").Text()
func (e *Extractor) Encoding(label string) *Extractor {
	newExt := e.clone()
	newExt.options.encoding = label
	return newExt
}

// Logger sets the logger adapters write debug messages to (default
// slog.Default()).
func (e *Extractor) Logger(l *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = l
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Format returns the format detected from the file extension.
func (e *Extractor) Format() format.Format {
	return e.format
}

// Document resolves the file to its adapter. It fails with
// ErrUnsupportedFormat when the extension is missing or unregistered.
func (e *Extractor) Document() (format.Document, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.filename == "" {
		return nil, fmt.Errorf("no filename specified")
	}
	return Resolve(e.filename, e.options.formatOptions())
}

// Text extracts all chunks joined by newlines.
//
// Example:
//
//	text, err := tabchunk.Open("orders.xlsx").Text()
func (e *Extractor) Text() (string, error) {
	doc, err := e.Document()
	if err != nil {
		return "", err
	}
	return doc.ExtractText()
}

// Chunks extracts the individual chunk records.
//
// Example:
//
//	chunks, err := tabchunk.Open("orders.csv").Chunks()
//	for _, c := range chunks {
//	    fmt.Println(c.RowID, c.Text)
//	}
func (e *Extractor) Chunks() ([]chunk.Chunk, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}
	return doc.Chunks()
}

// Metadata returns structural information about the document such as its
// sheet names.
func (e *Extractor) Metadata() (map[string]any, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}
	return doc.ExtractMetadata()
}

// SaveText extracts the text and writes it to path in the given encoding
// (empty selects UTF-8). Nothing is written when extraction fails.
func (e *Extractor) SaveText(path, encoding string) error {
	text, err := e.Text()
	if err != nil {
		return err
	}
	if encoding == "" {
		encoding = "utf-8"
	}
	return fsutil.Save(path, text, encoding)
}
