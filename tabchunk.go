// Package tabchunk provides a fluent API for turning tabular documents (CSV
// files and Excel workbooks) into length-bounded text chunks, one group per
// row, each chunk prefixed with the row's identifier.
//
// Basic usage:
//
//	text, err := tabchunk.Open("orders.xlsx").Text()
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	chunks, err := tabchunk.Open("orders.csv").
//	    UniqueKey("OrderID").
//	    MaxLen(200).
//	    Encoding("gbk").
//	    Chunks()
//
// The format is chosen by file extension through the format package's
// registry. For lower-level control, open documents with the csvdoc or xlsx
// packages directly.
package tabchunk

import (
	"sync"

	"github.com/tsawler/tabchunk/csvdoc"
	"github.com/tsawler/tabchunk/format"
	"github.com/tsawler/tabchunk/xlsx"
)

// Re-exported error kinds, for use with errors.Is.
var (
	ErrUnsupportedFormat = format.ErrUnsupportedFormat
	ErrFileCorruption    = format.ErrFileCorruption
	ErrPasswordProtected = format.ErrPasswordProtected
)

var registerOnce sync.Once

// registerDefaults installs the built-in adapters in the process-wide
// registry. It runs at most once, before the first resolution.
func registerDefaults() {
	registerOnce.Do(func() {
		format.Register(csvdoc.Kind())
		format.Register(xlsx.Kind())
	})
}

// Register installs an additional adapter kind. A kind registered for an
// extension that is already taken replaces the previous one, including the
// built-in adapters. Register must not be called concurrently with
// extraction.
func Register(k format.Kind) {
	registerDefaults()
	format.Register(k)
}

// Extensions returns every registered file extension in sorted order.
func Extensions() []string {
	registerDefaults()
	return format.Extensions()
}

// Resolve constructs the adapter registered for path's extension with the
// given options. It fails with ErrUnsupportedFormat when the extension is
// missing or unregistered.
func Resolve(path string, opts format.Options) (format.Document, error) {
	registerDefaults()
	return format.Resolve(path, opts)
}

// Open returns an Extractor for filename with default options. Nothing is
// read until a terminal operation such as Text is called.
//
// Example:
//
//	text, err := tabchunk.Open("orders.csv").Text()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		format:   format.Detect(filename),
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	text := tabchunk.Must(tabchunk.Open("orders.csv").Text())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
