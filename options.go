package tabchunk

import (
	"log/slog"

	"github.com/tsawler/tabchunk/chunk"
	"github.com/tsawler/tabchunk/format"
)

// ExtractOptions holds configuration for chunk extraction.
type ExtractOptions struct {
	uniqueKey       string
	maxLen          int
	overheadPadding int
	encoding        string
	logger          *slog.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		uniqueKey:       "OrderID",
		maxLen:          chunk.DefaultMaxLen,
		overheadPadding: chunk.DefaultOverheadPadding,
		encoding:        "utf-8",
		logger:          nil, // slog.Default() at use
	}
}

// clone creates a copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	return o
}

// formatOptions converts to the adapter-level options.
func (o ExtractOptions) formatOptions() format.Options {
	return format.Options{
		UniqueKey:       o.uniqueKey,
		MaxLen:          o.maxLen,
		OverheadPadding: o.overheadPadding,
		Encoding:        o.encoding,
		Logger:          o.logger,
	}
}
