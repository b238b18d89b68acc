package format

import (
	"fmt"
	"log/slog"

	"github.com/tsawler/tabchunk/chunk"
)

// Options configures adapter construction. Field values are taken as given;
// start from DefaultOptions for the standard settings.
type Options struct {
	// UniqueKey is the header name whose column identifies a row.
	UniqueKey string

	// MaxLen is the character budget per chunk. Must be positive.
	MaxLen int

	// OverheadPadding is the slack reserved per field when deciding whether
	// it must be segmented. Zero reserves none. Must not be negative.
	OverheadPadding int

	// Encoding is the character encoding label of delimited text input,
	// e.g. "utf-8" or "gbk" (default: "utf-8"). Ignored by workbook adapters.
	Encoding string

	// Logger for debug messages (default: slog.Default()).
	Logger *slog.Logger
}

// DefaultOptions returns the standard settings: unique key "OrderID", a
// budget of 350 characters, padding 3 and UTF-8 input.
func DefaultOptions() Options {
	return Options{
		UniqueKey:       "OrderID",
		MaxLen:          chunk.DefaultMaxLen,
		OverheadPadding: chunk.DefaultOverheadPadding,
		Encoding:        "utf-8",
	}
}

// WithDefaults returns a copy of o with an empty Encoding and a nil Logger
// replaced by their defaults.
func (o Options) WithDefaults() Options {
	if o.Encoding == "" {
		o.Encoding = "utf-8"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Validate checks the chunking budget.
func (o Options) Validate() error {
	if o.MaxLen <= 0 {
		return fmt.Errorf("max length must be positive, got %d", o.MaxLen)
	}
	if o.OverheadPadding < 0 {
		return fmt.Errorf("overhead padding must not be negative, got %d", o.OverheadPadding)
	}
	return nil
}

// ChunkConfig returns the chunker configuration for a header whose unique-key
// column sits at keyIndex.
func (o Options) ChunkConfig(keyIndex int) chunk.Config {
	return chunk.Config{
		MaxLen:          o.MaxLen,
		KeyIndex:        keyIndex,
		OverheadPadding: o.OverheadPadding,
	}
}
