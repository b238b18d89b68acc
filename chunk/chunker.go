package chunk

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// ItemSeparator separates packed "field: value" items within a chunk.
	ItemSeparator = "; "

	// DefaultOverheadPadding is the formatting slack reserved when deciding
	// whether a single item fits in a chunk.
	DefaultOverheadPadding = 3

	// DefaultMaxLen is the character budget used when none is configured.
	DefaultMaxLen = 350
)

var separatorLen = utf8.RuneCountInString(ItemSeparator)

// Chunk is a bounded text unit derived from one row.
type Chunk struct {
	// Sheet is the worksheet the row came from (empty for single-table formats).
	Sheet string `json:"sheet,omitempty"`

	// RowID is the row's unique identifier as it appears in the prefix.
	RowID string `json:"row_id"`

	// Field is the segmented field name. Empty for packed chunks.
	Field string `json:"field,omitempty"`

	// Part is the 1-based segment number, 0 for packed chunks.
	Part int `json:"part,omitempty"`

	// Text is the rendered chunk, always starting with the ID prefix.
	Text string `json:"text"`
}

// IsSegment reports whether the chunk holds one slice of an oversized field.
func (c Chunk) IsSegment() bool {
	return c.Part > 0
}

// Config controls chunk packing.
type Config struct {
	// MaxLen is the character budget per chunk. Must be positive.
	MaxLen int

	// KeyIndex is the header index of the unique-key column. Out-of-range
	// values make every row fall back to a synthesized ordinal ID.
	KeyIndex int

	// OverheadPadding is reserved slack applied once per field when testing
	// whether an item must be segmented.
	OverheadPadding int
}

// DefaultConfig returns the configuration used by the command-line tool.
func DefaultConfig() Config {
	return Config{
		MaxLen:          DefaultMaxLen,
		KeyIndex:        0,
		OverheadPadding: DefaultOverheadPadding,
	}
}

// Chunker packs rows aligned to a fixed header.
type Chunker struct {
	header []string
	cfg    Config
}

// New creates a Chunker for the given header.
func New(header []string, cfg Config) (*Chunker, error) {
	if cfg.MaxLen <= 0 {
		return nil, fmt.Errorf("max length must be positive, got %d", cfg.MaxLen)
	}
	if cfg.OverheadPadding < 0 {
		return nil, fmt.Errorf("overhead padding must not be negative, got %d", cfg.OverheadPadding)
	}
	h := make([]string, len(header))
	copy(h, header)
	return &Chunker{header: h, cfg: cfg}, nil
}

// Header returns a copy of the header the chunker was built with.
func (c *Chunker) Header() []string {
	h := make([]string, len(c.header))
	copy(h, c.header)
	return h
}

// Row packs one row into chunks. values are normalized to the header width
// first. The row's ID is the value in the key column; ordinal is used for the
// synthesized "ROW<n>" identifier when the key column is out of range or
// empty.
//
// Segments of oversized fields are emitted as soon as the field is reached;
// packed items are emitted when their chunk fills or the row ends.
func (c *Chunker) Row(ordinal int, values []string) []Chunk {
	var key string
	if k := c.cfg.KeyIndex; k >= 0 && k < len(values) && k < len(c.header) {
		key = values[k]
	}
	return c.RowWithKey(ordinal, key, values)
}

// RowWithKey is like Row but takes the row's identifying value explicitly,
// for callers whose rendered key cell carries decoration that must not
// appear in the ID. An empty or blank key yields "ROW<ordinal>".
func (c *Chunker) RowWithKey(ordinal int, key string, values []string) []Chunk {
	values = Normalize(values, len(c.header))

	id := rowID(ordinal, key)
	prefix := IDPrefix(id)
	prefixLen := utf8.RuneCountInString(prefix)

	var (
		chunks []Chunk
		buf    strings.Builder
		bufLen int
	)

	reset := func() {
		buf.Reset()
		buf.WriteString(prefix)
		bufLen = prefixLen
	}
	flush := func() {
		chunks = append(chunks, Chunk{
			RowID: id,
			Text:  strings.TrimSuffix(buf.String(), ItemSeparator),
		})
		reset()
	}

	reset()
	for i, field := range c.header {
		value := Sanitize(values[i])
		item := field + ": " + value
		itemLen := utf8.RuneCountInString(item)

		if prefixLen+itemLen+c.cfg.OverheadPadding > c.cfg.MaxLen {
			chunks = append(chunks, c.segment(id, prefix, field, value)...)
			continue
		}

		if bufLen > prefixLen && bufLen+itemLen+separatorLen > c.cfg.MaxLen {
			flush()
		}
		buf.WriteString(item)
		buf.WriteString(ItemSeparator)
		bufLen += itemLen + separatorLen
	}

	if bufLen > prefixLen {
		flush()
	}
	return chunks
}

// segment splits an oversized field value into part-numbered chunks. An empty
// value still yields one (empty) part so that the field is not lost.
func (c *Chunker) segment(id, prefix, field, value string) []Chunk {
	runes := []rune(value)
	prefixLen := utf8.RuneCountInString(prefix)

	var out []Chunk
	for part, start := 1, 0; start < len(runes) || part == 1; part++ {
		header := SegmentHeader(field, part)
		n := c.cfg.MaxLen - prefixLen - utf8.RuneCountInString(header)
		if n < 1 {
			n = 1
		}
		end := min(start+n, len(runes))

		out = append(out, Chunk{
			RowID: id,
			Field: field,
			Part:  part,
			Text:  prefix + header + string(runes[start:end]),
		})
		start = end
	}
	return out
}

func rowID(ordinal int, key string) string {
	if strings.TrimSpace(key) != "" {
		return Sanitize(key)
	}
	return SyntheticID(ordinal)
}

// IDPrefix returns the prefix every chunk of a row starts with.
func IDPrefix(id string) string {
	return "[ID:" + id + "] "
}

// SegmentHeader returns the label of the n-th segment of field.
func SegmentHeader(field string, part int) string {
	return field + " [Part" + strconv.Itoa(part) + "]: "
}

// SyntheticID returns the identifier used for rows without a usable key value.
func SyntheticID(ordinal int) string {
	return "ROW" + strconv.Itoa(ordinal)
}

// KeyIndex returns the index of key in header (exact, case-sensitive match),
// or -1 if it is absent.
func KeyIndex(header []string, key string) int {
	for i, h := range header {
		if h == key {
			return i
		}
	}
	return -1
}

// Normalize returns values padded with empty strings or truncated so that its
// length equals width. The input slice is never modified.
func Normalize(values []string, width int) []string {
	out := make([]string, width)
	copy(out, values)
	return out
}

// Join renders chunks as a newline-separated text blob.
func Join(chunks []Chunk) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c.Text)
	}
	return b.String()
}
