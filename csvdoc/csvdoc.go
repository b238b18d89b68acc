// Package csvdoc extracts length-bounded row chunks from delimited text files.
//
// The first record is the header. Every following record is aligned to the
// header width (padded with empty values or truncated) and packed by the
// chunk package. All read and parse faults are reported as
// *format.CorruptionError.
package csvdoc

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tsawler/tabchunk/chunk"
	"github.com/tsawler/tabchunk/format"
	"github.com/tsawler/tabchunk/fsutil"
	"github.com/tsawler/tabchunk/textenc"
)

// Extensions lists the file extensions handled by this adapter.
var Extensions = []string{"csv"}

// SheetName is the single logical sheet reported in metadata.
const SheetName = "Sheet1"

var errNoHeader = errors.New("empty CSV or missing header")

// Kind returns the registry descriptor for CSV documents.
func Kind() format.Kind {
	return format.Kind{
		Name:       "csv",
		Extensions: Extensions,
		New: func(path string, opts format.Options) (format.Document, error) {
			return Open(path, opts)
		},
	}
}

// Document is a CSV file bound to one extraction configuration.
type Document struct {
	path   string
	opts   format.Options
	logger *slog.Logger
}

var _ format.Document = (*Document)(nil)

// Open validates path and returns a Document. The file is not parsed until
// an extraction method is called.
func Open(path string, opts format.Options) (*Document, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !textenc.Valid(opts.Encoding) {
		return nil, fmt.Errorf("unknown input encoding %q", opts.Encoding)
	}
	if err := fsutil.ValidateReadable(path); err != nil {
		return nil, err
	}
	return &Document{
		path:   path,
		opts:   opts,
		logger: opts.Logger,
	}, nil
}

// Path returns the document's file path.
func (d *Document) Path() string { return d.path }

// Format returns format.CSV.
func (d *Document) Format() format.Format { return format.CSV }

// Supports reports whether ext is a CSV extension.
func (d *Document) Supports(ext string) bool {
	return format.SupportsExt(Extensions, ext)
}

// ExtractText returns every chunk of the file joined by newlines.
func (d *Document) ExtractText() (string, error) {
	chunks, err := d.Chunks()
	if err != nil {
		return "", err
	}
	return chunk.Join(chunks), nil
}

// ExtractMetadata describes the file as a single-sheet document.
func (d *Document) ExtractMetadata() (map[string]any, error) {
	return map[string]any{
		"file_type":    format.Ext(d.path),
		"sheet_count":  1,
		"sheet_names":  []string{SheetName},
		"has_formulas": false,
	}, nil
}

// Chunks parses the file and returns its chunks in row order.
func (d *Document) Chunks() ([]chunk.Chunk, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, format.Corrupt(d.path, "open csv", err)
	}
	defer f.Close()

	chunks, rows, err := d.read(f)
	if err != nil {
		return nil, format.Corrupt(d.path, "read csv", err)
	}

	d.logger.Debug("extracted csv",
		"path", d.path,
		"rows", rows,
		"chunks", len(chunks),
	)
	return chunks, nil
}

func (d *Document) read(src io.Reader) ([]chunk.Chunk, int, error) {
	dec, err := textenc.NewReader(src, d.opts.Encoding)
	if err != nil {
		return nil, 0, err
	}

	r := csv.NewReader(dec)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, 0, errNoHeader
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}

	keyIndex := chunk.KeyIndex(header, d.opts.UniqueKey)
	if keyIndex < 0 {
		d.logger.Debug("unique key not in header, using first column",
			"path", d.path,
			"key", d.opts.UniqueKey,
		)
		keyIndex = 0
	}

	c, err := chunk.New(header, d.opts.ChunkConfig(keyIndex))
	if err != nil {
		return nil, 0, err
	}

	var chunks []chunk.Chunk
	rows := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rows, fmt.Errorf("reading row %d: %w", rows+1, err)
		}
		rows++
		chunks = append(chunks, c.Row(rows, record)...)
	}
	return chunks, rows, nil
}
