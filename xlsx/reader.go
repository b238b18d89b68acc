package xlsx

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/tabchunk/chunk"
	"github.com/tsawler/tabchunk/format"
	"github.com/tsawler/tabchunk/fsutil"
)

// Extensions lists the file extensions handled by this adapter.
var Extensions = []string{"xlsx", "xlsm"}

// Rendered forms of special cell content.
const (
	ImageMarker = "[Image]"
	True        = "TRUE"
	False       = "FALSE"
)

// Kind returns the registry descriptor for Excel workbooks.
func Kind() format.Kind {
	return format.Kind{
		Name:       "xlsx",
		Extensions: Extensions,
		New: func(path string, opts format.Options) (format.Document, error) {
			return Open(path, opts)
		},
	}
}

// SheetMarker returns the line that introduces a sheet's chunks.
func SheetMarker(name string) string {
	return "=== Sheet: " + name + " ==="
}

// Document is an Excel workbook bound to one extraction configuration.
//
// The workbook is opened on first use and released, together with the
// merged-cell cache, when the extraction call returns. A Document is not safe
// for concurrent use.
type Document struct {
	path   string
	format format.Format
	opts   format.Options
	logger *slog.Logger

	file   *excelize.File
	merged map[string]MergeMap // sheet name -> merge map
}

var _ format.Document = (*Document)(nil)

// sheetChunks holds the chunks of one worksheet.
type sheetChunks struct {
	name   string
	chunks []chunk.Chunk
}

// Open validates path and returns a Document. The workbook itself is not
// opened until an extraction method is called.
func Open(path string, opts format.Options) (*Document, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := fsutil.ValidateReadable(path); err != nil {
		return nil, err
	}
	f := format.Detect(path)
	if f == format.Unknown {
		f = format.XLSX
	}
	return &Document{
		path:   path,
		format: f,
		opts:   opts,
		logger: opts.Logger,
		merged: make(map[string]MergeMap),
	}, nil
}

// Path returns the document's file path.
func (d *Document) Path() string { return d.path }

// Format returns the format tag derived from the path's extension.
func (d *Document) Format() format.Format { return d.format }

// Supports reports whether ext is a workbook extension.
func (d *Document) Supports(ext string) bool {
	return format.SupportsExt(Extensions, ext)
}

// open returns the workbook, opening it on first use.
func (d *Document) open() (*excelize.File, error) {
	if d.file != nil {
		return d.file, nil
	}
	f, err := excelize.OpenFile(d.path)
	if err != nil {
		return nil, format.Corrupt(d.path, "open workbook", err)
	}
	d.logger.Debug("opened workbook", "path", d.path, "sheets", f.SheetCount)
	d.file = f
	return f, nil
}

// release closes the workbook and clears the merged-cell cache.
func (d *Document) release() {
	if d.file != nil {
		if err := d.file.Close(); err != nil {
			d.logger.Debug("closing workbook", "path", d.path, "error", err)
		}
		d.file = nil
	}
	clear(d.merged)
}

// ExtractText returns the chunks of every non-empty sheet, each group
// preceded by its sheet marker line, joined by newlines.
func (d *Document) ExtractText() (string, error) {
	sheets, err := d.extract()
	if err != nil {
		return "", err
	}

	var lines []string
	for _, s := range sheets {
		if len(s.chunks) == 0 {
			continue
		}
		lines = append(lines, SheetMarker(s.name))
		for _, c := range s.chunks {
			lines = append(lines, c.Text)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// Chunks returns the chunks of every sheet in workbook order. Each chunk's
// Sheet field names its worksheet.
func (d *Document) Chunks() ([]chunk.Chunk, error) {
	sheets, err := d.extract()
	if err != nil {
		return nil, err
	}
	var out []chunk.Chunk
	for _, s := range sheets {
		out = append(out, s.chunks...)
	}
	return out, nil
}

// ExtractMetadata reports sheet names and whether the workbook contains
// formulas, hyperlinks or merged cells.
func (d *Document) ExtractMetadata() (map[string]any, error) {
	defer d.release()

	f, err := d.open()
	if err != nil {
		return nil, err
	}

	names := f.GetSheetList()
	meta := map[string]any{
		"file_type":        format.Ext(d.path),
		"sheet_count":      len(names),
		"sheet_names":      names,
		"has_formulas":     false,
		"has_hyperlinks":   false,
		"has_merged_cells": false,
	}

	for _, name := range names {
		regions, err := f.GetMergeCells(name)
		if err != nil {
			return nil, format.Corrupt(d.path, "read metadata", err)
		}
		if len(regions) > 0 {
			meta["has_merged_cells"] = true
		}

		formulas, links, err := d.scanCells(f, name)
		if err != nil {
			return nil, format.Corrupt(d.path, "read metadata", err)
		}
		if formulas {
			meta["has_formulas"] = true
		}
		if links {
			meta["has_hyperlinks"] = true
		}
	}
	return meta, nil
}

// scanCells reports whether any cell of the sheet holds a formula or a
// hyperlink.
func (d *Document) scanCells(f *excelize.File, sheet string) (formulas, links bool, err error) {
	rows, cols, err := sheetBounds(f, sheet)
	if err != nil {
		return false, false, err
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			ref := Position{Row: row, Col: col}.Ref()
			if !formulas {
				formula, err := f.GetCellFormula(sheet, ref)
				if err != nil {
					return false, false, err
				}
				formulas = formula != ""
			}
			if !links {
				links, _, err = f.GetCellHyperLink(sheet, ref)
				if err != nil {
					return false, false, err
				}
			}
			if formulas && links {
				return true, true, nil
			}
		}
	}
	return formulas, links, nil
}

// sheetBounds returns the number of rows and columns covered by the sheet's
// declared dimension or its stored cells, whichever is larger.
func sheetBounds(f *excelize.File, sheet string) (rows, cols int, err error) {
	data, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, 0, err
	}
	rows = len(data)
	for _, r := range data {
		cols = max(cols, len(r))
	}

	dim, err := f.GetSheetDimension(sheet)
	if err == nil && dim != "" {
		if r, perr := ParseMergedRegion(dim); perr == nil {
			rows = max(rows, r.EndRow+1)
			cols = max(cols, r.EndCol+1)
		}
	}
	return rows, cols, nil
}

// extract chunks every sheet. The workbook is released on return, whether
// extraction succeeded or not.
func (d *Document) extract() ([]sheetChunks, error) {
	defer d.release()

	f, err := d.open()
	if err != nil {
		return nil, err
	}

	var sheets []sheetChunks
	for _, name := range f.GetSheetList() {
		chunks, err := d.processSheet(f, name)
		if err != nil {
			return nil, format.Corrupt(d.path, fmt.Sprintf("process sheet %q", name), err)
		}
		sheets = append(sheets, sheetChunks{name: name, chunks: chunks})
	}
	return sheets, nil
}

// mergeMap returns the sheet's merged-cell mapping, loading it once per
// extraction.
func (d *Document) mergeMap(f *excelize.File, sheet string) (MergeMap, error) {
	if m, ok := d.merged[sheet]; ok {
		return m, nil
	}

	cells, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, err
	}
	regions := make([]MergedRegion, 0, len(cells))
	for _, mc := range cells {
		r, err := ParseMergedRegion(mc.GetStartAxis() + ":" + mc.GetEndAxis())
		if err != nil {
			d.logger.Debug("skipping merged range", "sheet", sheet, "error", err)
			continue
		}
		regions = append(regions, r)
	}

	m := NewMergeMap(regions)
	d.merged[sheet] = m
	return m, nil
}

func (d *Document) processSheet(f *excelize.File, sheet string) ([]chunk.Chunk, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	merged, err := d.mergeMap(f, sheet)
	if err != nil {
		return nil, err
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	for p := range merged {
		width = max(width, p.Col+1)
	}

	header := headerRow(rows[0], width)
	keyIndex := chunk.KeyIndex(header, d.opts.UniqueKey)
	if keyIndex < 0 {
		keyIndex = 0
	}

	c, err := chunk.New(header, d.opts.ChunkConfig(keyIndex))
	if err != nil {
		return nil, err
	}

	var chunks []chunk.Chunk
	for i := 1; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}

		var key string
		values := make([]string, width)
		for col := range values {
			var raw string
			if col < len(rows[i]) {
				raw = rows[i][col]
			}
			text, plain, err := d.renderCell(f, sheet, merged, Position{Row: i, Col: col}, raw)
			if err != nil {
				return nil, err
			}
			values[col] = text
			if col == keyIndex {
				key = plain
			}
		}

		for _, ch := range c.RowWithKey(i+1, key, values) {
			ch.Sheet = sheet
			chunks = append(chunks, ch)
		}
	}

	d.logger.Debug("processed sheet",
		"path", d.path,
		"sheet", sheet,
		"rows", len(rows)-1,
		"merged_cells", len(merged),
		"chunks", len(chunks),
	)
	return chunks, nil
}

// renderCell returns the display text of the cell at p together with its
// plain value, the text before image or link decoration. A non-anchor merged
// cell takes its anchor's current value. Booleans render as TRUE/FALSE, image
// formulas as the image marker, and a hyperlink on p itself is appended.
func (d *Document) renderCell(f *excelize.File, sheet string, merged MergeMap, p Position, raw string) (text, plain string, err error) {
	source := p
	value := raw
	if anchor, ok := merged.Anchor(p); ok {
		source = anchor
		if value, err = f.GetCellValue(sheet, anchor.Ref()); err != nil {
			return "", "", err
		}
	}

	formula, err := f.GetCellFormula(sheet, source.Ref())
	if err != nil {
		return "", "", err
	}

	if value != "" {
		typ, err := f.GetCellType(sheet, source.Ref())
		if err != nil {
			return "", "", err
		}
		if typ == excelize.CellTypeBool {
			value = renderBool(value)
		}
	}

	plain = value
	text = value
	if isImageFormula(formula) || isImageValue(value) {
		text = ImageMarker
	}

	link, target, err := f.GetCellHyperLink(sheet, p.Ref())
	if err != nil {
		return "", "", err
	}
	if link {
		text += " [Link:" + target + "]"
	}
	return text, plain, nil
}

// headerRow returns the first row extended to width, with empty cells named
// "Column<N>" (1-based).
func headerRow(first []string, width int) []string {
	header := make([]string, width)
	for i := range header {
		if i < len(first) && first[i] != "" {
			header[i] = first[i]
		} else {
			header[i] = "Column" + strconv.Itoa(i+1)
		}
	}
	return header
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// isImageFormula reports whether formula, as stored in the workbook, calls
// IMAGE(). A leading '=' and the "_xlfn." prefix newer Excel versions write
// are ignored.
func isImageFormula(formula string) bool {
	s := strings.ToUpper(strings.TrimSpace(formula))
	s = strings.TrimPrefix(s, "=")
	s = strings.TrimPrefix(s, "_XLFN.")
	return strings.HasPrefix(s, "IMAGE(")
}

// isImageValue reports whether a cell's text value is a literal IMAGE()
// formula. Only the exact "=IMAGE(" and "=_xlfn.IMAGE(" forms match, so that
// ordinary text is never replaced.
func isImageValue(v string) bool {
	return strings.HasPrefix(v, "=IMAGE(") || strings.HasPrefix(v, "=_xlfn.IMAGE(")
}

func renderBool(v string) string {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "1", "TRUE":
		return True
	default:
		return False
	}
}
