// Package format maps document file extensions to the adapters that extract them.
package format

import (
	"path/filepath"
	"strings"
)

// Format represents a supported tabular document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// CSV indicates a delimited text document.
	CSV
	// XLSX indicates a Microsoft Excel workbook.
	XLSX
	// XLSM indicates a macro-enabled Microsoft Excel workbook.
	XLSM
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case CSV:
		return "CSV"
	case XLSX:
		return "XLSX"
	case XLSM:
		return "XLSM"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case CSV:
		return ".csv"
	case XLSX:
		return ".xlsx"
	case XLSM:
		return ".xlsm"
	default:
		return ""
	}
}

// Ext returns the lower-cased text after the final '.' in the file name of
// path, or "" if there is none.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch Ext(filename) {
	case "csv":
		return CSV
	case "xlsx":
		return XLSX
	case "xlsm":
		return XLSM
	default:
		return Unknown
	}
}
