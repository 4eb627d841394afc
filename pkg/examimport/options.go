// Package examimport rebuilds exams from import files and submits them.
package examimport

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the layout of an import file.
type Format string

const (
	// FormatAuto picks the format from the file extension.
	FormatAuto Format = "auto"
	// FormatCSV is a delimited table, one question per row.
	FormatCSV Format = "csv"
	// FormatXLSX is a workbook sheet laid out like FormatCSV.
	FormatXLSX Format = "xlsx"
	// FormatJSON is an array of complete exam records.
	FormatJSON Format = "json"
)

// Options configures loading.
type Options struct {
	// Format of the input; FormatAuto if empty.
	Format Format
	// Sheet names the worksheet for FormatXLSX; the first sheet if empty.
	Sheet string
	// Delimiter for FormatCSV; ',' if zero.
	Delimiter rune
	// Encoding of a FormatCSV file: utf-8, gbk or gb18030.
	Encoding string
}

// DefaultOptions returns default load options.
func DefaultOptions() Options {
	return Options{
		Format: FormatAuto,
	}
}

// ResolveFormat returns the concrete format for path.
func (o Options) ResolveFormat(path string) (Format, error) {
	switch o.Format {
	case FormatCSV, FormatXLSX, FormatJSON:
		return o.Format, nil
	case "", FormatAuto:
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFormat, o.Format)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: cannot infer format of %s", ErrInvalidFormat, filepath.Base(path))
	}
}

// delimiter returns the CSV delimiter, defaulting to a tab for .tsv files.
func (o Options) delimiter(path string) rune {
	if o.Delimiter != 0 {
		return o.Delimiter
	}
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}
