package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ministudy/examimport-go/pkg/examimport/models"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNoHeader indicates the input has no usable header row.
var ErrNoHeader = errors.New("no header row")

// CSVOptions configures ReadCSV.
type CSVOptions struct {
	// Name labels the resulting table.
	Name string
	// Delimiter separates fields; zero means ','.
	Delimiter rune
	// Encoding of the source bytes: utf-8 (default), gbk or gb18030.
	Encoding string
}

// LookupEncoding resolves an encoding name accepted by CSVOptions.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "gbk":
		return simplifiedchinese.GBK, nil
	case "gb18030":
		return simplifiedchinese.GB18030, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// ReadCSV reads a delimited table. A leading byte order mark is dropped
// and rows may have fewer or more fields than the header.
func ReadCSV(r io.Reader, opts CSVOptions) (*models.Table, error) {
	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())))
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if isBlank(header) {
		return nil, ErrNoHeader
	}

	table := &models.Table{Name: opts.Name, Headers: header}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		table.Rows = append(table.Rows, models.Row{Line: line, Values: record})
	}
	return table, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
