package examimport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ministudy/examimport-go/pkg/examimport/dispatch"
	"github.com/ministudy/examimport-go/pkg/examimport/models"
	"github.com/ministudy/examimport-go/pkg/examimport/parser"
	"github.com/sirupsen/logrus"
)

// Load reads an import file and reconstructs its exams. Tabular input is
// grouped row by row; JSON input is taken as complete exam records.
func Load(path string, opts Options, log logrus.FieldLogger) ([]models.Exam, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, NewLoadError(path, opts.Format, err)
	}

	format, err := opts.ResolveFormat(path)
	if err != nil {
		return nil, err
	}
	log = log.WithFields(logrus.Fields{"file": filepath.Base(path), "format": format})

	if format == FormatJSON {
		exams, err := loadJSON(path)
		if err != nil {
			return nil, NewLoadError(path, format, err)
		}
		log.WithField("exams", len(exams)).Info("exam records loaded")
		return exams, nil
	}

	var table *models.Table
	switch format {
	case FormatCSV:
		table, err = loadCSV(path, opts)
	case FormatXLSX:
		table, err = parser.OpenSheet(path, opts.Sheet)
	}
	if err != nil {
		return nil, NewLoadError(path, format, err)
	}
	if !parser.NewFieldIndex(table.Headers).HasCanonical() {
		return nil, NewLoadError(path, format,
			fmt.Errorf("%w: no known column in %q", parser.ErrNoHeader, table.Headers))
	}

	log.WithField("columns", strings.Join(table.Headers, ", ")).Info("columns detected")
	exams := parser.GroupTable(table, log)
	if len(exams) == 0 {
		log.Warn("no exam found in input")
	}
	return exams, nil
}

func loadCSV(path string, opts Options) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parser.ReadCSV(f, parser.CSVOptions{
		Name:      filepath.Base(path),
		Delimiter: opts.delimiter(path),
		Encoding:  opts.Encoding,
	})
}

func loadJSON(path string) ([]models.Exam, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parser.ReadExamsJSON(f)
}

// Import loads path and submits its exams to sink. Load failures abort
// before anything is submitted.
func Import(ctx context.Context, path string, opts Options, sink dispatch.Sink, log logrus.FieldLogger) (models.Summary, error) {
	exams, err := Load(path, opts, log)
	if err != nil {
		return models.Summary{}, err
	}
	return dispatch.New(sink, log).Run(ctx, exams), nil
}
