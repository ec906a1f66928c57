// Package fetcher loads search term reports from CSV and XLSX files into raw
// rows keyed by the report's own headers.
package fetcher

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ppc-cli/internal/model"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = eris.New("fetcher: unsupported report format")
	// ErrEmptyReport is returned when a report has no header row.
	ErrEmptyReport = eris.New("fetcher: report has no header row")
)

// Format is a report file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks the format from a file name's extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return "", eris.Wrap(ErrUnsupportedFormat, "legacy .xls workbooks must be re-saved as .xlsx")
	default:
		return "", eris.Wrapf(ErrUnsupportedFormat, "%q", filepath.Ext(name))
	}
}

// IsReport reports whether name has a loadable extension.
func IsReport(name string) bool {
	_, err := FormatOf(name)
	return err == nil
}

// Load reads the report at path.
func Load(ctx context.Context, path string) ([]*model.RawRow, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return ReadXLSX(path, XLSXOptions{})
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: open csv")
		}
		defer f.Close() //nolint:errcheck
		return ReadCSV(ctx, f)
	}
}

// Read parses a report from r. name only selects the format, so uploads can
// pass their original file name.
func Read(ctx context.Context, r io.Reader, name string) ([]*model.RawRow, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}

	if format == FormatXLSX {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, r); err != nil {
			return nil, eris.Wrap(err, "fetcher: read xlsx")
		}
		return ReadXLSXBytes(buf.Bytes(), XLSXOptions{})
	}
	return ReadCSV(ctx, r)
}

// rowsFromRecords keys each record by the header row. Blank header cells are
// skipped; cells missing from a short record are nil.
func rowsFromRecords(header []string, records [][]any) []*model.RawRow {
	rows := make([]*model.RawRow, 0, len(records))
	for _, rec := range records {
		row := model.NewRow(len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			var v any
			if i < len(rec) {
				v = rec[i]
			}
			row.Set(h, v)
		}
		rows = append(rows, row)
	}
	return rows
}
