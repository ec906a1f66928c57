package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/model"
)

// XLSXOptions configures the XLSX parser.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadXLSX reads the report sheet of an XLSX file. The first row is the
// header.
func ReadXLSX(path string, opts XLSXOptions) ([]*model.RawRow, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: open xlsx")
	}
	return readWorkbook(f, opts)
}

// ReadXLSXBytes is ReadXLSX for an in-memory workbook.
func ReadXLSXBytes(data []byte, opts XLSXOptions) ([]*model.RawRow, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: open xlsx")
	}
	return readWorkbook(f, opts)
}

func readWorkbook(f *xlsx.File, opts XLSXOptions) ([]*model.RawRow, error) {
	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var header []string
	var records [][]any
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		if header == nil {
			header = headerCells(row)
			continue
		}
		records = append(records, rowValues(row, f.Date1904))
	}
	if header == nil {
		return nil, ErrEmptyReport
	}

	zap.L().Debug("fetcher: xlsx loaded",
		zap.String("sheet", sheet.Name),
		zap.Int("columns", len(header)),
		zap.Int("rows", len(records)),
	)
	return rowsFromRecords(header, records), nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("fetcher: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("fetcher: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

// headerCells returns the header row as strings, or nil when every cell is
// blank.
func headerCells(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	blank := true
	for i, c := range row.Cells {
		cells[i] = c.String()
		if cells[i] != "" {
			blank = false
		}
	}
	if blank {
		return nil
	}
	return cells
}

func rowValues(row *xlsx.Row, date1904 bool) []any {
	out := make([]any, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = cellValue(c, date1904)
	}
	return out
}

// cellValue maps a cell to the closest Go value: float64 for numbers,
// time.Time for date-formatted numbers, bool, string, or nil when empty.
func cellValue(c *xlsx.Cell, date1904 bool) any {
	if c == nil || c.Value == "" {
		return nil
	}
	switch c.Type() {
	case xlsx.CellTypeNumeric, xlsx.CellTypeDate:
		f, err := c.Float()
		if err != nil {
			return c.String()
		}
		if c.IsTime() {
			return xlsx.TimeFromExcelTime(f, date1904)
		}
		return f
	case xlsx.CellTypeBool:
		return c.Bool()
	default:
		return c.String()
	}
}
