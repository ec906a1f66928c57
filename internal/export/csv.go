package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/skratchdot/open-golang/open"
	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/model"
)

// bom marks the file as UTF-8 for spreadsheet apps.
const bom = "\ufeff"

// Header returns the union of record keys in first-seen order.
func Header(recs []*model.Row) []string {
	seen := make(map[string]bool)
	var header []string
	for _, r := range recs {
		for _, k := range r.Keys() {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	return header
}

// WriteCSV writes recs as a BOM-prefixed CSV with a header row. Missing keys
// are written as empty cells.
func WriteCSV(w io.Writer, recs []*model.Row) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return eris.Wrap(err, "export: write BOM")
	}

	header := Header(recs)
	if len(header) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}

	line := make([]string, len(header))
	for _, r := range recs {
		for i, k := range header {
			v, _ := r.Get(k)
			line[i] = model.CellString(v)
		}
		if err := cw.Write(line); err != nil {
			return eris.Wrap(err, "export: write CSV row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush CSV")
}

// WriteFile writes t into dir and returns the file path.
func WriteFile(dir string, t Table) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "export: create dir")
	}
	path := filepath.Join(dir, t.Filename)

	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "export: create file")
	}
	if err := WriteCSV(f, t.Records); err != nil {
		f.Close() //nolint:errcheck
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", eris.Wrap(err, "export: close file")
	}

	zap.L().Info("export: wrote table",
		zap.String("path", path),
		zap.Int("records", len(t.Records)),
	)
	return path, nil
}

// Opener opens a file with the desktop's default application.
type Opener func(path string) error

// DefaultOpener uses the platform launcher (open, xdg-open, start).
var DefaultOpener Opener = open.Run

// Open hands path to opener, logging instead of failing when no desktop is
// available.
func Open(opener Opener, path string) {
	if opener == nil {
		opener = DefaultOpener
	}
	if err := opener(path); err != nil {
		zap.L().Warn("export: could not open file", zap.String("path", path), zap.Error(err))
	}
}
