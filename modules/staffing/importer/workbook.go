package importer

import (
	"path/filepath"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// Workbook wraps one spreadsheet file and exposes named sheets as raw 2-D
// cell grids. Cells are read with RawCellValue so date cells come back as
// their serial numbers instead of locale-formatted strings.
type Workbook struct {
	f *excelize.File
}

func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, gerrors.Wrapf(err, "failed to open workbook %s", path)
	}
	return &Workbook{f: f}, nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

func (w *Workbook) HasSheet(name string) bool {
	idx, err := w.f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// Grid returns the raw cell grid of the named sheet.
func (w *Workbook) Grid(name string) ([][]string, error) {
	rows, err := w.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, gerrors.Wrapf(err, "failed to read sheet %q", name)
	}
	return rows, nil
}

// IsWorkbookFile reports whether path looks like an importable spreadsheet.
// Office lock files (~$...) and foreign extensions are excluded.
func IsWorkbookFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}
