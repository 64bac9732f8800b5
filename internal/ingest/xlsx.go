package ingest

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/company-match/internal/model"
)

// XLSXOptions selects the sheet to read. The zero value reads the first
// sheet.
type XLSXOptions struct {
	SheetIndex int
	SheetName  string // if set, overrides SheetIndex
}

// ReadXLSX loads a spreadsheet corpus into raw records. Row 0 is the
// header.
func ReadXLSX(src Source, opts XLSXOptions) ([]model.RawRecord, error) {
	f, err := xlsx.OpenFile(src.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", src.Path)
	}

	sheet, err := pickSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("ingest: %s: empty sheet", src.Path)
	}

	header := rowToStrings(sheet.Rows[0])
	cols, err := DetectColumns(header, src.NameCol, src.PhoneCol)
	if err != nil {
		return nil, err
	}

	var records []model.RawRecord
	for _, row := range sheet.Rows[1:] {
		records = append(records, rowToRecord(src.Name, header, cols, rowToStrings(row)))
	}
	return records, nil
}

func pickSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("ingest: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("ingest: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
