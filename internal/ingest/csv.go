package ingest

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/company-match/internal/model"
)

// Source describes one tabular input: where it came from, which file, and
// optional explicit column overrides for when header guessing is wrong.
type Source struct {
	Name     model.Source
	Path     string
	NameCol  string
	PhoneCol string
}

// ReadCSV loads a CSV corpus into raw records. The first row is the
// header; every subsequent row becomes one record with the full row kept
// in Fields.
func ReadCSV(src Source) ([]model.RawRecord, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", src.Path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are common in these extracts

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read header of %s", src.Path)
	}
	cols, err := DetectColumns(header, src.NameCol, src.PhoneCol)
	if err != nil {
		return nil, err
	}

	var records []model.RawRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: read %s", src.Path)
		}
		records = append(records, rowToRecord(src.Name, header, cols, row))
	}
	return records, nil
}

// rowToRecord builds a RawRecord from one tabular row. Cells beyond the
// header length are dropped; missing cells degrade to empty values.
func rowToRecord(source model.Source, header []string, cols Columns, row []string) model.RawRecord {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}

	fields := make(map[string]string, len(header))
	for i, h := range header {
		fields[h] = cell(i)
	}

	return model.RawRecord{
		Source: source,
		Name:   cell(cols.Name),
		Phone:  cell(cols.Phone),
		Fields: fields,
	}
}
