// Package ingest loads query and reference corpora from CSV, XLSX and
// Postgres sources into the core's record shape. Column resolution,
// header guessing and file errors live here so the matching core never
// sees them.
package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
)

// nameHints and phoneHints are substrings looked for in header cells when
// no explicit column mapping is given. The corpora mix English and Chinese
// headers, so both scripts are covered.
var (
	nameHints  = []string{"company_name", "company", "name", "名称", "公司"}
	phoneHints = []string{"phone_number", "phone", "mobile", "电话", "手机", "联系"}
)

// Columns maps a header row to the positions of the name and phone
// columns. Phone is -1 when no phone column exists.
type Columns struct {
	Name  int
	Phone int
}

// DetectColumns guesses the name and phone columns from a header row.
// Explicit overrides win; otherwise the first header containing a known
// hint is used. A header with no resolvable name column is an error — the
// caller should surface it before any matching starts.
func DetectColumns(header []string, nameCol, phoneCol string) (Columns, error) {
	cols := Columns{Name: -1, Phone: -1}

	for i, h := range header {
		cell := strings.TrimSpace(h)
		switch {
		case nameCol != "" && strings.EqualFold(cell, nameCol):
			cols.Name = i
		case phoneCol != "" && strings.EqualFold(cell, phoneCol):
			cols.Phone = i
		}
	}

	if cols.Name == -1 && nameCol == "" {
		cols.Name = findHint(header, nameHints)
	}
	if cols.Phone == -1 && phoneCol == "" {
		cols.Phone = findHint(header, phoneHints)
	}

	if cols.Name == -1 {
		return cols, eris.Errorf("ingest: no name column found in header %v", header)
	}
	return cols, nil
}

func findHint(header []string, hints []string) int {
	for _, hint := range hints {
		for i, h := range header {
			if strings.Contains(strings.ToLower(strings.TrimSpace(h)), hint) {
				return i
			}
		}
	}
	return -1
}
