// Package report renders match results to XLSX and CSV and computes the
// run summary statistics.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/company-match/internal/model"
)

var columns = []string{
	"query_name", "query_phone",
	"ref_source", "ref_name", "ref_phone",
	"score", "kind", "phone_matched",
}

// WriteXLSX writes the results to a single-sheet workbook.
func WriteXLSX(path string, results []model.MatchResult) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("matches")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, c := range columns {
		header.AddCell().SetString(c)
	}
	for _, r := range results {
		row := sheet.AddRow()
		for _, cell := range resultCells(r) {
			row.AddCell().SetString(cell)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

// WriteCSV writes the results as CSV with the same columns as WriteXLSX.
func WriteCSV(path string, results []model.MatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return eris.Wrap(err, "report: write header")
	}
	for _, r := range results {
		if err := w.Write(resultCells(r)); err != nil {
			return eris.Wrap(err, "report: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "report: flush")
	}
	return nil
}

func resultCells(r model.MatchResult) []string {
	return []string{
		r.QueryName, r.QueryPhone,
		string(r.RefSource), r.RefName, r.RefPhone,
		strconv.FormatFloat(r.Score, 'f', 3, 64),
		r.Kind.String(),
		strconv.FormatBool(r.PhoneMatched),
	}
}

// Summary aggregates one run's results the way the operators eyeball them:
// per-source and per-kind counts, a score histogram and the phone-bearing
// match count.
type Summary struct {
	Total        int            `json:"total"`
	BySource     map[string]int `json:"by_source"`
	ByKind       map[string]int `json:"by_kind"`
	ScoreBuckets map[string]int `json:"score_buckets"`
	WithPhone    int            `json:"with_phone"`
}

// scoreBucket labels follow the historical report: (0,0.6], (0.6,0.7], ...
func scoreBucket(s float64) string {
	switch {
	case s <= 0.6:
		return "(0.0,0.6]"
	case s <= 0.7:
		return "(0.6,0.7]"
	case s <= 0.8:
		return "(0.7,0.8]"
	case s <= 0.9:
		return "(0.8,0.9]"
	default:
		return "(0.9,1.0]"
	}
}

// Summarize computes the run summary.
func Summarize(results []model.MatchResult) Summary {
	s := Summary{
		Total:        len(results),
		BySource:     make(map[string]int),
		ByKind:       make(map[string]int),
		ScoreBuckets: make(map[string]int),
	}
	for _, r := range results {
		s.BySource[string(r.RefSource)]++
		s.ByKind[r.Kind.String()]++
		s.ScoreBuckets[scoreBucket(r.Score)]++
		if r.RefPhone != "" {
			s.WithPhone++
		}
	}
	return s
}

// String renders a compact one-line form for log fields.
func (s Summary) String() string {
	return fmt.Sprintf("total=%d with_phone=%d kinds=%v", s.Total, s.WithPhone, s.ByKind)
}
