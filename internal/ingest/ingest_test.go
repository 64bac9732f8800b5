package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/company-match/internal/model"
)

func TestDetectColumns_EnglishHeaders(t *testing.T) {
	cols, err := DetectColumns([]string{"id", "company_name", "phone_number", "city"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, cols.Name)
	assert.Equal(t, 2, cols.Phone)
}

func TestDetectColumns_ChineseHeaders(t *testing.T) {
	cols, err := DetectColumns([]string{"序号", "企业名称", "联系电话"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, cols.Name)
	assert.Equal(t, 2, cols.Phone)
}

func TestDetectColumns_PrefersSpecificHint(t *testing.T) {
	// "company_name" outranks a bare "name" column.
	cols, err := DetectColumns([]string{"contact name", "company_name"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, cols.Name)
}

func TestDetectColumns_ExplicitOverride(t *testing.T) {
	cols, err := DetectColumns([]string{"a", "b", "c"}, "b", "c")
	require.NoError(t, err)
	assert.Equal(t, 1, cols.Name)
	assert.Equal(t, 2, cols.Phone)
}

func TestDetectColumns_NoNameColumn(t *testing.T) {
	_, err := DetectColumns([]string{"id", "city"}, "", "")
	assert.Error(t, err)
}

func TestDetectColumns_NoPhoneIsFine(t *testing.T) {
	cols, err := DetectColumns([]string{"company_name"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, -1, cols.Phone)
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeTempCSV(t, "company_name,phone_number,city\nAl Salem Trading Co,0501234567,Riyadh\nRiyadh Steel,,Riyadh\n")

	recs, err := ReadCSV(Source{Name: "companysa", Path: path})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, model.Source("companysa"), recs[0].Source)
	assert.Equal(t, "Al Salem Trading Co", recs[0].Name)
	assert.Equal(t, "0501234567", recs[0].Phone)
	assert.Equal(t, "Riyadh", recs[0].Fields["city"])

	assert.Equal(t, "", recs[1].Phone)
}

func TestReadCSV_RaggedRows(t *testing.T) {
	path := writeTempCSV(t, "company_name,phone_number\nShort Row\n")

	recs, err := ReadCSV(Source{Name: "companysa", Path: path})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Short Row", recs[0].Name)
	assert.Equal(t, "", recs[0].Phone)
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, err := ReadCSV(Source{Name: "companysa", Path: filepath.Join(t.TempDir(), "nope.csv")})
	assert.Error(t, err)
}

func createTestXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "corpus.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"企业名称", "联系电话"},
		{"شركة الفيصل المحدودة", "+966 50 111 2222"},
		{"Riyadh Steel", ""},
	})

	recs, err := ReadXLSX(Source{Name: "uncrawled", Path: path}, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "شركة الفيصل المحدودة", recs[0].Name)
	assert.Equal(t, "+966 50 111 2222", recs[0].Phone)
	assert.Equal(t, model.Source("uncrawled"), recs[1].Source)
}

func TestReadXLSX_MissingSheet(t *testing.T) {
	path := createTestXLSX(t, [][]string{{"company_name"}})
	_, err := ReadXLSX(Source{Name: "uncrawled", Path: path}, XLSXOptions{SheetName: "Missing"})
	assert.Error(t, err)
}
