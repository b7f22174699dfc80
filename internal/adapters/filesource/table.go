package filesource

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// table is the first sheet of a workbook (or a CSV file) as raw strings,
// with the first row used as header.
type table struct {
	file  string
	index map[string]int
	rows  [][]string
}

func headerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func newTable(file string, records [][]string) *table {
	t := &table{file: file, index: map[string]int{}}
	if len(records) == 0 {
		return t
	}
	for i, h := range records[0] {
		key := headerKey(h)
		if _, dup := t.index[key]; !dup && key != "" {
			t.index[key] = i
		}
	}
	for _, r := range records[1:] {
		if isBlankRow(r) {
			continue
		}
		t.rows = append(t.rows, r)
	}
	return t
}

func isBlankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (t *table) has(col string) bool {
	_, ok := t.index[headerKey(col)]
	return ok
}

// cell returns the trimmed raw value, "" when the column or the cell is absent.
func (t *table) cell(row []string, col string) string {
	i, ok := t.index[headerKey(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// readTable loads .xlsx/.xlsm workbooks with excelize and .csv files with encoding/csv.
func readTable(path string) (*table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported source format %q", filepath.Ext(path))
	}
}

func readWorkbook(path string) (*table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return newTable(path, nil), nil
	}
	// Raw values keep dates as serial numbers instead of the cell's display format.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheets[0], path, err)
	}
	return newTable(path, rows), nil
}

func readCSV(path string) (*table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if first, _, _ := bytes.Cut(data, []byte("\n")); bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		r.Comma = ';'
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return newTable(path, records), nil
}
