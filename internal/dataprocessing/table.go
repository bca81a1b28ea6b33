package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "attendancify/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a header row plus data rows. Every row has len(Headers) cells;
// an empty cell means the source cell was blank.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Column returns the cells of column i
func (t *Table) Column(i int) []string {
	col := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		col[r] = row[i]
	}
	return col
}

// FindColumn returns the index of the first header that, trimmed and
// lowercased, equals one of aliases. It returns -1 when none does.
func (t *Table) FindColumn(aliases ...string) int {
	for i, h := range t.Headers {
		key := strings.ToLower(strings.TrimSpace(h))
		for _, alias := range aliases {
			if key == alias {
				return i
			}
		}
	}
	return -1
}

// IsSpreadsheet reports whether path has a workbook extension excelize reads
func IsSpreadsheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return true
	}
	return false
}

// IsCSV reports whether path has a .csv extension
func IsCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// ReadTable reads a CSV file or the first sheet of a workbook.
// When trimHeaders is set, header cells are trimmed before deduplication.
func ReadTable(path string, trimHeaders bool) (*Table, error) {
	switch {
	case IsCSV(path):
		rows, err := readCSVRows(path)
		if err != nil {
			return nil, err
		}
		return newTable(rows, trimHeaders), nil
	case IsSpreadsheet(path):
		f, err := openWorkbook(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", filepath.Base(path)), nil)
		}
		return readSheetTable(f, sheets[0], trimHeaders)
	default:
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("unsupported file type %q: expected .csv or .xlsx", filepath.Ext(path)))
	}
}

// openWorkbook opens a workbook, mapping failures to parsing errors
func openWorkbook(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", filepath.Base(path)), err)
	}
	return f, nil
}

func readSheetTable(f *excelize.File, sheet string, trimHeaders bool) (*Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	return newTable(rows, trimHeaders), nil
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open %s", filepath.Base(path)), err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, utf8BOM) {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", filepath.Base(path)), err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// newTable takes the first non-blank row as the header. Blank rows are
// skipped and every row is padded to the widest row.
func newTable(rows [][]string, trimHeaders bool) *Table {
	var data [][]string
	for _, row := range rows {
		if !isBlankRow(row) {
			data = append(data, row)
		}
	}

	t := &Table{}
	if len(data) == 0 {
		return t
	}

	width := 0
	for _, row := range data {
		width = max(width, len(row))
	}

	header := make([]string, width)
	copy(header, data[0])
	if trimHeaders {
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}
	t.Headers = uniqueHeaders(header)

	for _, row := range data[1:] {
		cells := make([]string, width)
		copy(cells, row)
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// uniqueHeaders names blank headers "Unnamed: <index>" and disambiguates
// repeats as "X.1", "X.2", ...
func uniqueHeaders(headers []string) []string {
	out := make([]string, len(headers))
	used := make(map[string]bool, len(headers))
	counts := make(map[string]int, len(headers))
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for used[name] {
			counts[h]++
			name = h + "." + strconv.Itoa(counts[h])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
