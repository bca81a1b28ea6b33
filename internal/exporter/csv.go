package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvTable is one CSV file: a header row followed by records
type csvTable struct {
	Headers []string
	Records [][]string
}

// writeCSVFile writes table to path through a temporary file in the same
// directory, so readers never see a half-written report. An existing file
// is replaced. With bom the file starts with a UTF-8 byte order mark, which
// Excel needs to detect the encoding.
func writeCSVFile(path string, table csvTable, bom bool) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if bom {
		if _, err := tmp.Write(utf8BOM); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(tmp)
	if len(table.Headers) > 0 {
		if err := cw.Write(table.Headers); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := cw.WriteAll(table.Records); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	if err := tmp.Chmod(0644); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
