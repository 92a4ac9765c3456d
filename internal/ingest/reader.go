// Package ingest turns uploaded spreadsheet files into header/row tables the
// reconciliation core consumes. It never interprets cell values; that is the
// mapper's job.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is one parsed file: the original header row plus every data row keyed
// by header. Rows shorter than the header are padded with "".
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// ReadFile parses an uploaded file by extension. Only .csv and .xlsx are
// accepted; everything else is rejected up front.
func ReadFile(filename string, r io.Reader) (Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return Table{}, fmt.Errorf("unsupported file extension for %s (expected .csv or .xlsx)", filename)
	}
}

// ReadCSV parses a CSV stream. Ragged rows are tolerated; short rows pad with
// empty cells and long rows drop the overflow, since ERP exports are rarely
// rectangular.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Table{}, fmt.Errorf("read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read CSV record: %w", err)
		}
		rows = append(rows, rowFromRecord(header, record))
	}

	return Table{Headers: header, Rows: rows}, nil
}

// ReadXLSX parses the first sheet of an XLSX stream.
func ReadXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("xlsx file has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("xlsx sheet %s is empty", sheets[0])
	}

	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, rowFromRecord(header, record))
	}

	return Table{Headers: header, Rows: rows}, nil
}

// ReadHeader parses only the header row of a CSV stream, for the cheap
// preview the classifier needs.
func ReadHeader(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return header, nil
}

func rowFromRecord(header, record []string) map[string]string {
	row := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(record) {
			row[h] = record[i]
		} else {
			row[h] = ""
		}
	}
	return row
}
