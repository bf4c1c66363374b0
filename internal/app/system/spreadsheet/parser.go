// internal/app/system/spreadsheet/parser.go

// Package spreadsheet parses uploaded import files into header-keyed rows.
// Both CSV and XLSX are accepted; XLSX reads the first sheet only. The
// parser knows nothing about user fields — header interpretation belongs to
// the importer's column mapping.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmpty is returned when the file contains no data rows.
	ErrEmpty = errors.New("no data rows found in file")
	// ErrTooManyRows is returned when the file exceeds MaxRows.
	ErrTooManyRows = errors.New("file contains too many rows")
)

// Row is one data row keyed by its column header, exactly as the header
// appeared in the file (trimmed). Values are cell text; numeric cells
// arrive stringified.
type Row map[string]string

// Sheet is the parsed form of one import file.
type Sheet struct {
	Headers []string // trimmed, in file order, blanks removed
	Rows    []Row
}

// xlsxMagic is the ZIP local-file signature; .xlsx files are ZIP containers.
var xlsxMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// Parse reads an uploaded spreadsheet. The first row is always treated as
// the header row; rows where every cell is empty are dropped.
func Parse(data []byte) (Sheet, error) {
	if bytes.HasPrefix(data, xlsxMagic) {
		return parseXLSX(data)
	}
	return parseCSV(data)
}

func parseCSV(data []byte) (Sheet, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Sheet{}, fmt.Errorf("parse csv: %w", err)
		}
		records = append(records, rec)
		if len(records) > MaxRows+1 { // +1 for the header row
			return Sheet{}, ErrTooManyRows
		}
	}
	return fromRecords(records)
}

func parseXLSX(data []byte) (Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Sheet{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	// First-sheet-only semantics; any other sheets are ignored.
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return Sheet{}, ErrEmpty
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return Sheet{}, fmt.Errorf("read xlsx sheet %q: %w", sheet, err)
	}
	if len(records) > MaxRows+1 {
		return Sheet{}, ErrTooManyRows
	}
	return fromRecords(records)
}

func fromRecords(records [][]string) (Sheet, error) {
	if len(records) == 0 {
		return Sheet{}, ErrEmpty
	}

	// Header row: trim, drop blank columns but remember their positions so
	// data cells still line up.
	rawHeader := records[0]
	type col struct {
		name string
		idx  int
	}
	var cols []col
	for i, h := range rawHeader {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		cols = append(cols, col{name: h, idx: i})
	}
	if len(cols) == 0 {
		return Sheet{}, ErrEmpty
	}

	sheet := Sheet{Headers: make([]string, 0, len(cols))}
	for _, c := range cols {
		sheet.Headers = append(sheet.Headers, c.name)
	}

	for _, rec := range records[1:] {
		row := make(Row, len(cols))
		empty := true
		for _, c := range cols {
			if c.idx >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[c.idx])
			if v == "" {
				continue
			}
			row[c.name] = v
			empty = false
		}
		if empty {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	if len(sheet.Rows) == 0 {
		return Sheet{}, ErrEmpty
	}
	return sheet, nil
}
