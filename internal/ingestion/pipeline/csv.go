package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one data record keyed by header name. When a header repeats, the
// rightmost cell wins.
type Row map[string]string

func (r Row) Get(column string) string { return r[column] }

// Table is a parsed CSV file: the header in file order plus its data rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// decodeText strips a leading BOM and replaces invalid UTF-8 sequences.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	return strings.ToValidUTF8(string(data), "�")
}

// ParseCSV parses comma separated data with a header row. Cells are trimmed
// and blank lines, including lines holding only whitespace, are skipped. Rows
// of empty cells are kept. Rows whose field count differs from the header are
// rejected.
func ParseCSV(data []byte) (*Table, error) {
	r := csv.NewReader(strings.NewReader(decodeText(data)))
	r.TrimLeadingSpace = true
	r.ReuseRecord = false
	r.FieldsPerRecord = -1

	header, err := nextRecord(r)
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedInput, err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	t := &Table{Columns: columns}
	for {
		rec, err := nextRecord(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		if len(rec) != len(columns) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%w: record on line %d: wrong number of fields", ErrMalformedInput, line)
		}
		row := make(Row, len(columns))
		for i, cell := range rec {
			row[columns[i]] = strings.TrimSpace(cell)
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, ErrEmptyInput
	}
	return t, nil
}

// nextRecord reads the next record, skipping lines that hold only whitespace.
func nextRecord(r *csv.Reader) ([]string, error) {
	for {
		rec, err := r.Read()
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		return rec, nil
	}
}
