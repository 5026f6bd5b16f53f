package catalog

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"

	"github.com/arthur-debert/pimfix/pkg/errors"
)

// utf8BOM is the byte order mark Excel writes at the start of UTF-8 CSVs.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a CSV file held in memory: a header row and data rows.
type Table struct {
	Header []string
	Rows   [][]string
	// BOM records whether the input started with a UTF-8 byte order
	// mark, so output can be written back the same way.
	BOM bool
}

// Read parses a CSV document with a header row. A leading UTF-8 BOM is
// stripped and remembered.
func Read(r io.Reader, delimiter rune) (*Table, error) {
	br := bufio.NewReader(r)
	bom := false
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		bom = true
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, errors.Wrap(err, errors.ErrCSVRead, "failed to skip byte order mark")
		}
	}

	cr := csv.NewReader(br)
	if delimiter != 0 {
		cr.Comma = delimiter
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCSVRead, "failed to parse CSV")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCSVRead, "CSV has no header row")
	}

	return &Table{
		Header: records[0],
		Rows:   records[1:],
		BOM:    bom,
	}, nil
}

// Write serializes t as CSV, restoring the byte order mark if the input
// had one.
func Write(w io.Writer, t *Table, delimiter rune) error {
	if t.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return errors.Wrap(err, errors.ErrCSVWrite, "failed to write byte order mark")
		}
	}

	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	if err := cw.Write(t.Header); err != nil {
		return errors.Wrap(err, errors.ErrCSVWrite, "failed to write CSV header")
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return errors.Wrap(err, errors.ErrCSVWrite, "failed to write CSV rows")
	}
	return nil
}

// Column returns the index of the named header column.
func (t *Table) Column(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return -1, errors.Newf(errors.ErrFieldMissing, "column %q not found in CSV header", name).
		WithDetail("field", name).
		WithDetail("header", t.Header)
}

// Values returns the named column's value in every row.
func (t *Table) Values(name string) ([]string, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[col]
	}
	return values, nil
}
