package data

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Table is a simple in-memory tabular structure. The first decoded row is
// treated as the header.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ReadTable decodes delimited text from r into a Table. The delimiter is
// taken from the format (comma for CSV, tab for TSV).
func ReadTable(r io.Reader, format Format) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = format.Delimiter()
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}

	table := &Table{}
	if len(records) > 0 {
		table.Columns = records[0]
		table.Rows = records[1:]
	}

	return table, nil
}

// Write encodes the table as delimited text.
func (t *Table) Write(w io.Writer, format Format) error {
	writer := csv.NewWriter(w)
	writer.Comma = format.Delimiter()

	if len(t.Columns) > 0 {
		if err := writer.Write(t.Columns); err != nil {
			return err
		}
	}

	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// NumRows returns the number of data rows, excluding the header.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx := -1
	for i, col := range t.Columns {
		if col == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("no column named %q", name)
	}

	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			values = append(values, row[idx])
		} else {
			values = append(values, "")
		}
	}

	return values, nil
}
