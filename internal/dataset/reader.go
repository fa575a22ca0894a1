package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/segmentio/parquet-go"
)

// Format identifies a supported dataset file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatJSON    Format = "json"
	FormatUnknown Format = "unknown"
)

// DetectFormat infers the dataset format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".parquet":
		return FormatParquet
	case ".json", ".jsonl", ".ndjson":
		return FormatJSON
	}
	return FormatUnknown
}

// ReadTable loads a tabular file, dispatching on its extension.
func ReadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	switch DetectFormat(path) {
	case FormatCSV:
		return ReadCSV(file)
	case FormatParquet:
		return ReadParquet(file)
	case FormatJSON:
		return ReadJSONLines(file)
	}
	return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
}

// ReadCSV reads a CSV stream whose first record is the header. Short rows
// are padded and long rows truncated to the header width.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	table := &Table{Columns: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		row := make([]string, len(header))
		copy(row, record)
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ReadJSONLines reads a stream of JSON objects, one per line. Columns are
// taken from the first object's keys, sorted for determinism.
func ReadJSONLines(r io.Reader) (*Table, error) {
	decoder := json.NewDecoder(r)

	table := &Table{}
	for {
		var obj map[string]any
		err := decoder.Decode(&obj)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode JSON record: %w", err)
		}

		if table.Columns == nil {
			for k := range obj {
				table.Columns = append(table.Columns, k)
			}
			sort.Strings(table.Columns)
		}

		row := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			if v, ok := obj[col]; ok && v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ReadParquet reads a flat Parquet file into string cells using the
// low-level row API, so no schema-specific struct is needed.
func ReadParquet(f *os.File) (*Table, error) {
	reader := parquet.NewReader(f)
	defer reader.Close()

	fields := reader.Schema().Fields()
	table := &Table{Columns: make([]string, len(fields))}
	for i, field := range fields {
		table.Columns[i] = field.Name()
	}

	rows := make([]parquet.Row, 64)
	for {
		n, err := reader.ReadRows(rows)
		for _, row := range rows[:n] {
			rec := make([]string, len(table.Columns))
			for _, v := range row {
				ci := v.Column()
				if ci >= 0 && ci < len(rec) && !v.IsNull() {
					rec[ci] = v.String()
				}
			}
			table.Rows = append(table.Rows, rec)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read Parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return table, nil
}
