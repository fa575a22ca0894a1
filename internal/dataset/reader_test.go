package dataset

import (
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path string
		want Format
	}{
		{"data.csv", FormatCSV},
		{"DATA.CSV", FormatCSV},
		{"data.parquet", FormatParquet},
		{"data.json", FormatJSON},
		{"data.jsonl", FormatJSON},
		{"data.ndjson", FormatJSON},
		{"data.xlsx", FormatUnknown},
		{"data", FormatUnknown},
	}
	for _, tc := range cases {
		if got := DetectFormat(tc.path); got != tc.want {
			t.Errorf("DetectFormat(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestReadCSV(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("name,email\nalice,alice@example.com\nbob,bob@example.com\n"))
		if err != nil {
			t.Fatalf("ReadCSV failed: %v", err)
		}
		if len(table.Columns) != 2 || table.Columns[0] != "name" {
			t.Errorf("columns = %v", table.Columns)
		}
		if len(table.Rows) != 2 || table.Rows[1][1] != "bob@example.com" {
			t.Errorf("rows = %v", table.Rows)
		}
	})

	t.Run("RaggedRows", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("a,b,c\n1\n1,2,3,4\n"))
		if err != nil {
			t.Fatalf("ReadCSV failed: %v", err)
		}
		if len(table.Rows[0]) != 3 || table.Rows[0][2] != "" {
			t.Errorf("short row not padded: %v", table.Rows[0])
		}
		if len(table.Rows[1]) != 3 {
			t.Errorf("long row not truncated: %v", table.Rows[1])
		}
	})

	t.Run("EmptyInput", func(t *testing.T) {
		if _, err := ReadCSV(strings.NewReader("")); err == nil {
			t.Error("expected error for missing header")
		}
	})
}

func TestReadJSONLines(t *testing.T) {
	input := `{"name":"alice","phone":"9876543210"}
{"phone":"9123456780","name":"bob","extra":true}
{"name":"carol"}`

	table, err := ReadJSONLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSONLines failed: %v", err)
	}

	// Columns come from the first object, sorted.
	if len(table.Columns) != 2 || table.Columns[0] != "name" || table.Columns[1] != "phone" {
		t.Fatalf("columns = %v", table.Columns)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(table.Rows))
	}
	if table.Rows[1][0] != "bob" || table.Rows[1][1] != "9123456780" {
		t.Errorf("row 1 = %v", table.Rows[1])
	}
	if table.Rows[2][1] != "" {
		t.Errorf("missing key should produce an empty cell, got %q", table.Rows[2][1])
	}
}
