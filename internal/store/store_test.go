package store

import (
	"encoding/json"
	"testing"

	"github.com/nivedm/datasentry/internal/dataset"
)

func TestRunCounts(t *testing.T) {
	run := &Run{TP: 3, TN: 10, FP: 1, FN: 2}
	want := dataset.Counts{TP: 3, TN: 10, FP: 1, FN: 2}
	if got := run.Counts(); got != want {
		t.Errorf("Counts() = %+v, want %+v", got, want)
	}
}

func TestColumnCountsRoundTrip(t *testing.T) {
	counts := map[string]int{"email": 4, "phone": 2}
	raw, err := json.Marshal(counts)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	run := &Run{ColumnCounts: raw}
	var decoded map[string]int
	if err := json.Unmarshal(run.ColumnCounts, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["email"] != 4 || decoded["phone"] != 2 {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestMaskDatabaseURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"postgres://app:secret@db:5432/datasentry", "postgres://app:***@db:5432/datasentry"},
		{"postgres://db:5432/datasentry", "postgres://db:5432/datasentry"},
	}
	for _, tc := range cases {
		if got := maskDatabaseURL(tc.url); got != tc.want {
			t.Errorf("maskDatabaseURL(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
