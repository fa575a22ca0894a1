package dataset

import "github.com/nivedm/datasentry/internal/pii"

// Table is a rectangular dataset of string cells.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Outcome classifies one cell's detection result against ground truth.
type Outcome string

const (
	OutcomeTP Outcome = "TP"
	OutcomeTN Outcome = "TN"
	OutcomeFP Outcome = "FP"
	OutcomeFN Outcome = "FN"
)

// Counts accumulates classification outcomes over a run.
type Counts struct {
	TP int `json:"tp"`
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
}

// Total returns the number of classified cells.
func (c Counts) Total() int { return c.TP + c.TN + c.FP + c.FN }

func (c *Counts) add(o Outcome) {
	switch o {
	case OutcomeTP:
		c.TP++
	case OutcomeTN:
		c.TN++
	case OutcomeFP:
		c.FP++
	case OutcomeFN:
		c.FN++
	}
}

// CellRecord is the per-cell audit trail kept for accuracy reporting.
// Detections holds only validator-confirmed candidates; it is empty for
// TN and FN cells.
type CellRecord struct {
	Row        int         `json:"row"`
	Column     string      `json:"column"`
	Value      string      `json:"value"`
	Outcome    Outcome     `json:"outcome"`
	Detections []pii.Match `json:"detections,omitempty"`
	Note       string      `json:"note,omitempty"`
}

// Result is the output of processing one table.
type Result struct {
	Table        *Table         `json:"table"`
	Counts       Counts         `json:"counts"`
	Records      []CellRecord   `json:"records"`
	ColumnCounts map[string]int `json:"column_counts"`
	Replacements int            `json:"replacements"`
}
