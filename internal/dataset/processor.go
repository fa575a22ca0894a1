package dataset

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nivedm/datasentry/internal/deid"
	"github.com/nivedm/datasentry/internal/pii"
)

// Scanner looks up previously computed scan outcomes for a cell value.
// Implemented by the Redis scan cache; nil disables caching.
type Scanner interface {
	Get(ctx context.Context, text string) (*Scan, bool)
	Put(ctx context.Context, text string, scan *Scan)
}

// Scan is the cacheable outcome of detecting and validating one cell value.
type Scan struct {
	Matches     []pii.Match `json:"matches"`
	Valid       []bool      `json:"valid"`
	GroundTruth bool        `json:"ground_truth"`
}

// Options configures a Processor.
type Options struct {
	Strategy deid.Strategy
	// Types restricts detection to the given types; empty means all.
	Types []pii.Type
	// Cache, when non-nil, short-circuits detection for repeated values.
	Cache Scanner
	// OnCell, when non-nil, is invoked for every processed cell record.
	OnCell func(CellRecord)
}

// Processor applies detect → validate → classify → de-identify to every
// cell of a table. Each Processor carries its own de-identification session,
// so one Processor corresponds to one run.
type Processor struct {
	strategy deid.Strategy
	session  *deid.Session
	enabled  map[pii.Type]bool
	cache    Scanner
	onCell   func(CellRecord)
	logger   *zap.Logger
}

// NewProcessor creates a processor for a single run.
func NewProcessor(opts Options, logger *zap.Logger) *Processor {
	var enabled map[pii.Type]bool
	if len(opts.Types) > 0 {
		enabled = make(map[pii.Type]bool, len(opts.Types))
		for _, t := range opts.Types {
			enabled[t] = true
		}
	}
	return &Processor{
		strategy: opts.Strategy,
		session:  deid.NewSession(),
		enabled:  enabled,
		cache:    opts.Cache,
		onCell:   opts.OnCell,
		logger:   logger,
	}
}

// Session exposes the run's de-identification session.
func (p *Processor) Session() *deid.Session { return p.session }

// Process scans and rewrites every cell of the table, column by column.
// The input table is not modified.
func (p *Processor) Process(ctx context.Context, table *Table) (*Result, error) {
	result := &Result{
		Table: &Table{
			Columns: append([]string(nil), table.Columns...),
			Rows:    make([][]string, len(table.Rows)),
		},
		ColumnCounts: make(map[string]int),
	}
	for i, row := range table.Rows {
		result.Table.Rows[i] = append([]string(nil), row...)
	}

	for c, col := range table.Columns {
		for r := range table.Rows {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if c >= len(table.Rows[r]) {
				continue
			}
			value := table.Rows[r][c]

			rewritten, record, replaced := p.processCell(ctx, r, col, value)
			result.Table.Rows[r][c] = rewritten
			result.Counts.add(record.Outcome)
			result.Records = append(result.Records, record)
			if replaced > 0 {
				result.ColumnCounts[col] += replaced
				result.Replacements += replaced
			}
			if p.onCell != nil {
				p.onCell(record)
			}
		}
	}

	p.logger.Info("Table processed",
		zap.Int("rows", len(table.Rows)),
		zap.Int("columns", len(table.Columns)),
		zap.Int("tp", result.Counts.TP),
		zap.Int("tn", result.Counts.TN),
		zap.Int("fp", result.Counts.FP),
		zap.Int("fn", result.Counts.FN),
		zap.Int("replacements", result.Replacements),
	)
	return result, nil
}

// processCell classifies a single cell and rewrites its confirmed matches.
func (p *Processor) processCell(ctx context.Context, row int, col, value string) (string, CellRecord, int) {
	scan := p.scan(ctx, value)

	record := CellRecord{Row: row, Column: col, Value: value}

	hasDetection := len(scan.Matches) > 0
	var confirmed []pii.Match
	for i, m := range scan.Matches {
		if scan.Valid[i] {
			confirmed = append(confirmed, m)
		}
	}

	// Decision table: ground truth and validation both route through the
	// same validator set, so disagreement only reflects genuine
	// detection/validation behavior.
	switch {
	case hasDetection && len(confirmed) > 0 && scan.GroundTruth:
		record.Outcome = OutcomeTP
		record.Detections = confirmed
	case hasDetection && len(confirmed) > 0 && !scan.GroundTruth:
		record.Outcome = OutcomeFP
		record.Detections = confirmed
	case hasDetection && scan.GroundTruth:
		record.Outcome = OutcomeFN
		record.Note = "actual PII present but not detected"
	case hasDetection:
		record.Outcome = OutcomeFP
	case scan.GroundTruth:
		record.Outcome = OutcomeFN
		record.Note = "actual PII present but not detected"
	default:
		record.Outcome = OutcomeTN
	}

	if !hasDetection {
		return value, record, 0
	}

	// Replace longest matches first and skip anything contained in an
	// already-replaced string so nested matches are not processed twice.
	ordered := make([]pii.Match, len(scan.Matches))
	copy(ordered, scan.Matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Value) > len(ordered[j].Value)
	})

	rewritten := value
	replaced := 0
	var done []string
	for _, m := range ordered {
		contained := false
		for _, prev := range done {
			if strings.Contains(prev, m.Value) {
				contained = true
				break
			}
		}
		if contained {
			continue
		}
		if !pii.IsValid(m.Type, m.Value) {
			continue
		}

		replacement := p.session.Apply(p.strategy, m.Type, m.Value)
		rewritten = strings.ReplaceAll(rewritten, m.Value, replacement)
		done = append(done, m.Value)
		replaced++

		p.logger.Debug("PII replaced",
			zap.String("type", string(m.Type)),
			zap.String("column", col),
			zap.Int("row", row),
			zap.String("strategy", string(p.strategy)),
		)
	}

	return rewritten, record, replaced
}

// scan detects and validates candidates for a value, consulting the cache
// when one is configured. Detection is deterministic, so cached outcomes are
// always safe to reuse within and across runs.
func (p *Processor) scan(ctx context.Context, value string) *Scan {
	if p.cache != nil {
		if cached, ok := p.cache.Get(ctx, value); ok {
			return p.filterScan(cached)
		}
	}

	matches := pii.Detect(value)
	scan := &Scan{
		Matches: matches,
		Valid:   make([]bool, len(matches)),
	}
	for i, m := range matches {
		scan.Valid[i] = pii.IsValid(m.Type, m.Value)
		if scan.Valid[i] {
			scan.GroundTruth = true
		}
	}

	if p.cache != nil {
		p.cache.Put(ctx, value, scan)
	}
	return p.filterScan(scan)
}

// filterScan drops candidates of disabled types. Ground truth is recomputed
// from the surviving candidates so classification stays consistent with what
// the run can actually detect.
func (p *Processor) filterScan(scan *Scan) *Scan {
	if p.enabled == nil {
		return scan
	}
	out := &Scan{}
	for i, m := range scan.Matches {
		if !p.enabled[m.Type] {
			continue
		}
		out.Matches = append(out.Matches, m)
		out.Valid = append(out.Valid, scan.Valid[i])
		if scan.Valid[i] {
			out.GroundTruth = true
		}
	}
	return out
}
