package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/nivedm/datasentry/internal/dataset"
	"github.com/nivedm/datasentry/internal/deid"
	"github.com/nivedm/datasentry/internal/logger"
	"github.com/nivedm/datasentry/internal/pii"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "Input dataset file (csv, parquet, json lines)")
		outputPath = flag.String("output", "", "Output CSV file (default: stdout)")
		strategy   = flag.String("strategy", "Masking", "De-identification strategy")
		detectors  = flag.String("detectors", "all", "Comma-separated PII types to detect")
		logLevel   = flag.String("log-level", "warn", "Log level")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: scrub -input <file> [-output <file>] [-strategy <name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: *logLevel, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	parsedStrategy, ok := deid.ParseStrategy(*strategy)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown strategy %q (available: %v)\n", *strategy, deid.Strategies)
		os.Exit(1)
	}

	types, err := parseDetectors(*detectors)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	table, err := dataset.ReadTable(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read dataset: %v\n", err)
		os.Exit(1)
	}

	processor := dataset.NewProcessor(dataset.Options{
		Strategy: parsedStrategy,
		Types:    types,
	}, log.WithComponent("scrub").Logger)

	result, err := processor.Process(context.Background(), table)
	if err != nil {
		log.Fatal("Processing failed", zap.Error(err))
	}

	if err := writeCSV(*outputPath, result.Table); err != nil {
		log.Fatal("Failed to write output", zap.Error(err))
	}

	printSummary(result)
}

// parseDetectors resolves the -detectors flag into PII types.
// "all" or empty enables every detector.
func parseDetectors(list string) ([]pii.Type, error) {
	list = strings.TrimSpace(list)
	if list == "" || list == "all" {
		return nil, nil
	}

	var types []pii.Type
	for _, name := range strings.Split(list, ",") {
		t, ok := pii.ParseType(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown detector %q (available: %v)", name, pii.AllTypes)
		}
		types = append(types, t)
	}
	return types, nil
}

// writeCSV writes the de-identified table to the given path, or stdout
// when the path is empty.
func writeCSV(path string, table *dataset.Table) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write(table.Columns); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// printSummary writes the run's accuracy report to stderr so it never
// mixes with CSV output on stdout.
func printSummary(result *dataset.Result) {
	summary := dataset.Summarize(result.Counts)

	fmt.Fprintf(os.Stderr, "\nCells processed:  %d\n", summary.TotalSamples)
	fmt.Fprintf(os.Stderr, "Replacements:     %d\n", result.Replacements)
	fmt.Fprintf(os.Stderr, "TP/TN/FP/FN:      %d/%d/%d/%d\n",
		result.Counts.TP, result.Counts.TN, result.Counts.FP, result.Counts.FN)
	fmt.Fprintf(os.Stderr, "Accuracy:         %.2f%%\n", summary.Accuracy)
	fmt.Fprintf(os.Stderr, "Precision:        %.2f%%\n", summary.Precision)
	fmt.Fprintf(os.Stderr, "Recall:           %.2f%%\n", summary.Recall)
	fmt.Fprintf(os.Stderr, "F1 score:         %.2f%%\n", summary.F1Score)
	fmt.Fprintf(os.Stderr, "Grade:            %s\n", dataset.Grade(summary.Accuracy))

	if len(result.ColumnCounts) > 0 {
		fmt.Fprintln(os.Stderr, "\nReplacements by column:")
		for col, n := range result.ColumnCounts {
			fmt.Fprintf(os.Stderr, "  %-20s %d\n", col, n)
		}
	}
}
