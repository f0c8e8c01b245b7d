package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"amqcli/internal/config"
	"amqcli/internal/dataprocessing"
	"amqcli/internal/files"
	"amqcli/internal/infrastructure"
	"amqcli/internal/taxonomy"
)

func main() {
	sourceFlag := flag.String("source", "", "workbook (.xlsx) to inspect; defaults to the configured source, then the newest workbook in data/raw")
	sheetFlag := flag.String("sheet", "", "worksheet to inspect (defaults to the configured sheet, then the first sheet)")
	baseFlag := flag.String("base", "", "base directory for data/ discovery (defaults to the executable directory)")
	sampleFlag := flag.Int("sample", 5, "number of data body rows to print")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if *baseFlag != "" {
		cfg.Paths.ExecutableDir = *baseFlag
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	// The inspector writes nothing, logs included
	cfg.Logging.Output = "stdout"
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	sheet := *sheetFlag
	if sheet == "" {
		sheet = cfg.Pipeline.Sheet
	}

	source := *sourceFlag
	if source == "" {
		source = cfg.Pipeline.SourceFile
	}
	if source != "" && !filepath.IsAbs(source) {
		source = filepath.Join(paths.ExecutableDir, source)
	}
	if source == "" {
		found, err := files.NewManager(paths).FindLatestWorkbook(paths.RawDir)
		if err != nil {
			logger.Error("No workbook to inspect",
				slog.String("raw_dir", paths.RawDir),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		source = found
	}

	logger.Info("Inspecting workbook",
		slog.String("source", source),
		slog.String("sheet", sheet))

	probe, err := probeWorkbook(source, sheet, *sampleFlag)
	if err != nil {
		logger.Error("Workbook probe failed",
			slog.String("source", source),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	tax := taxonomy.Default()
	diffs, extra := diffHeaders(tax, probe.Headers)
	reasons := suspectReasons(probe, diffs)

	printReport(source, probe, diffs, extra, reasons)

	if len(reasons) > 0 {
		logger.Warn("Sheet is structurally suspect",
			slog.Int("reasons", len(reasons)))
		os.Exit(1)
	}
}

// probeResult is what the inspector learned about one workbook sheet
type probeResult struct {
	Sheet       string
	RawHeaders  []string
	Headers     []string
	HeadersSane bool
	BodyRows    int
	BodyWidth   int
	Sample      [][]string
}

// probeWorkbook reads the header row and counts the data body without
// normalizing anything. sampleRows bounds how many body rows are kept
// for printing.
func probeWorkbook(path, sheet string, sampleRows int) (*probeResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheetName := sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheetName, err)
	}
	if len(rows) <= config.HeaderRowOffset {
		return nil, fmt.Errorf("sheet %q has %d rows, header row expected at offset %d",
			sheetName, len(rows), config.HeaderRowOffset)
	}

	probe := &probeResult{Sheet: sheetName}
	probe.RawHeaders = append([]string(nil), rows[config.HeaderRowOffset]...)
	probe.Headers = dataprocessing.CleanHeaders(probe.RawHeaders)
	probe.HeadersSane = dataprocessing.HeadersLookSane(probe.Headers)

	if len(rows) > config.DataRowOffset {
		for _, row := range rows[config.DataRowOffset:] {
			if isBlankRow(row) {
				continue
			}
			probe.BodyRows++
			if len(row) > probe.BodyWidth {
				probe.BodyWidth = len(row)
			}
			if len(probe.Sample) < sampleRows {
				probe.Sample = append(probe.Sample, row)
			}
		}
	}

	return probe, nil
}

// classDiff compares one asset class against the probed headers
type classDiff struct {
	Group   taxonomy.ClassGroup
	Found   []string
	Missing []string
}

// diffHeaders compares cleaned headers against the taxonomy registry.
// Per class it reports which registered tickers the sheet carries and
// which it lacks; header cells matching no registry entry come back as
// extras. The date column never participates.
func diffHeaders(tax *taxonomy.Taxonomy, headers []string) ([]classDiff, []string) {
	present := make(map[string]bool, len(headers))
	for i, h := range headers {
		if i == config.DateColumnIndex {
			continue
		}
		present[h] = true
	}

	groups := tax.Groups()
	diffs := make([]classDiff, 0, len(groups))
	for _, g := range groups {
		diff := classDiff{Group: g}
		for _, ticker := range g.Tickers {
			if present[ticker] {
				diff.Found = append(diff.Found, ticker)
			} else {
				diff.Missing = append(diff.Missing, ticker)
			}
		}
		diffs = append(diffs, diff)
	}

	classifier := taxonomy.NewClassifier(tax, slog.Default())
	var extra []string
	for i, h := range headers {
		if i == config.DateColumnIndex {
			continue
		}
		if !classifier.Classify(h).IsClassified() {
			extra = append(extra, h)
		}
	}

	return diffs, extra
}

// suspectReasons lists why the sheet would trip the processor's repair
// path. Empty means the sheet looks processable as-is.
func suspectReasons(probe *probeResult, diffs []classDiff) []string {
	var reasons []string
	if !probe.HeadersSane {
		reasons = append(reasons, "probed headers are unusable; the processor would synthesize them from taxonomy order")
	}
	var missing int
	for _, d := range diffs {
		missing += len(d.Missing)
	}
	if missing > 0 {
		reasons = append(reasons, fmt.Sprintf("%d registered tickers are missing from the headers", missing))
	}
	if probe.BodyRows == 0 {
		reasons = append(reasons, "sheet has no data body")
	}
	return reasons
}

func printReport(source string, probe *probeResult, diffs []classDiff, extra, reasons []string) {
	fmt.Println("\n=== WORKBOOK PREFLIGHT ===")
	fmt.Printf("File:    %s\n", source)
	fmt.Printf("Sheet:   %s\n", probe.Sheet)
	fmt.Printf("Headers: %d probed\n", len(probe.Headers))
	fmt.Printf("Body:    %d rows x %d columns\n", probe.BodyRows, probe.BodyWidth)

	fmt.Println("\n=== HEADER DIFF vs TAXONOMY ===")
	fmt.Println("Class                 | Found | Missing")
	fmt.Println("----------------------|-------|--------")
	for _, d := range diffs {
		fmt.Printf("%-21s | %2d/%-2d | %s\n",
			d.Group.Class, len(d.Found), len(d.Group.Tickers), joinOrDash(d.Missing))
	}
	if len(extra) > 0 {
		fmt.Printf("\nColumns outside the taxonomy: %s\n", strings.Join(extra, ", "))
	}

	if len(probe.Sample) > 0 {
		fmt.Printf("\n=== DATA SAMPLE (first %d rows) ===\n", len(probe.Sample))
		for _, row := range probe.Sample {
			fmt.Println(formatSampleRow(row, 6))
		}
	}

	fmt.Println("\n=== VERDICT ===")
	if len(reasons) == 0 {
		fmt.Println("Sheet looks processable as-is.")
		return
	}
	for _, reason := range reasons {
		fmt.Printf("SUSPECT: %s\n", reason)
	}
}

// joinOrDash renders a ticker list, or a dash when there is nothing to
// report, so the diff table keeps its shape.
func joinOrDash(tickers []string) string {
	if len(tickers) == 0 {
		return "-"
	}
	return strings.Join(tickers, ", ")
}

// formatSampleRow renders the first maxCells cells of a body row,
// marking truncation so wide sheets stay readable in a terminal.
func formatSampleRow(row []string, maxCells int) string {
	if len(row) <= maxCells {
		return strings.Join(row, " | ")
	}
	return strings.Join(row[:maxCells], " | ") + " | ..."
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
