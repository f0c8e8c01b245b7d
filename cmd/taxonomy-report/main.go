package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"amqcli/internal/config"
	"amqcli/internal/reports"
)

func main() {
	baseFlag := flag.String("base", "", "base directory for output/ (defaults to the executable directory)")
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

	generator := reports.NewGenerator(nil, slog.Default())
	written, err := generator.WriteAll(paths)
	if err != nil {
		slog.Error("Failed to generate taxonomy reports", "error", err)
		os.Exit(1)
	}

	slog.Info("Taxonomy reports generated successfully",
		"count", len(written),
		"latex_dir", paths.LatexDir,
		"tables_dir", paths.TablesDir)

	fmt.Println("\n=== TAXONOMY REPORT ARTIFACTS ===")
	for _, path := range written {
		fmt.Println(path)
	}
}
