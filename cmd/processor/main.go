package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"amqcli/internal/config"
	"amqcli/internal/files"
	"amqcli/internal/infrastructure"
	"amqcli/internal/operations"
	"amqcli/internal/validation"
)

func main() {
	sourceFlag := flag.String("source", "", "source workbook (.xlsx); defaults to the configured source, then the newest workbook in data/raw")
	sheetFlag := flag.String("sheet", "", "worksheet to read (defaults to the configured sheet, then the first sheet)")
	baseFlag := flag.String("base", "", "base directory for data/, output/ and logs/ (defaults to the executable directory)")
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
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	anchorLogFile(cfg, paths)
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	sheet := *sheetFlag
	if sheet == "" {
		sheet = cfg.Pipeline.Sheet
	}

	manager := files.NewManager(paths)
	source, err := resolveSource(*sourceFlag, cfg, paths, manager)
	if err != nil {
		logger.Error("No source workbook to process",
			slog.String("raw_dir", paths.RawDir),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateWorkbook(source); err != nil {
		logger.Error("Source workbook rejected",
			slog.String("source", source),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting panel pipeline",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("source", source),
		slog.String("sheet", sheet),
		slog.String("executable_dir", paths.ExecutableDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals so a Ctrl-C stops the run between steps
	// and the failure manifest still gets written.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Warn("Interrupt received, cancelling run", slog.String("signal", sig.String()))
		cancel()
	}()

	runner := operations.NewRunner(paths, nil, logger)
	result, err := runner.Run(ctx, operations.RunRequest{SourcePath: source, Sheet: sheet})
	if err != nil {
		logger.Error("Pipeline run failed",
			slog.String("kind", string(operations.KindOf(err))),
			slog.String("step", operations.StepOf(err)),
			slog.String("error", err.Error()))
		if result != nil && result.Manifest != nil {
			logger.Info("Failure manifest written", slog.String("path", paths.RunManifestJSON))
		}
		os.Exit(1)
	}

	m := result.Manifest
	logger.Info("Pipeline run completed",
		slog.String("run_id", m.RunID),
		slog.String("mode", string(m.Mode)),
		slog.Int("stages", len(m.Stages)),
		slog.Int("artifacts", len(m.Artifacts)),
		slog.String("manifest", paths.RunManifestJSON))
	for _, artifact := range m.Artifacts {
		logger.Debug("Artifact written", slog.String("path", artifact))
	}
}

// resolveSource picks the workbook to process. Priority order: the
// -source flag, the configured pipeline source, then the newest
// candidate workbook in data/raw. Relative paths from flag or config
// are anchored at the executable directory, never the working
// directory.
func resolveSource(flagValue string, cfg *config.Config, paths *config.Paths, manager *files.Manager) (string, error) {
	if flagValue != "" {
		return anchorPath(flagValue, paths.ExecutableDir), nil
	}
	if cfg.Pipeline.SourceFile != "" {
		return anchorPath(cfg.Pipeline.SourceFile, paths.ExecutableDir), nil
	}

	found, err := manager.FindLatestWorkbook(paths.RawDir)
	if err != nil {
		return "", fmt.Errorf("no source configured and discovery failed: %w", err)
	}
	return found, nil
}

// anchorPath resolves a possibly relative path against base
func anchorPath(path, base string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// anchorLogFile pins a relative log file path under the resolved logs
// directory so log output never depends on the working directory.
func anchorLogFile(cfg *config.Config, paths *config.Paths) {
	if cfg.Logging.FilePath == "" || filepath.IsAbs(cfg.Logging.FilePath) {
		return
	}
	cfg.Logging.FilePath = paths.GetLogPath(filepath.Base(cfg.Logging.FilePath))
}
