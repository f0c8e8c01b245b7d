package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ExecutableDir string
	DataDir       string
	RawDir        string
	ProcessedDir  string
	OutputDir     string
	LatexDir      string
	TablesDir     string
	LogsDir       string

	// Well-known processed artifacts
	AllAssetsCSV       string
	AllAssetsXLSX      string
	AllAssetsMsgpack   string
	DataDictionaryCSV  string
	DataDictionaryXLSX string
	DailyReturnsCSV    string
	DailyReturnsPack   string
	MonthlyReturnsCSV  string
	MonthlyReturnsPack string
	RunManifestJSON    string

	// Well-known report artifacts
	AssetClassesTex  string
	RiskBudgetTex    string
	TaxonomyReport   string
	TaxonomyMarkdown string
}

// GetPaths returns the application paths relative to the executable location.
// All paths are ALWAYS relative to the executable directory, never the
// current working directory, so the pipeline behaves the same no matter
// where it is launched from.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return NewPathsWithBase(filepath.Dir(exe)), nil
}

// NewPathsWithBase builds the full path set under an explicit base
// directory. Tests and the -base flag use this instead of the
// executable-relative default.
//
// Directory structure:
//   base/
//     data/
//       raw/         (unmodified source workbook snapshots)
//       processed/   (panels, dictionary, returns, repaired workbooks)
//     output/
//       latex/       (taxonomy and risk-budget tables)
//       tables/      (Markdown tables)
//     logs/
func NewPathsWithBase(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")
	rawDir := filepath.Join(dataDir, "raw")
	processedDir := filepath.Join(dataDir, "processed")
	outputDir := filepath.Join(baseDir, "output")
	latexDir := filepath.Join(outputDir, "latex")
	tablesDir := filepath.Join(outputDir, "tables")

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		RawDir:        rawDir,
		ProcessedDir:  processedDir,
		OutputDir:     outputDir,
		LatexDir:      latexDir,
		TablesDir:     tablesDir,
		LogsDir:       filepath.Join(baseDir, "logs"),

		AllAssetsCSV:       filepath.Join(processedDir, AllAssetsCSVName),
		AllAssetsXLSX:      filepath.Join(processedDir, AllAssetsXLSXName),
		AllAssetsMsgpack:   filepath.Join(processedDir, AllAssetsMsgpackName),
		DataDictionaryCSV:  filepath.Join(processedDir, DataDictionaryCSVName),
		DataDictionaryXLSX: filepath.Join(processedDir, DataDictionaryXLSXName),
		DailyReturnsCSV:    filepath.Join(processedDir, DailyReturnsCSVName),
		DailyReturnsPack:   filepath.Join(processedDir, DailyReturnsMsgpack),
		MonthlyReturnsCSV:  filepath.Join(processedDir, MonthlyReturnsCSVName),
		MonthlyReturnsPack: filepath.Join(processedDir, MonthlyReturnsMsgpack),
		RunManifestJSON:    filepath.Join(processedDir, RunManifestName),

		AssetClassesTex:  filepath.Join(latexDir, AssetClassesTexName),
		RiskBudgetTex:    filepath.Join(latexDir, RiskBudgetTexName),
		TaxonomyReport:   filepath.Join(latexDir, TaxonomyReportName),
		TaxonomyMarkdown: filepath.Join(tablesDir, TaxonomyMarkdownName),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.RawDir,
		p.ProcessedDir,
		p.OutputDir,
		p.LatexDir,
		p.TablesDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetRawSnapshotPath returns the raw-snapshot path for a source workbook
func (p *Paths) GetRawSnapshotPath(filename string) string {
	return filepath.Join(p.RawDir, filepath.Base(filename))
}

// GetRepairedWorkbookPath returns the artifact path for the repaired copy
// of a structurally damaged source workbook.
func (p *Paths) GetRepairedWorkbookPath(sourceFile string) string {
	return filepath.Join(p.ProcessedDir, RepairedFilePrefix+filepath.Base(sourceFile))
}

// GetClassPanelPath returns the per-asset-class panel artifact path
func (p *Paths) GetClassPanelPath(class string) string {
	return filepath.Join(p.ProcessedDir, class+".msgpack")
}

// GetProcessedPath returns the path for a processed artifact file
func (p *Paths) GetProcessedPath(filename string) string {
	return filepath.Join(p.ProcessedDir, filename)
}

// GetLatexPath returns the path for a LaTeX report file
func (p *Paths) GetLatexPath(filename string) string {
	return filepath.Join(p.LatexDir, filename)
}

// GetTablesPath returns the path for a Markdown table file
func (p *Paths) GetTablesPath(filename string) string {
	return filepath.Join(p.TablesDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("raw", p.RawDir),
			slog.String("processed", p.ProcessedDir),
			slog.String("output", p.OutputDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("artifacts",
			slog.String("all_assets_csv", p.AllAssetsCSV),
			slog.String("data_dictionary_csv", p.DataDictionaryCSV),
			slog.String("run_manifest", p.RunManifestJSON),
		))
}
