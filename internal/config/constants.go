package config

// Application constants - all hardcoded values for the panel pipeline
const (
	// Application Info
	AppName    = "AMQ Panel Pipeline"
	AppVersion = "1.2.0"

	// Workbook Layout Contract
	// The vendor extract places headers and data at fixed row offsets:
	// rows 0-2 are banner/metadata, row 3 holds the header cells, rows
	// 4-6 repeat field metadata, and observations start at row 7. The
	// first column is always the date index.
	HeaderRowOffset = 3
	DataRowOffset   = 7
	DateColumnIndex = 0

	// DateHeaderLabel is the canonical label substituted for a blank or
	// placeholder first header cell.
	DateHeaderLabel = "Date"

	// RepairedFilePrefix names repaired workbook artifacts written under
	// data/processed. The source file is never overwritten.
	RepairedFilePrefix = "fixed_"

	// File Paths (relative to executable)
	DefaultDataDir      = "data"
	DefaultRawDir       = "data/raw"
	DefaultProcessedDir = "data/processed"
	DefaultOutputDir    = "output"
	DefaultLogsDir      = "logs"

	// Log Settings
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultLogFileName = "pipeline.log"
)

// Well-known artifact file names under data/processed and output/
const (
	AllAssetsCSVName       = "all_assets.csv"
	AllAssetsXLSXName      = "all_assets.xlsx"
	AllAssetsMsgpackName   = "all_assets.msgpack"
	DataDictionaryCSVName  = "data_dictionary.csv"
	DataDictionaryXLSXName = "data_dictionary.xlsx"
	DailyReturnsCSVName    = "daily_returns.csv"
	DailyReturnsMsgpack    = "daily_returns.msgpack"
	MonthlyReturnsCSVName  = "monthly_returns.csv"
	MonthlyReturnsMsgpack  = "monthly_returns.msgpack"
	RunManifestName        = "run_manifest.json"

	AssetClassesTexName  = "asset_classes.tex"
	RiskBudgetTexName    = "risk_budget.tex"
	TaxonomyReportName   = "taxonomy_report.tex"
	TaxonomyMarkdownName = "taxonomy_tables.md"
)
