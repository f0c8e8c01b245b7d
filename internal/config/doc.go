// Package config provides centralized configuration management for the
// panel pipeline. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration
// values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration files (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern AMQ_* for namespacing:
//
//	AMQ_PIPELINE_SOURCE_FILE=data/raw/markets.xlsx
//	AMQ_PIPELINE_SHEET=Prices
//	AMQ_LOGGING_LEVEL=info
//	AMQ_PATHS_DATA_DIR=data
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	snapshot := paths.GetRawSnapshotPath("markets.xlsx")
//	panel := paths.AllAssetsCSV
//
// The workbook layout contract (header row offset, data row offset, date
// column position) lives in this package too, so every component reads
// the same constants.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
