// +build example

package config

import (
	"log/slog"
	"os"
)

// ExampleUsage demonstrates how to use the paths package throughout the application
func ExampleUsage() {
	// Always get paths from the centralized GetPaths() function
	paths, err := GetPaths()
	if err != nil {
		slog.Error("Failed to get paths", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ensure all directories exist at startup
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to ensure directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Log all resolved paths for debugging
	paths.LogPathResolution()

	// Raw snapshot of the source workbook
	snapshot := paths.GetRawSnapshotPath("markets.xlsx")
	slog.Info("raw snapshot", slog.String("path", snapshot))

	// Well-known artifact paths
	slog.Info("panel artifacts",
		slog.String("csv", paths.AllAssetsCSV),
		slog.String("xlsx", paths.AllAssetsXLSX),
		slog.String("msgpack", paths.AllAssetsMsgpack))

	// Per-class sub-panel artifact
	slog.Info("class panel", slog.String("path", paths.GetClassPanelPath("commodities")))
}
