// Package files provides file system operations for pipeline inputs
// and artifacts.
//
// The Manager handles snapshot copies, workbook discovery, and
// directory upkeep. All operations accept either absolute paths or
// paths relative to the pipeline's data layout ("raw/...",
// "processed/...", "latex/...", "tables/...", "logs/..."), resolved
// against the centralized Paths configuration.
//
// Example usage:
//
//	manager := files.NewManager(paths)
//
//	// Archive the vendor workbook before processing
//	snapshot := paths.GetRawSnapshotPath(filepath.Base(source))
//	if err := manager.CopyFile(source, snapshot); err != nil {
//	    return err
//	}
//
//	// Discover the newest source workbook
//	latest, err := manager.FindLatestWorkbook(paths.RawDir)
package files
