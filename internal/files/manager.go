package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"amqcli/internal/config"
)

// Manager provides file management operations for pipeline inputs and
// artifacts: snapshot copies, workbook discovery, and directory upkeep.
type Manager struct {
	paths *config.Paths
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	fullPath := m.resolvePath(path)
	_, err := os.Stat(fullPath)
	exists := err == nil

	slog.Debug("FileExists check",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Bool("exists", exists))

	return exists
}

// CopyFile copies a file from source to destination byte for byte. The
// raw-snapshot stage uses this so the archived workbook is exactly the
// bytes that were ingested. Copying a path onto itself is a no-op:
// creating the destination would truncate the source before it is read.
func (m *Manager) CopyFile(src, dst string) error {
	srcPath := m.resolvePath(src)
	dstPath := m.resolvePath(dst)

	if srcInfo, err := os.Stat(srcPath); err == nil {
		if dstInfo, err := os.Stat(dstPath); err == nil && os.SameFile(srcInfo, dstInfo) {
			slog.Debug("Copy skipped, source and destination are the same file",
				slog.String("path", srcPath))
			return nil
		}
	}

	slog.Info("Copying file",
		slog.String("src", src),
		slog.String("src_path", srcPath),
		slog.String("dst", dst),
		slog.String("dst_path", dstPath))

	// Ensure destination directory exists
	dstDir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	srcFile, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	// Sync to ensure write is complete
	return dstFile.Sync()
}

// GetFileSize returns the size of a file in bytes
func (m *Manager) GetFileSize(path string) (int64, error) {
	fullPath := m.resolvePath(path)
	info, err := os.Stat(fullPath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// ReadFile reads the entire content of a file
func (m *Manager) ReadFile(path string) ([]byte, error) {
	fullPath := m.resolvePath(path)

	slog.Debug("Reading file",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	return os.ReadFile(fullPath)
}

// WriteFile writes data to a file
func (m *Manager) WriteFile(path string, data []byte) error {
	fullPath := m.resolvePath(path)

	slog.Info("Writing file",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Int("size_bytes", len(data)))

	// Ensure directory exists
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return os.WriteFile(fullPath, data, 0644)
}

// ListFiles returns all files in a directory (non-recursive)
func (m *Manager) ListFiles(dir string) ([]string, error) {
	fullPath := m.resolvePath(dir)

	slog.Debug("Listing files",
		slog.String("dir", dir),
		slog.String("full_path", fullPath))
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	fullPath := m.resolvePath(path)

	slog.Debug("Ensuring directory exists",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return os.MkdirAll(fullPath, 0755)
	}
	return nil
}

// FindLatestWorkbook returns the most recently modified .xlsx file in
// the given directory. Excel lock files (~$ prefixed) and repaired
// artifacts are skipped so a re-run never picks up its own output.
func (m *Manager) FindLatestWorkbook(dir string) (string, error) {
	fullDir := m.resolvePath(dir)

	entries, err := os.ReadDir(fullDir)
	if err != nil {
		return "", fmt.Errorf("failed to read workbook directory: %w", err)
	}

	var latest string
	var latestMod int64
	for _, entry := range entries {
		if entry.IsDir() || !isCandidateWorkbook(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().UnixNano() > latestMod {
			latest = entry.Name()
			latestMod = info.ModTime().UnixNano()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("no workbook found in %s", fullDir)
	}

	path := filepath.Join(fullDir, latest)
	slog.Info("Workbook discovered",
		slog.String("dir", fullDir),
		slog.String("file", latest))
	return path, nil
}

// isCandidateWorkbook reports whether a file name looks like a source
// workbook worth ingesting
func isCandidateWorkbook(name string) bool {
	if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return false
	}
	if strings.HasPrefix(name, "~$") {
		return false
	}
	return !strings.HasPrefix(name, config.RepairedFilePrefix)
}

// resolvePath resolves a path relative to the appropriate base directory
func (m *Manager) resolvePath(path string) string {
	// If the path is already absolute, return it as-is
	if filepath.IsAbs(path) {
		return path
	}

	// Determine which directory to use based on the path
	switch {
	case strings.HasPrefix(path, "raw/"):
		return filepath.Join(m.paths.RawDir, strings.TrimPrefix(path, "raw/"))
	case strings.HasPrefix(path, "processed/"):
		return m.paths.GetProcessedPath(strings.TrimPrefix(path, "processed/"))
	case strings.HasPrefix(path, "latex/"):
		return m.paths.GetLatexPath(strings.TrimPrefix(path, "latex/"))
	case strings.HasPrefix(path, "tables/"):
		return m.paths.GetTablesPath(strings.TrimPrefix(path, "tables/"))
	case strings.HasPrefix(path, "logs/"):
		return m.paths.GetLogPath(strings.TrimPrefix(path, "logs/"))
	default:
		// For files in the data directory
		return filepath.Join(m.paths.DataDir, path)
	}
}
