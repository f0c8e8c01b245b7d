package exporter

import (
	"fmt"
	"log/slog"

	"amqcli/internal/config"
	"amqcli/pkg/contracts/domain"
)

// ClassPanelExporter writes the per-asset-class sub-panel artifacts
type ClassPanelExporter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewClassPanelExporter creates a new class panel exporter. A nil
// logger falls back to slog.Default().
func NewClassPanelExporter(paths *config.Paths, logger *slog.Logger) *ClassPanelExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassPanelExporter{paths: paths, logger: logger}
}

// ExportClassPanels writes one msgpack artifact per asset class, in the
// partition's class order, and returns the paths written. Classes the
// partition carries no columns for are skipped.
func (e *ClassPanelExporter) ExportClassPanels(partition *domain.ClassifiedPartition) ([]string, error) {
	var written []string
	for _, class := range partition.Order {
		panel, ok := partition.Panels[class]
		if !ok || panel.NumColumns() == 0 {
			continue
		}

		path := e.paths.GetClassPanelPath(string(class))
		if err := WritePanelMsgpack(path, panel); err != nil {
			return written, fmt.Errorf("failed to export %s panel: %w", class, err)
		}

		e.logger.Info("class panel written",
			slog.String("class", string(class)),
			slog.String("path", path),
			slog.Int("columns", panel.NumColumns()))
		written = append(written, path)
	}
	return written, nil
}
