package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"

	"amqcli/internal/errors"

	"amqcli/pkg/contracts/domain"
)

// WriteManifest persists the run manifest as indented JSON. The
// manifest is written for failed runs too, so the writer must not
// assume artifact directories already exist.
func WriteManifest(path string, manifest *domain.RunManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errors.NewStorageError("failed to marshal run manifest", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create manifest directory", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewStorageError("failed to write run manifest", err)
	}
	return nil
}

// ReadManifest loads a previously written run manifest
func ReadManifest(path string) (*domain.RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to read run manifest", err)
	}
	var manifest domain.RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.NewParsingError("failed to parse run manifest", err)
	}
	return &manifest, nil
}
