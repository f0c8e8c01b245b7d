package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"amqcli/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	// Reset logger state before test
	ResetLoggerForTesting()
	defer ResetLoggerForTesting() // Cleanup after test

	// Create temp directory for logs
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "both",
		FilePath: logFile,
	}

	// Initialize logger
	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if logger == nil {
		t.Fatal("Logger is nil")
	}

	// Test that log file was created
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	// Test logging
	logger.Info("test message", "key", "value")

	// Close log file to allow reading on Windows
	CloseLogFile()

	// Read log file to verify output
	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	// Verify JSON format
	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Errorf("Log output is not valid JSON: %v", err)
	}

	// Verify fields
	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("Expected key='value', got %v", logEntry["key"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}
}

func TestRunIDInjection(t *testing.T) {
	// Reset logger state before test
	ResetLoggerForTesting()
	defer ResetLoggerForTesting() // Cleanup after test

	// Create temp directory for logs
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	cfg := config.LoggingConfig{
		Level:    "debug",
		Format:   "json",
		Output:   "both",
		FilePath: logFile,
	}

	// Initialize logger
	_, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	// Create context with run ID
	ctx := WithRunID(context.Background(), "run_test-123")

	// Get logger with context
	logger := LoggerWithContext(ctx, nil)
	logger.InfoContext(ctx, "test with run id")

	// Close log file to allow reading on Windows
	CloseLogFile()

	// Read log file
	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	// Parse JSON
	var logEntry map[string]interface{}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	lastLine := lines[len(lines)-1]

	if err := json.Unmarshal([]byte(lastLine), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	// Verify run_id
	if logEntry["run_id"] != "run_test-123" {
		t.Errorf("Expected run_id='run_test-123', got %v", logEntry["run_id"])
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"error", "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			// Reset logger state before test
			ResetLoggerForTesting()
			defer ResetLoggerForTesting() // Cleanup after test

			// Create temp directory
			tempDir := t.TempDir()
			logFile := filepath.Join(tempDir, "test.log")

			cfg := config.LoggingConfig{
				Level:    tt.level,
				Format:   "json",
				Output:   "both",
				FilePath: logFile,
			}

			// Initialize logger
			logger, err := InitializeLogger(cfg)
			if err != nil {
				t.Fatalf("Failed to initialize logger: %v", err)
			}

			// Log at the configured level
			switch tt.level {
			case "debug":
				logger.Debug("test debug")
			case "info":
				logger.Info("test info")
			case "warn":
				logger.Warn("test warn")
			case "error":
				logger.Error("test error")
			}

			// Close log file to allow reading on Windows
			CloseLogFile()

			// Read and verify
			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("Failed to read log file: %v", err)
			}

			var logEntry map[string]interface{}
			if err := json.Unmarshal(content, &logEntry); err != nil {
				t.Fatalf("Failed to parse log JSON: %v", err)
			}

			if logEntry["level"] != tt.expected {
				t.Errorf("Expected level=%s, got %v", tt.expected, logEntry["level"])
			}
		})
	}
}

func TestTextFormat(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "text",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info("plain message")
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	// Text format is key=value, not JSON
	if json.Valid(content) {
		t.Error("Expected text output, got valid JSON")
	}
	if !strings.Contains(string(content), "msg=\"plain message\"") {
		t.Errorf("Expected text-format message, got %s", content)
	}
}

func TestContextHelpers(t *testing.T) {
	// Reset logger state before test
	ResetLoggerForTesting()
	defer ResetLoggerForTesting() // Cleanup after test

	// Initialize logger
	cfg := config.Default()
	cfg.Logging.FilePath = filepath.Join(t.TempDir(), "test.log")

	_, err := InitializeLogger(cfg.Logging)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	// Test run ID generation
	runID := GenerateRunID()
	if !strings.HasPrefix(runID, "run_") {
		t.Errorf("Expected generated run ID to have run_ prefix, got %s", runID)
	}

	ctx := WithRunID(context.Background(), runID)
	if GetRunID(ctx) != runID {
		t.Error("Expected run ID round-trip through context")
	}

	// Test ensure run ID (should not change existing)
	ctx2 := EnsureRunID(ctx)
	if GetRunID(ctx2) != runID {
		t.Error("EnsureRunID changed existing run ID")
	}

	// Test ensure run ID (should add if missing)
	ctx3 := EnsureRunID(context.Background())
	if GetRunID(ctx3) == "" {
		t.Error("EnsureRunID did not add run ID")
	}
}

func TestLoggerHelpers(t *testing.T) {
	// Capture output
	var buf bytes.Buffer

	// Create custom logger that writes to buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	globalLogger = logger

	// Test WithComponent
	componentLogger := WithComponent(logger, "preprocessor")
	componentLogger.Info("test message")

	// Verify component field
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	if logEntry["component"] != "preprocessor" {
		t.Errorf("Expected component='preprocessor', got %v", logEntry["component"])
	}

	// Test WithError
	buf.Reset()
	errLogger := WithError(logger, os.ErrNotExist)
	errLogger.Info("error test")

	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	if !strings.Contains(logEntry["error"].(string), "file does not exist") {
		t.Errorf("Expected error to contain 'file does not exist', got %v", logEntry["error"])
	}

	// Test WithFields
	buf.Reset()
	fields := map[string]interface{}{
		"source_file": "data.xlsx",
		"sheet":       "data",
	}
	fieldsLogger := WithFields(logger, fields)
	fieldsLogger.Info("fields test")

	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	if logEntry["source_file"] != "data.xlsx" || logEntry["sheet"] != "data" {
		t.Error("Expected fields not found in log entry")
	}
}
