package testframes

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/flexa/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "test_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the test frames tool.
func ShowHelp() {
	os.Stdout.WriteString(`Flexa Frame Test Tool
=====================

Streams synthetic pose frames through the evaluation engine and checks
rep counting across the full exercise cycle.

Usage:
  go run cmd/test-frames/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -reps int
        Target repetitions per measurable exercise (default 5)
  -timeout duration
        HTTP request timeout (default 30s)
  -subject string
        Subject identifier for the session (default "test-subject")
  -log string
        Log file for test output (default: test_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/test-frames/main.go

  # Test with custom parameters
  go run cmd/test-frames/main.go -reps 20 -url http://localhost:8080

  # Test with verbose output
  go run cmd/test-frames/main.go -verbose -reps 10
`)
}
