package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/flexa/internal/testframes"
)

// Default configuration constants.
const (
	defaultReps        = 5
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		reps    = flag.Int("reps", defaultReps, "Target repetitions per measurable exercise")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		subject = flag.String("subject", "test-subject", "Subject identifier for the session")
		logFile = flag.String("log", "", "Log file for test output (default: test_log_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testframes.ShowHelp()
		return
	}

	// Setup logging
	if err := testframes.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &testframes.Config{
		BaseURL:   *baseURL,
		Reps:      *reps,
		Timeout:   *timeout,
		SubjectID: *subject,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	// Run the test
	if err := testframes.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
