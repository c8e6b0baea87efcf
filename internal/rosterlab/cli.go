package rosterlab

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/oarbit/rigger/pkg/logger"
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
		logFile = "rosterlab_log_" + timestamp + ".log"
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

// ShowHelp prints usage information for the roster lab tool.
func ShowHelp() {
	os.Stdout.WriteString(`Rigger Roster Lab
=================

A concurrent exercise tool for the rigger lineup optimization service.
It generates a scored roster, runs the genetic search several times,
verifies that every returned lineup honors the boat geometry and the
requested constraints, and cross-checks scores and race-time
predictions through the evaluate, predict and compare endpoints.

Usage:
  go run cmd/rosterlab/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -athletes int
        Number of athletes to generate for the roster (default 14)
  -boat string
        Boat class to optimize for (default "8+")
  -course string
        Course type for predictions and comparisons (default "2000m")
  -runs int
        Number of optimization runs (default 3)
  -top int
        Number of lineups to request per run (default 5)
  -seed int
        Base search seed; run i uses seed+i (default 0 = random)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 60s)
  -roster string
        Load a roster YAML file instead of generating one
  -output string
        Output file for the roster (default: generated_roster_TIMESTAMP.yaml)
  -log string
        Log file for lab output (default: rosterlab_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Optimize a coxed eight from a generated 14-athlete roster
  go run cmd/rosterlab/main.go

  # Bigger squad, straight four, head-race course, deterministic seeds
  go run cmd/rosterlab/main.go -athletes 40 -boat 4- -course head -seed 42

  # Re-run a saved roster against a remote service
  go run cmd/rosterlab/main.go -roster squad.yaml -url http://rigger.staging:9080

  # Stress the engine with many concurrent runs
  go run cmd/rosterlab/main.go -runs 20 -workers 16 -verbose
`)
}
