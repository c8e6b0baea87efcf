package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/oarbit/rigger/internal/rosterlab"
)

// Default configuration constants.
const (
	defaultNumAthletes = 14
	defaultBoatClass   = "8+"
	defaultCourseType  = "2000m"
	defaultRuns        = 3
	defaultTopN        = 5
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 60 * time.Second
	defaultLabTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numAthletes = flag.Int("athletes", defaultNumAthletes, "Number of athletes to generate for the roster")
		boatClass   = flag.String("boat", defaultBoatClass, "Boat class to optimize for")
		courseType  = flag.String("course", defaultCourseType, "Course type for predictions and comparisons")
		runs        = flag.Int("runs", defaultRuns, "Number of optimization runs")
		topN        = flag.Int("top", defaultTopN, "Number of lineups to request per run")
		seed        = flag.Int64("seed", 0, "Base search seed; run i uses seed+i (0 = random)")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		rosterFile  = flag.String("roster", "", "Load a roster YAML file instead of generating one")
		outputFile  = flag.String("output", "", "Output file for the roster (default: generated_roster_TIMESTAMP.yaml)")
		logFile     = flag.String("log", "", "Log file for lab output (default: rosterlab_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		rosterlab.ShowHelp()
		return
	}

	// Setup logging
	if err := rosterlab.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultLabTimeout)
	defer cancel()

	// Create lab configuration
	config := &rosterlab.Config{
		BaseURL:     *baseURL,
		NumAthletes: *numAthletes,
		BoatClass:   *boatClass,
		CourseType:  *courseType,
		Runs:        *runs,
		TopN:        *topN,
		Seed:        *seed,
		Workers:     *workers,
		Timeout:     *timeout,
		RosterFile:  *rosterFile,
		OutputFile:  *outputFile,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	// Run the lab
	if err := rosterlab.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Lab failed: " + err.Error() + "\n")
		return
	}
}
