package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/grandseiken/wiispace-board/internal/boardseed"
	"github.com/grandseiken/wiispace-board/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumPlayers  = 50
	defaultNumReplays  = 2000
	defaultDupePercent = 5
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numPlayers  = flag.Int("players", defaultNumPlayers, "Number of accounts to register")
		numReplays  = flag.Int("replays", defaultNumReplays, "Number of submissions to generate")
		dupePercent = flag.Int("dupes", defaultDupePercent, "Percentage of submissions re-sent as duplicates")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &boardseed.Config{
		BaseURL:     *baseURL,
		NumPlayers:  *numPlayers,
		NumReplays:  *numReplays,
		DupePercent: *dupePercent,
		Workers:     *workers,
		Timeout:     *timeout,
		Verbose:     *verbose,
	}

	if err := boardseed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		return
	}
}
