package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// setupLog configures logging. Without STORYSPEAK_DEBUG set, everything is
// discarded so the TUI stays clean; with it, debug logs go to a file next
// to the cache.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	if os.Getenv("STORYSPEAK_DEBUG") == "" {
		return func() error { return nil }, nil
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("unable to find cache directory: %w", err)
	}
	dir = filepath.Join(dir, "storyspeak")
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "storyspeak.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}

	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	log.SetTimeFormat(time.Kitchen)
	log.SetReportCaller(true)
	return f.Close, nil
}
