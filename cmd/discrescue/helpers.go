package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"discrescue/internal/config"
	"discrescue/internal/history"
	"discrescue/internal/logging"
	"discrescue/internal/preflight"
)

// resolveTarget maps a source and optional explicit name to the archive
// directory for this disc.
func resolveTarget(cfg *config.Config, name string) string {
	return filepath.Join(cfg.Paths.ArchiveDir, name)
}

// resolveExistingTarget accepts either an absolute archive path or a name
// under the configured archive directory.
func resolveExistingTarget(cfg *config.Config, arg string) (string, error) {
	expanded, err := config.ExpandPath(arg)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(expanded); err == nil {
		return expanded, nil
	}
	inArchive := filepath.Join(cfg.Paths.ArchiveDir, arg)
	if _, err := os.Stat(inArchive); err == nil {
		return inArchive, nil
	}
	return expanded, nil
}

func printPreflight(out io.Writer, results []preflight.Result) {
	for _, r := range results {
		mark := "ok"
		if !r.Passed {
			mark = "!!"
		}
		fmt.Fprintf(out, "[%s] %s: %s\n", mark, r.Name, r.Detail)
	}
}

// recordRun persists a finished run. History is informational, so every
// failure here downgrades to a warning.
func recordRun(cfg *config.Config, logger *slog.Logger, run history.Run) {
	if cfg == nil || !cfg.History.Enabled {
		return
	}
	if err := os.MkdirAll(filepath.Dir(cfg.History.Path), 0o755); err != nil {
		logger.Warn("history unavailable", logging.Error(err))
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("history unavailable", logging.Error(err))
		return
	}
	defer store.Close()
	if err := store.RecordRun(context.Background(), run); err != nil {
		logger.Warn("failed to record run history", logging.Error(err))
	}
}
