package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"discrescue/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("exists = true for a missing file")
	}
	if path == "" {
		t.Fatal("resolved path must not be empty")
	}
	if cfg.Copy.ChunkBlocks != 128 {
		t.Fatalf("chunk_blocks = %d, want default 128", cfg.Copy.ChunkBlocks)
	}
	if cfg.Copy.Dedup != "auto" {
		t.Fatalf("dedup = %q, want auto", cfg.Copy.Dedup)
	}
	if cfg.Drive.Device != "/dev/sr0" {
		t.Fatalf("device = %q, want /dev/sr0", cfg.Drive.Device)
	}
	if !cfg.History.Enabled {
		t.Fatal("history must be enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
}

func TestLoadAppliesFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
archive_dir = "` + dir + `/archive"

[drive]
device = "/dev/sr1"

[copy]
chunk_blocks = 64
dedup = "COPY"

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Paths.ArchiveDir != filepath.Join(dir, "archive") {
		t.Fatalf("archive_dir = %q", cfg.Paths.ArchiveDir)
	}
	if cfg.Drive.Device != "/dev/sr1" {
		t.Fatalf("device = %q", cfg.Drive.Device)
	}
	if cfg.Copy.ChunkBlocks != 64 {
		t.Fatalf("chunk_blocks = %d", cfg.Copy.ChunkBlocks)
	}
	if cfg.Copy.Dedup != "copy" {
		t.Fatalf("dedup = %q, want lowercased copy", cfg.Copy.Dedup)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q, want lowercased debug", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad dedup", "[copy]\ndedup = \"rsync\"\n", "copy.dedup"},
		{"bad level", "[logging]\nlevel = \"verbose\"\n", "logging.level"},
		{"bad device", "[drive]\ndevice = \"sr0\"\n", "drive.device"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want mention of %s", err, tc.wantErr)
			}
		})
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := config.ExpandPath("~/archive")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "archive") {
		t.Fatalf("ExpandPath = %q", got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config must load cleanly: %v", err)
	}
	if !exists {
		t.Fatal("sample config not found after creation")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config must validate: %v", err)
	}
}
