package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"discrescue/internal/dvd"
)

// writeDiscDir lays out a minimal mounted DVD filesystem.
func writeDiscDir(t *testing.T, blocks map[string]int64) string {
	t.Helper()
	root := t.TempDir()
	videoTS := filepath.Join(root, "VIDEO_TS")
	if err := os.MkdirAll(videoTS, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, count := range blocks {
		data := make([]byte, count*dvd.BlockSize)
		for i := range data {
			data[i] = byte(len(name))
		}
		if err := os.WriteFile(filepath.Join(videoTS, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestListCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	source := writeDiscDir(t, map[string]int64{
		"VIDEO_TS.IFO": 1,
		"VTS_01_0.IFO": 2,
		"VTS_01_1.VOB": 4,
	})

	out, err := runCommand(t, "list", source)
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	for _, want := range []string{"VIDEO_TS.IFO", "VTS_01_1.VOB", "3 files"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCopyCommandEndToEnd(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	source := writeDiscDir(t, map[string]int64{
		"VIDEO_TS.IFO": 1,
		"VTS_01_1.VOB": 3,
	})

	out, err := runCommand(t, "copy", source, "Test Movie")
	if err != nil {
		t.Fatalf("copy: %v\n%s", err, out)
	}

	archived := filepath.Join(home, "dvd-archive", "Test Movie", "VIDEO_TS", "VTS_01_1.VOB")
	info, statErr := os.Stat(archived)
	if statErr != nil {
		t.Fatalf("archived file missing: %v\n%s", statErr, out)
	}
	if info.Size() != 3*dvd.BlockSize {
		t.Fatalf("archived size = %d", info.Size())
	}
	if !strings.Contains(out, "Archived 2 files") {
		t.Fatalf("summary missing:\n%s", out)
	}

	// Default config enables history; the run must be visible there.
	histOut, err := runCommand(t, "history")
	if err != nil {
		t.Fatalf("history: %v\n%s", err, histOut)
	}
	if !strings.Contains(histOut, "copy") || !strings.Contains(histOut, "Test Movie") {
		t.Fatalf("history output:\n%s", histOut)
	}
}

func TestLedgerCommandWithoutLedger(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	target := filepath.Join(home, "dvd-archive", "Clean Movie")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "ledger", "Clean Movie")
	if err != nil {
		t.Fatalf("ledger: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No bad ranges recorded") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := runCommand(t, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("output:\n%s", out)
	}

	// Second init without --overwrite must refuse.
	if _, err := runCommand(t, "config", "init"); err == nil {
		t.Fatal("expected error on repeated init")
	}

	out, err = runCommand(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"File", "Blocks"},
		[][]string{{"VTS_01_1.VOB", "512"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(out, "VTS_01_1.VOB") || !strings.Contains(out, "512") {
		t.Fatalf("table output:\n%s", out)
	}
}
