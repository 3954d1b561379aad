package ledger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"discrescue/internal/dvd"
)

type fakeCatalog struct {
	files []*dvd.Descriptor
}

func (c *fakeCatalog) Files() []*dvd.Descriptor { return c.files }

func (c *fakeCatalog) Find(title int, domain dvd.Domain, number int) *dvd.Descriptor {
	for _, d := range c.files {
		if d.SameIdentity(title, domain, number) {
			return d
		}
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecordLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.bad")

	vob := &dvd.Descriptor{Title: 1, Domain: dvd.DomainTitle, Number: 1, SizeBlocks: 1000}
	ifo := &dvd.Descriptor{Title: 1, Domain: dvd.DomainInfo, SizeBlocks: 10}
	cat := &fakeCatalog{files: []*dvd.Descriptor{ifo, vob}}

	l := New(path, quietLogger())
	if err := l.Record(vob, 128, 128); err != nil {
		t.Fatal(err)
	}
	if err := l.Record(ifo, 4, 2); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	ranges, err := Load(path, cat, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(ranges) != 2 {
		t.Fatalf("loaded %d ranges, want 2", len(ranges))
	}
	if ranges[0].File != vob || ranges[0].Start != 128 || ranges[0].Count != 128 {
		t.Fatalf("first range wrong: %+v", ranges[0])
	}
	if ranges[1].File != ifo || ranges[1].Start != 4 || ranges[1].Count != 2 {
		t.Fatalf("second range wrong: %+v", ranges[1])
	}
}

func TestLoadMissingLedgerIsEmpty(t *testing.T) {
	ranges, err := Load(filepath.Join(t.TempDir(), "never-written.bad"), &fakeCatalog{}, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(ranges) != 0 {
		t.Fatalf("expected no ranges, got %d", len(ranges))
	}
}

func TestLoadSkipsMalformedAndUnresolvedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.bad")

	content := "VIDEO_TS/VTS_01_1.VOB: 1,3,1  128 (64)\n" +
		"this line is garbage\n" +
		"VIDEO_TS/VTS_09_1.VOB: 9,3,1  0 (16)\n" + // not in catalog
		"\n" +
		"VIDEO_TS/VTS_01_1.VOB: 1,3,1  512 (1)\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	vob := &dvd.Descriptor{Title: 1, Domain: dvd.DomainTitle, Number: 1, SizeBlocks: 1000}
	ranges, err := Load(path, &fakeCatalog{files: []*dvd.Descriptor{vob}}, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(ranges) != 2 {
		t.Fatalf("loaded %d ranges, want 2 resolvable ones", len(ranges))
	}
	if ranges[1].Start != 512 || ranges[1].Count != 1 {
		t.Fatalf("second resolvable range wrong: %+v", ranges[1])
	}
}

func TestRecordsParsesWithoutCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.bad")

	content := "VIDEO_TS/VTS_01_1.VOB: 1,3,1  128 (64)\n" +
		"garbage line\n" +
		"VIDEO_TS/VTS_09_1.VOB: 9,3,1  0 (16)\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	records, malformed, err := Records(path)
	if err != nil {
		t.Fatal(err)
	}
	if malformed != 1 {
		t.Fatalf("malformed = %d, want 1", malformed)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	// Records never resolves identities, so the unknown title survives.
	if records[1].Title != 9 || records[1].Count != 16 {
		t.Fatalf("second record = %+v", records[1])
	}
	if records[0].Name != "VIDEO_TS/VTS_01_1.VOB" || records[0].Start != 128 {
		t.Fatalf("first record = %+v", records[0])
	}

	none, malformed, err := Records(filepath.Join(dir, "absent.bad"))
	if err != nil || malformed != 0 || len(none) != 0 {
		t.Fatalf("absent ledger: %v %d %v", none, malformed, err)
	}
}

func TestLedgerNeverCreatedWithoutRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.bad")

	l := New(path, quietLogger())
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("ledger file should not exist after a clean run")
	}
}

func TestPathFor(t *testing.T) {
	if got := PathFor("/archive/disc1"); got != "/archive/disc1.bad" {
		t.Fatalf("PathFor = %s", got)
	}
	if got := PathFor("/archive/disc1/"); got != "/archive/disc1.bad" {
		t.Fatalf("PathFor with trailing slash = %s", got)
	}
}
