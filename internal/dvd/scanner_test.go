package dvd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeBlocks(t *testing.T, path string, blocks int, fill byte) {
	t.Helper()
	buf := bytes.Repeat([]byte{fill}, blocks*BlockSize)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
}

func newDiscTree(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	videoTS := filepath.Join(root, SubDir)
	if err := os.MkdirAll(videoTS, 0o755); err != nil {
		t.Fatal(err)
	}
	return root, videoTS
}

func TestScanDirectoryOrdersCatalog(t *testing.T) {
	root, videoTS := newDiscTree(t)

	writeBlocks(t, filepath.Join(videoTS, "VTS_01_2.VOB"), 3, 0x22)
	writeBlocks(t, filepath.Join(videoTS, "VIDEO_TS.IFO"), 1, 0x01)
	writeBlocks(t, filepath.Join(videoTS, "VTS_01_0.IFO"), 2, 0x10)
	writeBlocks(t, filepath.Join(videoTS, "VTS_01_1.VOB"), 4, 0x21)
	writeBlocks(t, filepath.Join(videoTS, "VTS_01_0.VOB"), 2, 0x20)

	src, err := ScanDirectory(root)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, d := range src.Files() {
		got = append(got, d.FileName())
	}
	want := []string{
		"VIDEO_TS/VIDEO_TS.IFO",
		"VIDEO_TS/VTS_01_0.IFO",
		"VIDEO_TS/VTS_01_0.VOB",
		"VIDEO_TS/VTS_01_1.VOB",
		"VIDEO_TS/VTS_01_2.VOB",
	}
	if len(got) != len(want) {
		t.Fatalf("catalog = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("catalog[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanDirectoryMarksHardlinkedDuplicates(t *testing.T) {
	root, videoTS := newDiscTree(t)

	ifo := filepath.Join(videoTS, "VTS_01_0.IFO")
	writeBlocks(t, ifo, 2, 0x10)
	if err := os.Link(ifo, filepath.Join(videoTS, "VTS_01_0.BUP")); err != nil {
		t.Skipf("hardlinks unsupported: %v", err)
	}

	src, err := ScanDirectory(root)
	if err != nil {
		t.Fatal(err)
	}

	bup := src.Find(1, DomainInfoBackup, 0)
	if bup == nil {
		t.Fatal("backup descriptor missing")
	}
	if bup.DupOf == nil || !bup.DupOf.SameIdentity(1, DomainInfo, 0) {
		t.Fatalf("backup not marked duplicate of the info file: %+v", bup.DupOf)
	}
	info := src.Find(1, DomainInfo, 0)
	if info.DupOf != nil {
		t.Fatal("first file sharing the inode must own the content")
	}
}

func TestOpenTitleSpansParts(t *testing.T) {
	root, videoTS := newDiscTree(t)

	writeBlocks(t, filepath.Join(videoTS, "VTS_02_1.VOB"), 2, 0xAA)
	writeBlocks(t, filepath.Join(videoTS, "VTS_02_2.VOB"), 3, 0xBB)

	src, err := ScanDirectory(root)
	if err != nil {
		t.Fatal(err)
	}
	stream, err := src.Open(2, DomainTitle)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	if stream.SizeBlocks() != 5 {
		t.Fatalf("size = %d, want 5", stream.SizeBlocks())
	}

	// Read a range straddling the part boundary.
	buf := make([]byte, 2*BlockSize)
	n, err := stream.ReadBlocks(1, buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("read %d blocks, want 2", n)
	}
	if buf[0] != 0xAA || buf[BlockSize] != 0xBB {
		t.Fatalf("boundary content wrong: %x %x", buf[0], buf[BlockSize])
	}

	// Short read at end of stream.
	n, err = stream.ReadBlocks(4, buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("read %d blocks at tail, want 1", n)
	}
}

func TestOpenAbsentContent(t *testing.T) {
	root, videoTS := newDiscTree(t)
	writeBlocks(t, filepath.Join(videoTS, "VIDEO_TS.IFO"), 1, 0x01)

	src, err := ScanDirectory(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := src.Open(0, DomainMenu); err != ErrNotPresent {
		t.Fatalf("expected ErrNotPresent, got %v", err)
	}
	if _, err := src.Open(7, DomainTitle); err != ErrNotPresent {
		t.Fatalf("expected ErrNotPresent for missing title, got %v", err)
	}
}

func TestParseEntryName(t *testing.T) {
	cases := []struct {
		name   string
		title  int
		domain Domain
		number int
		ok     bool
	}{
		{"VIDEO_TS.IFO", 0, DomainInfo, 0, true},
		{"VIDEO_TS.BUP", 0, DomainInfoBackup, 0, true},
		{"VIDEO_TS.VOB", 0, DomainMenu, 0, true},
		{"VTS_01_0.IFO", 1, DomainInfo, 0, true},
		{"VTS_12_0.BUP", 12, DomainInfoBackup, 0, true},
		{"VTS_03_0.VOB", 3, DomainMenu, 0, true},
		{"VTS_03_4.VOB", 3, DomainTitle, 4, true},
		{"vts_03_4.vob", 3, DomainTitle, 4, true},
		{"VTS_00_1.VOB", 0, 0, 0, false},
		{"VTS_01_1.IFO", 0, 0, 0, false},
		{"README.TXT", 0, 0, 0, false},
	}
	for _, tc := range cases {
		title, domain, number, ok := parseEntryName(tc.name)
		if ok != tc.ok {
			t.Fatalf("%s: ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if !ok {
			continue
		}
		if title != tc.title || domain != tc.domain || number != tc.number {
			t.Fatalf("%s: got (%d,%d,%d)", tc.name, title, domain, number)
		}
	}
}

func TestFileNameRoundTrip(t *testing.T) {
	descriptors := []*Descriptor{
		{Title: 0, Domain: DomainInfo},
		{Title: 0, Domain: DomainInfoBackup},
		{Title: 0, Domain: DomainMenu},
		{Title: 5, Domain: DomainInfo},
		{Title: 5, Domain: DomainMenu},
		{Title: 5, Domain: DomainTitle, Number: 3},
	}
	for _, d := range descriptors {
		base := filepath.Base(d.FileName())
		title, domain, number, ok := parseEntryName(base)
		if !ok {
			t.Fatalf("%s did not parse back", base)
		}
		if !d.SameIdentity(title, domain, number) {
			t.Fatalf("%s parsed to (%d,%d,%d), want %s", base, title, domain, number, d.Identity())
		}
	}
}
