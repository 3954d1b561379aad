package dvd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

type identityKey struct {
	title  int
	domain Domain
	number int
}

// DirectorySource serves a DVD structure from an already-mounted directory
// tree. The root may be the directory containing VIDEO_TS or the VIDEO_TS
// directory itself.
type DirectorySource struct {
	videoTS string
	files   []*Descriptor
	index   map[identityKey]*Descriptor
	paths   map[identityKey]string
}

// ScanDirectory enumerates the virtual files of a mounted DVD tree,
// deriving identity from the VIDEO_TS naming convention and marking
// hardlinked entries as duplicates of the first file sharing their inode.
func ScanDirectory(root string) (*DirectorySource, error) {
	videoTS, err := locateVideoTS(root)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(videoTS)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", videoTS, err)
	}

	src := &DirectorySource{
		videoTS: videoTS,
		index:   make(map[identityKey]*Descriptor),
		paths:   make(map[identityKey]string),
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		title, domain, number, ok := parseEntryName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		desc := &Descriptor{
			Title:      title,
			Domain:     domain,
			Number:     number,
			SizeBlocks: (info.Size() + BlockSize - 1) / BlockSize,
		}
		key := identityKey{title, domain, number}
		src.files = append(src.files, desc)
		src.index[key] = desc
		src.paths[key] = filepath.Join(videoTS, entry.Name())
	}

	sort.Slice(src.files, func(i, j int) bool {
		a, b := src.files[i], src.files[j]
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		if a.Domain != b.Domain {
			return a.Domain < b.Domain
		}
		return a.Number < b.Number
	})

	src.markDuplicates()
	return src, nil
}

// Files returns the catalog in extraction order.
func (s *DirectorySource) Files() []*Descriptor { return s.files }

// Find resolves an identity triple against the scanned catalog.
func (s *DirectorySource) Find(title int, domain Domain, number int) *Descriptor {
	return s.index[identityKey{title, domain, number}]
}

// Open returns the block stream for a (title, domain) pair. The title
// domain spans every numbered VOB part.
func (s *DirectorySource) Open(title int, domain Domain) (Stream, error) {
	if domain == DomainTitle {
		return s.openTitleParts(title)
	}
	path, ok := s.paths[identityKey{title, domain, 0}]
	if !ok {
		return nil, ErrNotPresent
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotPresent
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	desc := s.index[identityKey{title, domain, 0}]
	return &fileStream{parts: []*os.File{file}, sizes: []int64{desc.SizeBlocks}}, nil
}

func (s *DirectorySource) openTitleParts(title int) (Stream, error) {
	stream := &fileStream{}
	for number := 1; ; number++ {
		key := identityKey{title, DomainTitle, number}
		path, ok := s.paths[key]
		if !ok {
			break
		}
		file, err := os.Open(path)
		if err != nil {
			stream.Close()
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		stream.parts = append(stream.parts, file)
		stream.sizes = append(stream.sizes, s.index[key].SizeBlocks)
	}
	if len(stream.parts) == 0 {
		return nil, ErrNotPresent
	}
	return stream, nil
}

// markDuplicates walks the catalog in extraction order and points every
// file at the first earlier file sharing its inode. Discs commonly
// hardlink the IFO and its BUP, so the backup becomes a link on the
// destination instead of a second read.
func (s *DirectorySource) markDuplicates() {
	type inodeKey struct {
		dev uint64
		ino uint64
	}
	seen := make(map[inodeKey]*Descriptor)
	for _, desc := range s.files {
		path := s.paths[identityKey{desc.Title, desc.Domain, desc.Number}]
		var st unix.Stat_t
		if err := unix.Stat(path, &st); err != nil {
			continue
		}
		if st.Nlink < 2 {
			continue
		}
		key := inodeKey{uint64(st.Dev), uint64(st.Ino)}
		if first, ok := seen[key]; ok {
			desc.DupOf = first
			continue
		}
		seen[key] = desc
	}
}

func locateVideoTS(root string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("stat source %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("source %s is not a directory", root)
	}
	nested := filepath.Join(root, SubDir)
	if info, err := os.Stat(nested); err == nil && info.IsDir() {
		return nested, nil
	}
	if strings.EqualFold(filepath.Base(root), SubDir) {
		return root, nil
	}
	return "", fmt.Errorf("source %s contains no %s directory", root, SubDir)
}

// parseEntryName maps a VIDEO_TS file name back to its identity triple.
// Unknown names are skipped by the scanner.
func parseEntryName(name string) (title int, domain Domain, number int, ok bool) {
	upper := strings.ToUpper(name)
	switch upper {
	case "VIDEO_TS.IFO":
		return 0, DomainInfo, 0, true
	case "VIDEO_TS.BUP":
		return 0, DomainInfoBackup, 0, true
	case "VIDEO_TS.VOB":
		return 0, DomainMenu, 0, true
	}

	ext := filepath.Ext(upper)
	stem := strings.TrimSuffix(upper, ext)
	if !strings.HasPrefix(stem, "VTS_") {
		return 0, 0, 0, false
	}
	fields := strings.Split(strings.TrimPrefix(stem, "VTS_"), "_")
	if len(fields) != 2 {
		return 0, 0, 0, false
	}
	title, err := strconv.Atoi(fields[0])
	if err != nil || title < 1 {
		return 0, 0, 0, false
	}
	part, err := strconv.Atoi(fields[1])
	if err != nil || part < 0 {
		return 0, 0, 0, false
	}

	switch ext {
	case ".IFO":
		if part != 0 {
			return 0, 0, 0, false
		}
		return title, DomainInfo, 0, true
	case ".BUP":
		if part != 0 {
			return 0, 0, 0, false
		}
		return title, DomainInfoBackup, 0, true
	case ".VOB":
		if part == 0 {
			return title, DomainMenu, 0, true
		}
		return title, DomainTitle, part, true
	}
	return 0, 0, 0, false
}
