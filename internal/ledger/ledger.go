package ledger

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"discrescue/internal/dvd"
	"discrescue/internal/faults"
	"discrescue/internal/logging"
)

// Range is one recorded unreadable region: count blocks of File starting
// at block Start.
type Range struct {
	File  *dvd.Descriptor
	Start int64
	Count int64
}

// Ledger is the durable, append-only record of failed block ranges. It is
// written while copying and replayed by the repair pass. Records are never
// deduplicated or pruned; a repair run appends still-failing sub-ranges on
// top of the history.
type Ledger struct {
	path   string
	logger *slog.Logger
	file   *os.File
}

// PathFor derives the ledger location from the target root: a sibling file
// so the archive directory itself holds only disc content.
func PathFor(targetDir string) string {
	return strings.TrimRight(targetDir, "/") + ".bad"
}

// New prepares a ledger at path. The file is opened lazily on the first
// Record call, so a clean run never creates it.
func New(path string, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{path: path, logger: logger}
}

// Record durably appends one failed range before returning. The write is
// synced to disk so a crash immediately afterwards cannot lose it; this is
// a durability contract, not an optimization.
func (l *Ledger) Record(d *dvd.Descriptor, start, count int64) error {
	if l.file == nil {
		file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open ledger %s: %w", l.path, err)
		}
		l.file = file
	}
	line := fmt.Sprintf("%s: %d,%d,%d  %d (%d)\n", d.FileName(), d.Title, int(d.Domain), d.Number, start, count)
	if _, err := l.file.WriteString(line); err != nil {
		return fmt.Errorf("append ledger %s: %w", l.path, err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync ledger %s: %w", l.path, err)
	}
	return nil
}

// Close releases the append handle if one was opened.
func (l *Ledger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Record is the raw parsed form of one ledger line, unresolved against any
// catalog. Display paths use it so a ledger can be inspected after the
// disc has left the drive.
type Record struct {
	Name                  string
	Title, Domain, Number int
	Start, Count          int64
}

// Records parses every well-formed line from path, also reporting how many
// lines were malformed and skipped. A missing file yields no records.
func Records(path string) ([]Record, int, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open ledger %s: %w", path, err)
	}
	defer file.Close()

	var records []Record
	malformed := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			malformed++
			continue
		}
		records = append(records, Record{
			Name:   rec.name,
			Title:  rec.title,
			Domain: rec.domain,
			Number: rec.number,
			Start:  rec.start,
			Count:  rec.count,
		})
	}
	if err := scanner.Err(); err != nil {
		return records, malformed, fmt.Errorf("read ledger %s: %w", path, err)
	}
	return records, malformed, nil
}

// Load reads every record from path and resolves it against the catalog.
// A missing ledger is the success case "no prior failures". Malformed
// lines and identities the catalog cannot resolve are logged and dropped,
// never fatal: a ledger may outlive the disc it was written for.
func Load(path string, catalog dvd.Catalog, logger *slog.Logger) ([]Range, error) {
	if logger == nil {
		logger = slog.Default()
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	defer file.Close()

	var ranges []Range
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			logger.Warn("skipping malformed ledger line",
				logging.String("ledger", path),
				logging.Int("line", lineNo),
				logging.Error(fmt.Errorf("%w: %w", faults.ErrLedger, err)),
			)
			continue
		}
		desc := catalog.Find(rec.title, dvd.Domain(rec.domain), rec.number)
		if desc == nil {
			logger.Warn("ledger entry does not match any catalog file",
				logging.String("ledger", path),
				logging.Int("line", lineNo),
				logging.String("identity", fmt.Sprintf("%d,%d,%d", rec.title, rec.domain, rec.number)),
			)
			continue
		}
		ranges = append(ranges, Range{File: desc, Start: rec.start, Count: rec.count})
	}
	if err := scanner.Err(); err != nil {
		return ranges, fmt.Errorf("read ledger %s: %w", path, err)
	}
	return ranges, nil
}
