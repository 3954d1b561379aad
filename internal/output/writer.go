package output

import (
	"fmt"
	"os"
	"path/filepath"

	"discrescue/internal/dvd"
)

// partLimitBlocks caps title VOB parts at the DVD-Video 1 GiB boundary.
// Other domains write a single unbounded file.
const partLimitBlocks = int64(1 << 30 / dvd.BlockSize)

// Writer appends logical blocks for one (title, domain) pair under the
// target root, splitting title-domain output into numbered 1 GiB VOB parts.
//
// Writes are strictly sequential: the output size in blocks always equals
// the number of blocks processed, which is what makes the on-disk size a
// valid resume indicator. Unreadable ranges are represented by zero-filled
// blocks of the same length so the invariant holds across failures.
type Writer struct {
	dir       string // target root
	title     int
	domain    dvd.Domain
	partLimit int64

	file     *os.File
	part     int   // 1-based part index for the title domain
	inPart   int64 // blocks written into the current part
	position int64 // absolute block position within the logical stream
}

// NewWriter prepares a writer for the given identity. The backing file is
// opened on the first Seek or write; pre-existing output is never removed.
func NewWriter(targetDir string, title int, domain dvd.Domain) *Writer {
	limit := int64(0)
	if domain == dvd.DomainTitle {
		limit = partLimitBlocks
	}
	return &Writer{dir: targetDir, title: title, domain: domain, partLimit: limit, part: 1}
}

// SizeBlocks reports how many blocks of this stream already exist on disk,
// summing every part in order and stopping at the first short or missing
// part. This is the engine's sole resume indicator.
func (w *Writer) SizeBlocks() int64 {
	var total int64
	for part := 1; ; part++ {
		info, err := os.Stat(w.partPath(part))
		if err != nil {
			return total
		}
		blocks := info.Size() / dvd.BlockSize
		total += blocks
		if w.partLimit == 0 || blocks < w.partLimit {
			return total
		}
	}
}

// Seek positions the writer at an absolute block offset, opening the
// backing part file.
func (w *Writer) Seek(block int64) error {
	if err := w.closeFile(); err != nil {
		return err
	}
	part, offset := 1, block
	if w.partLimit > 0 {
		part = int(block/w.partLimit) + 1
		offset = block % w.partLimit
	}
	if err := w.openPart(part); err != nil {
		return err
	}
	if _, err := w.file.Seek(offset*dvd.BlockSize, 0); err != nil {
		return fmt.Errorf("seek %s: %w", w.CurrentName(), err)
	}
	w.inPart = offset
	w.position = block
	return nil
}

// WriteBlocks appends whole blocks from buf, rolling over to the next part
// file at the part limit.
func (w *Writer) WriteBlocks(buf []byte) error {
	if len(buf)%dvd.BlockSize != 0 {
		return fmt.Errorf("write to %s is not block aligned", w.CurrentName())
	}
	if w.file == nil {
		if err := w.Seek(w.position); err != nil {
			return err
		}
	}
	remaining := int64(len(buf)) / dvd.BlockSize
	for remaining > 0 {
		chunk := remaining
		if w.partLimit > 0 {
			if room := w.partLimit - w.inPart; chunk > room {
				chunk = room
			}
		}
		if chunk == 0 {
			if err := w.rollPart(); err != nil {
				return err
			}
			continue
		}
		n := chunk * dvd.BlockSize
		if _, err := w.file.Write(buf[:n]); err != nil {
			return fmt.Errorf("write %s: %w", w.CurrentName(), err)
		}
		buf = buf[n:]
		w.inPart += chunk
		w.position += chunk
		remaining -= chunk
	}
	return nil
}

// SkipBlocks writes count zero-filled placeholder blocks in place of an
// unreadable range.
func (w *Writer) SkipBlocks(count int64) error {
	zero := make([]byte, 128*dvd.BlockSize)
	for count > 0 {
		chunk := int64(128)
		if chunk > count {
			chunk = count
		}
		if err := w.WriteBlocks(zero[:chunk*dvd.BlockSize]); err != nil {
			return err
		}
		count -= chunk
	}
	return nil
}

// CurrentName returns the base name of the part file the next write lands
// in.
func (w *Writer) CurrentName() string {
	return filepath.Base(w.partPath(w.part))
}

// Close flushes and releases the current part file.
func (w *Writer) Close() error {
	return w.closeFile()
}

func (w *Writer) rollPart() error {
	if err := w.closeFile(); err != nil {
		return err
	}
	if err := w.openPart(w.part + 1); err != nil {
		return err
	}
	w.inPart = 0
	return nil
}

func (w *Writer) openPart(part int) error {
	path := w.partPath(part)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	w.file = file
	w.part = part
	return nil
}

func (w *Writer) closeFile() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	if err != nil {
		return fmt.Errorf("close %s: %w", w.CurrentName(), err)
	}
	return nil
}

func (w *Writer) partPath(part int) string {
	desc := dvd.Descriptor{Title: w.title, Domain: w.domain, Number: part}
	return filepath.Join(w.dir, desc.FileName())
}
