package dvd

import (
	"errors"
	"io"
	"os"
)

// fileStream reads logical blocks from one or more backing files treated as
// a single contiguous stream. Title-domain streams span every VOB part in
// order; all other domains have exactly one part.
type fileStream struct {
	parts []*os.File
	sizes []int64 // per-part sizes in blocks
}

func (s *fileStream) SizeBlocks() int64 {
	var total int64
	for _, n := range s.sizes {
		total += n
	}
	return total
}

func (s *fileStream) ReadBlocks(start int64, buf []byte) (int64, error) {
	if len(buf)%BlockSize != 0 {
		return 0, errors.New("read buffer is not block aligned")
	}
	want := int64(len(buf)) / BlockSize
	total := s.SizeBlocks()
	if start >= total {
		return 0, nil
	}
	if start+want > total {
		want = total - start
	}

	var read int64
	cursor := start
	for read < want {
		part, offset := s.locate(cursor)
		if part < 0 {
			break
		}
		chunk := want - read
		if remain := s.sizes[part] - offset; chunk > remain {
			chunk = remain
		}
		dst := buf[read*BlockSize : (read+chunk)*BlockSize]
		n, err := s.parts[part].ReadAt(dst, offset*BlockSize)
		if err != nil && !errors.Is(err, io.EOF) {
			return read, err
		}
		got := int64(n) / BlockSize
		if n%BlockSize != 0 {
			// Pad a trailing partial block so callers always handle whole
			// blocks.
			tail := dst[got*BlockSize+int64(n)%BlockSize : (got+1)*BlockSize]
			for i := range tail {
				tail[i] = 0
			}
			got++
		}
		if got == 0 {
			break
		}
		read += got
		cursor += got
		if got < chunk {
			break
		}
	}
	return read, nil
}

func (s *fileStream) Close() error {
	var firstErr error
	for _, f := range s.parts {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// locate maps a stream block offset to (part index, offset within part).
func (s *fileStream) locate(block int64) (int, int64) {
	for i, size := range s.sizes {
		if block < size {
			return i, block
		}
		block -= size
	}
	return -1, 0
}
