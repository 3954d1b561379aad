package dvd

import "errors"

// ErrNotPresent is returned by Reader.Open when the disc has no content for
// the requested (title, domain) pair. Absent content is expected for some
// domains and is not a failure.
var ErrNotPresent = errors.New("no such content on disc")

// Catalog is the ordered list of virtual files to extract. Order matters:
// the engine copies files in catalog order, and resume depends on the same
// order across runs.
type Catalog interface {
	// Files returns every descriptor in extraction order. Callers must not
	// mutate the returned slice.
	Files() []*Descriptor

	// Find resolves an identity triple to its descriptor, or nil when the
	// catalog has no such file (e.g. a ledger from a different disc).
	Find(title int, domain Domain, number int) *Descriptor
}

// Stream serves block-range reads for one (title, domain) pair. Reads may
// fail per call on damaged media; a failed call carries no positional side
// effects and the caller may retry any range at any granularity.
type Stream interface {
	// SizeBlocks returns the total stream length in logical blocks. For the
	// title domain this spans every VOB part.
	SizeBlocks() int64

	// ReadBlocks reads len(buf)/BlockSize blocks starting at block start
	// into buf, returning the number of blocks actually read. A short read
	// only occurs at end of stream.
	ReadBlocks(start int64, buf []byte) (int64, error)

	Close() error
}

// Reader opens logical file streams by identity. Open returns ErrNotPresent
// when the disc carries no content for the pair.
type Reader interface {
	Open(title int, domain Domain) (Stream, error)
}

// Source bundles the catalog and reader views of one disc.
type Source interface {
	Catalog
	Reader
}
