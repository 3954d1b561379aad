package dvd

import "fmt"

// BlockSize is the fixed addressing unit for disc content. All offsets and
// counts in this repository are expressed in 2048-byte logical blocks.
const BlockSize = 2048

// Domain identifies a content area of the disc. The numeric values match
// libdvdread's dvd_read_domain_t and are persisted in the bad-range ledger,
// so they must never be renumbered.
type Domain int

const (
	DomainInfo       Domain = 0 // navigation data (IFO)
	DomainInfoBackup Domain = 1 // navigation backup (BUP)
	DomainMenu       Domain = 2 // menu VOBs
	DomainTitle      Domain = 3 // title VOBs
)

// String returns a short label used in logs and tables.
func (d Domain) String() string {
	switch d {
	case DomainInfo:
		return "info"
	case DomainInfoBackup:
		return "backup"
	case DomainMenu:
		return "menu"
	case DomainTitle:
		return "title"
	default:
		return fmt.Sprintf("domain(%d)", int(d))
	}
}

// Valid reports whether d is one of the four known content areas.
func (d Domain) Valid() bool {
	return d >= DomainInfo && d <= DomainTitle
}
