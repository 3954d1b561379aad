package dvd

import (
	"fmt"
	"path"
)

// Descriptor identifies one virtual file on the disc and how to reproduce
// it on the destination.
//
// Number is the per-(title, domain) part index. Title-domain content split
// across several VOB parts carries Number 1..k; only part 1 is ever read,
// because the part-1 stream spans the full concatenated content. DupOf is a
// non-owning reference to another descriptor in the same catalog whose
// bytes are identical; such files are realized as links rather than copied.
type Descriptor struct {
	Title  int
	Domain Domain
	Number int

	// SizeBlocks is the size of this virtual file in logical blocks.
	SizeBlocks int64

	DupOf *Descriptor
}

// FileName returns the destination path of the file relative to the target
// root, following the VIDEO_TS naming convention.
func (d *Descriptor) FileName() string {
	return path.Join(SubDir, d.baseName())
}

// SubDir is the fixed subdirectory of the target root that receives every
// extracted file.
const SubDir = "VIDEO_TS"

func (d *Descriptor) baseName() string {
	if d.Title == 0 {
		switch d.Domain {
		case DomainInfo:
			return "VIDEO_TS.IFO"
		case DomainInfoBackup:
			return "VIDEO_TS.BUP"
		default:
			return "VIDEO_TS.VOB"
		}
	}
	switch d.Domain {
	case DomainInfo:
		return fmt.Sprintf("VTS_%02d_0.IFO", d.Title)
	case DomainInfoBackup:
		return fmt.Sprintf("VTS_%02d_0.BUP", d.Title)
	case DomainMenu:
		return fmt.Sprintf("VTS_%02d_0.VOB", d.Title)
	default:
		return fmt.Sprintf("VTS_%02d_%d.VOB", d.Title, d.Number)
	}
}

// SameIdentity reports whether both descriptors address the same virtual
// file.
func (d *Descriptor) SameIdentity(title int, domain Domain, number int) bool {
	return d.Title == title && d.Domain == domain && d.Number == number
}

// Identity returns the triple formatted the way the ledger encodes it.
func (d *Descriptor) Identity() string {
	return fmt.Sprintf("%d,%d,%d", d.Title, int(d.Domain), d.Number)
}
