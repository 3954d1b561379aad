package dedup

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"discrescue/internal/faults"
	"discrescue/internal/fileutil"
)

// Strategy realizes a duplicate descriptor: it makes target reference the
// same bytes as source without a second read from the disc.
type Strategy interface {
	Name() string

	// Ensure makes target a duplicate of source. It returns true when it
	// created something and false when the duplicate already existed. A
	// pre-existing target that is not the expected duplicate is an
	// integrity conflict requiring manual intervention, never silently
	// replaced.
	Ensure(source, target string) (bool, error)
}

// Hardlink links duplicates on filesystems that support it. Identity is
// checked by inode, so a repeated run over a finished archive is a no-op.
type Hardlink struct{}

func (Hardlink) Name() string { return "hardlink" }

func (Hardlink) Ensure(source, target string) (bool, error) {
	var targetStat unix.Stat_t
	err := unix.Stat(target, &targetStat)
	if os.IsNotExist(err) {
		if err := os.Link(source, target); err != nil {
			if os.IsNotExist(err) {
				return false, linkTargetAbsent(source, target)
			}
			return false, faults.Wrap(faults.ErrSetup, "dedup", "hardlink", fmt.Sprintf("link %s to %s", target, source), err)
		}
		return true, nil
	}
	if err != nil {
		return false, faults.Wrap(faults.ErrSetup, "dedup", "stat", target, err)
	}

	var sourceStat unix.Stat_t
	if err := unix.Stat(source, &sourceStat); err != nil {
		if os.IsNotExist(err) {
			return false, linkTargetAbsent(source, target)
		}
		return false, faults.Wrap(faults.ErrSetup, "dedup", "stat", source, err)
	}
	if sourceStat.Ino != targetStat.Ino || sourceStat.Dev != targetStat.Dev {
		return false, faults.Wrap(faults.ErrIntegrity, "dedup", "hardlink",
			fmt.Sprintf("%s exists and is not a link to %s; remove it to proceed", target, source), nil)
	}
	return false, nil
}

// Copy is the fallback for filesystems without hardlinks: duplicates are
// realized as a full byte copy of the already-extracted source.
type Copy struct{}

func (Copy) Name() string { return "copy" }

func (Copy) Ensure(source, target string) (bool, error) {
	targetInfo, err := os.Stat(target)
	if os.IsNotExist(err) {
		if _, err := os.Stat(source); os.IsNotExist(err) {
			return false, linkTargetAbsent(source, target)
		}
		if err := fileutil.CopyFile(source, target); err != nil {
			return false, faults.Wrap(faults.ErrSetup, "dedup", "copy", fmt.Sprintf("copy %s to %s", source, target), err)
		}
		return true, nil
	}
	if err != nil {
		return false, faults.Wrap(faults.ErrSetup, "dedup", "stat", target, err)
	}

	sourceInfo, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return false, linkTargetAbsent(source, target)
		}
		return false, faults.Wrap(faults.ErrSetup, "dedup", "stat", source, err)
	}
	if sourceInfo.Size() != targetInfo.Size() {
		return false, faults.Wrap(faults.ErrIntegrity, "dedup", "copy",
			fmt.Sprintf("%s exists and does not match %s; remove it to proceed", target, source), nil)
	}
	return false, nil
}

// ForName maps a configured strategy name to an implementation. "auto"
// probes dir for hardlink support and picks accordingly.
func ForName(name, dir string) (Strategy, error) {
	switch name {
	case "hardlink":
		return Hardlink{}, nil
	case "copy":
		return Copy{}, nil
	case "auto", "":
		if probeHardlinks(dir) {
			return Hardlink{}, nil
		}
		return Copy{}, nil
	default:
		return nil, fmt.Errorf("unknown dedup strategy %q", name)
	}
}

// probeHardlinks creates and links a scratch file under dir to find out
// whether the destination filesystem supports hardlinks.
func probeHardlinks(dir string) bool {
	probe, err := os.CreateTemp(dir, ".dedup-probe-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	probe.Close()
	defer os.Remove(name)

	link := filepath.Join(dir, filepath.Base(name)+".link")
	if err := os.Link(name, link); err != nil {
		return false
	}
	os.Remove(link)
	return true
}

func linkTargetAbsent(source, target string) error {
	return faults.Wrap(faults.ErrIntegrity, "dedup", "link",
		fmt.Sprintf("must link %s to %s, but the latter does not exist", target, source), nil)
}
