package labels

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	allDigitsPattern = regexp.MustCompile(`^\d+$`)
	shortCodePattern = regexp.MustCompile(`^[A-Z0-9_]{1,4}$`)
)

// IsUnusable returns true if a volume label cannot serve as an archive
// directory name. This covers generic authoring-tool labels and patterns
// that do not represent a meaningful disc title.
func IsUnusable(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return true
	}

	upper := strings.ToUpper(label)

	patterns := []string{
		"LOGICAL_VOLUME_ID", "VOLUME_ID", "DVD_VIDEO", "UNTITLED",
		"UNKNOWN DISC", "VOLUME_", "VOLUME ID", "DISK_", "TRACK_",
	}
	for _, pattern := range patterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}

	// All digits (e.g., "12345")
	if allDigitsPattern.MatchString(label) {
		return true
	}

	// Very short codes (e.g., "ABC", "X1")
	return shortCodePattern.MatchString(upper)
}

// Clean turns a raw label or path component into a presentable name:
// separators collapse to single spaces, everything else non-alphanumeric is
// dropped, and the result is title-cased.
func Clean(raw string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	name := strings.TrimSpace(cleaned.String())
	if name == "" {
		return ""
	}
	return cases.Title(language.Und).String(strings.ToLower(name))
}

// ForSource derives an archive directory name. A usable volume label wins;
// otherwise the name comes from the source path's base component.
func ForSource(sourcePath, volumeLabel string) string {
	if !IsUnusable(volumeLabel) {
		if name := Clean(volumeLabel); name != "" {
			return name
		}
	}
	base := filepath.Base(strings.TrimRight(sourcePath, "/"))
	if name := Clean(base); name != "" {
		return name
	}
	return "Unknown Disc"
}
