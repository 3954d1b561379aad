// Package output writes extracted disc content under the target root.
//
// One Writer serves one (title, domain) stream. Title VOB output is split
// into numbered parts at the DVD-Video 1 GiB boundary; every other domain
// writes a single file. The writer enforces the engine's central size
// invariant: output length in blocks always equals blocks processed, with
// unreadable ranges materialized as zero-filled placeholders of identical
// length. That invariant is what lets a later run derive its resume offset
// from nothing but the on-disk size.
package output
