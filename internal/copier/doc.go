// Package copier is the extraction engine. It walks a disc catalog in
// order, streams each file to the destination in fixed-size chunks, and
// degrades gracefully when the media fights back: unreadable ranges are
// replaced with zero-filled placeholders and durably recorded in a ledger
// so a later repair pass can retry them block by block.
//
// A run is resumable at every level. Fully extracted files are detected by
// size and never re-read, partially extracted files resume at the first
// missing block, and byte-identical duplicates are realized as links
// against the already-extracted original instead of a second read.
package copier
