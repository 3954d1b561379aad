// Package dvd models the logical file structure of a DVD-Video disc as seen
// by the copy engine.
//
// A disc exposes virtual files addressed by a (title, domain, number)
// triple: navigation data (IFO), its backup (BUP), menu VOBs, and title
// VOBs split into numbered 1 GiB parts. The package defines the descriptor
// and catalog types the engine iterates, the block-granular stream
// interfaces it reads from, and a directory-backed implementation that
// serves an already-mounted VIDEO_TS tree. Title streams span every part
// file, so only part 1 of a title is ever opened for copying.
package dvd
