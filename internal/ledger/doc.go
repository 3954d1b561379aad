// Package ledger persists the bad-range records that drive the repair
// pass.
//
// The ledger is a line-oriented, human-readable, append-only file living
// next to the target directory. Every failed read appends one line and
// syncs before the engine proceeds, so a killed run keeps everything it
// recorded. Loading tolerates damage: malformed lines and identities that
// do not resolve against the current catalog (a ledger from another disc)
// are reported and dropped. Records are never pruned; repeated repair runs
// append on top of history, keeping the file trivially mergeable.
package ledger
