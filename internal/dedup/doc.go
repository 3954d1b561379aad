// Package dedup realizes duplicate files on the destination.
//
// Some disc files are byte-identical to others (most commonly an IFO and
// its BUP). Instead of reading fragile media twice, the engine points the
// duplicate at the already-extracted original through a pluggable
// strategy: hardlinks where the destination filesystem supports them, a
// full local copy otherwise. Both strategies are idempotent and refuse to
// overwrite a destination that is not the expected duplicate.
package dedup
