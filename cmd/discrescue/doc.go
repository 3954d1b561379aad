// Command discrescue archives DVD filesystems from failing discs.
//
// The copy command extracts every file of a mounted disc into an archive
// directory, zero-filling and recording ranges the drive cannot read. The
// repair command retries those ranges block by block on a later attempt.
// Remaining commands inspect discs, ledgers, run history, and
// configuration.
package main
