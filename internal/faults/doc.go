// Package faults defines the error taxonomy shared by the copy engine and
// its collaborators.
//
// Failures fall into two classes. Fatal failures (setup problems, duplicate
// link conflicts) propagate and halt processing. Everything else is absorbed
// where it happens: unreadable block ranges degrade to a skip write plus a
// durable ledger record, and unusable ledger lines are reported and dropped.
// Wrap tags errors with the sentinel for their class so call sites can route
// them with errors.Is.
package faults
