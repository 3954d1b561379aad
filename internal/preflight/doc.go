// Package preflight provides readiness checks for the filesystem paths an
// extraction depends on. The copy command runs them before touching the
// disc so a doomed run fails in seconds, not hours.
package preflight
