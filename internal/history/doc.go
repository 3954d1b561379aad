// Package history records finished extraction and repair runs in a local
// SQLite database. History is strictly informational; failures here never
// affect the archive itself.
package history
