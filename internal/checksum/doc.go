// Package checksum fingerprints data files so scheduled runs can tell
// whether the source data changed since the last report.
//
//   - Raw checksum: hash of the exact file content (detects all changes)
//   - Normalized checksum: hash after normalizing line endings, trailing
//     whitespace, and blank lines (formatting-independent data identity)
//
// The normalized form means saving a CSV from a different editor or OS
// does not count as a data change.
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
