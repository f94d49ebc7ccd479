// Package output persists harvested records as newline-delimited JSON.
//
// Files are named <prefix><NNN>.json (zero-padded sequence) or
// <prefix><YYYYMMDD-HHMMSS>.json and hold at most RowsPerFile records. When
// a file is full, or the writer is closed, it is finished and optionally
// replaced by a single-entry zip archive.
package output
