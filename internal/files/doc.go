// Package files provides discovery of input CSV tables.
//
// Analysis commands accept either explicit file paths or a glob-style
// pattern resolved against the data directory; in the latter case the most
// recent matching file wins.
package files
