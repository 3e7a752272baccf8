// Package filestore persists pipeline artifacts as files in a single output
// directory.
//
// JSON artifacts are written with two-space indentation and without HTML
// escaping so that currency symbols and punctuation survive as typed. Every
// write goes to a temporary file in the same directory and is renamed into
// place, which leaves the previous artifact intact when a write fails.
package filestore
