// Package report renders cost reports as plain text.
package report
