// Package costmodel defines the project, billing and cost report entities
// and the deterministic aggregates computed from them.
//
// Money is carried as [Amount] (INR, float64 on the wire) and summed with
// github.com/shopspring/decimal so totals are exact to the paisa before
// rounding to two places.
package costmodel
