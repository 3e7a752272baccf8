// Package schema holds the structural validators for the three artifact
// domains: project profile, billing records and cost report.
//
// Validators are pure predicates over values decoded by encoding/json. They
// never coerce or mutate their input and report only the first violation.
package schema
