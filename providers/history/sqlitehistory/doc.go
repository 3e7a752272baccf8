// Package sqlitehistory keeps an audit log of structured-generation runs in
// a SQLite database.
//
// Every orchestrator run becomes one row in the runs table and each of its
// attempts one row in the attempts table. The log is write-mostly: nothing
// stored here is fed back into generation.
package sqlitehistory
