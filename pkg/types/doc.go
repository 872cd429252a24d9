// Package types defines the configuration, flat record type, search index
// interface and standard error values shared by the ngi engine, its SQLite
// index and the CLI.
package types
