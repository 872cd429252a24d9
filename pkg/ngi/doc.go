// Package ngi reads and writes ngi files: plain-text files made of named
// sections, each holding an ordered list of name/value properties.
//
//	net ->
//	host: localhost
//	port: 8080
//
//	db ->
//	path: /var/lib/app.db
//
// A Header mirrors the whole file as an in-memory tree. The file stays the
// source of truth: Open parses it once, Recache re-derives the tree after the
// file was edited by someone else, and every Replace or Delete rewrites the
// whole file from the tree. CreateSection and CreateProperty write the new
// line in place and extend the tree.
//
// Entities are located by scanning the file line by line from a byte
// offset; there is no index. A Header is not safe for concurrent use.
package ngi
