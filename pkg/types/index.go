package types

// Index is a queryable mirror of an ngi tree. The file stays the source of
// truth; an Index is rebuilt from Records whenever the caller reloads it.
type Index interface {
	// Load replaces the index contents with records. Loading is
	// transactional: on error the previous contents remain.
	Load(records []Record) error

	// Lookup returns the value of property name in section.
	// Returns ErrNotFound if no such property is indexed.
	Lookup(section, name string) (string, error)

	// Search returns every record whose section, name or value matches
	// pattern as a SQL LIKE expression, in file order.
	Search(pattern string) ([]Record, error)

	// Close releases the index. Idempotent.
	Close() error
}
