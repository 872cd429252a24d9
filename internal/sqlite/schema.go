package sqlite

// Schema DDL. Ordinals keep file order; ids are UUID v7 so they sort in
// insertion order as well.
const (
	createSections = `CREATE TABLE IF NOT EXISTS sections (
    section_id TEXT PRIMARY KEY,
    ordinal INTEGER NOT NULL UNIQUE,
    name TEXT NOT NULL
);`

	createProperties = `CREATE TABLE IF NOT EXISTS properties (
    property_id TEXT PRIMARY KEY,
    section_id TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    name TEXT NOT NULL,
    value TEXT NOT NULL,
    UNIQUE (section_id, ordinal),
    FOREIGN KEY (section_id) REFERENCES sections(section_id) ON DELETE CASCADE
);`
)

const (
	idxSectionsName   = `CREATE INDEX IF NOT EXISTS idx_sections_name ON sections(name);`
	idxPropertiesName = `CREATE INDEX IF NOT EXISTS idx_properties_name ON properties(section_id, name);`
)

// schemaDDL lists the CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createSections,
	createProperties,
}

var indexDDL = []string{
	idxSectionsName,
	idxPropertiesName,
}
