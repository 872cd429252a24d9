package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

// Load replaces the mirror contents with records inside one transaction.
// On error the previous contents remain. Records of one section must share
// a SectionIndex; property records with a negative PropertyIndex are taken
// as bare sections.
func (m *Mirror) Load(records []types.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return types.ErrIndexClosed
	}

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM properties"); err != nil {
		return fmt.Errorf("clearing properties: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sections"); err != nil {
		return fmt.Errorf("clearing sections: %w", err)
	}

	sections, properties, err := insertRecords(tx, records)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	m.log.Debug("index loaded", "sections", sections, "properties", properties)
	return nil
}

// insertRecords inserts one sections row per distinct SectionIndex and one
// properties row per property record.
func insertRecords(tx *sql.Tx, records []types.Record) (sections, properties int, err error) {
	secStmt, err := tx.Prepare("INSERT INTO sections (section_id, ordinal, name) VALUES (?, ?, ?)")
	if err != nil {
		return 0, 0, fmt.Errorf("preparing section insert: %w", err)
	}
	defer secStmt.Close()

	propStmt, err := tx.Prepare("INSERT INTO properties (property_id, section_id, ordinal, name, value) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, 0, fmt.Errorf("preparing property insert: %w", err)
	}
	defer propStmt.Close()

	ids := make(map[int]string)
	for _, r := range records {
		id, ok := ids[r.SectionIndex]
		if !ok {
			id = newUUID()
			if _, err := secStmt.Exec(id, r.SectionIndex, r.Section); err != nil {
				return 0, 0, fmt.Errorf("inserting section %q: %w", r.Section, err)
			}
			ids[r.SectionIndex] = id
			sections++
		}
		if r.IsSection() {
			continue
		}
		if _, err := propStmt.Exec(newUUID(), id, r.PropertyIndex, r.Name, r.Value); err != nil {
			return 0, 0, fmt.Errorf("inserting property %s/%s: %w", r.Section, r.Name, err)
		}
		properties++
	}
	return sections, properties, nil
}
