package ngi

import (
	"errors"
	"fmt"
	"io"
)

// RecacheStats counts the tree changes made by one Recache pass.
type RecacheStats struct {
	Created int // sections and properties allocated
	Updated int // names or values rewritten
	Deleted int // sections and properties freed
}

// Changed reports whether the pass modified the tree.
func (st RecacheStats) Changed() bool {
	return st.Created+st.Updated+st.Deleted > 0
}

// recacheCursor tracks one reconciliation pass. sections and properties
// count the nodes of the file matched so far; the max fields hold the node
// counts the tree had when they were first visited.
type recacheCursor struct {
	sections, properties       int
	maxSections, maxProperties int
	current                    *Section
}

// Recache re-synchronizes the tree with the file after it was changed by
// someone else. Nodes are matched by position: the n-th section line of the
// file updates the n-th section of the tree, and likewise for properties
// within a section. Lines beyond the tree are allocated, tree nodes beyond
// the file are freed, and matching nodes keep their identity.
//
// Excess properties of a section are freed when the next section line is
// read, or at the end of the file for the last section. Unknown lines and
// property lines before the first section are skipped.
func (h *Header) Recache() (RecacheStats, error) {
	var st RecacheStats
	if err := h.check(); err != nil {
		return st, err
	}
	lr, err := h.scan(0)
	if err != nil {
		return st, err
	}

	c := recacheCursor{maxSections: len(h.sections)}
	for {
		line, off, err := lr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return st, err
		}

		switch Classify(line) {
		case LineSection:
			name, _ := StripSectionName(line)
			if err := h.recacheSection(&c, &st, name); err != nil {
				return st, fmt.Errorf("recache section at %d: %w", off, err)
			}
		case LineProperty:
			if c.current == nil {
				continue
			}
			name, value, _ := splitProperty(line)
			if err := h.recacheProperty(&c, &st, name, value); err != nil {
				return st, fmt.Errorf("recache property at %d: %w", off, err)
			}
		}
	}

	if c.current != nil {
		st.Deleted += h.truncateProperties(c.current, c.properties)
	}
	for len(h.sections) > c.sections {
		h.freeSection(h.sections[len(h.sections)-1])
		st.Deleted++
	}

	h.log.Info("recache complete",
		"sections", len(h.sections),
		"created", st.Created,
		"updated", st.Updated,
		"deleted", st.Deleted,
	)
	return st, nil
}

func (h *Header) recacheSection(c *recacheCursor, st *RecacheStats, name string) error {
	if c.current != nil {
		st.Deleted += h.truncateProperties(c.current, c.properties)
	}
	c.properties = 0

	if c.sections >= c.maxSections {
		s, err := h.allocSection(name)
		if err != nil {
			return err
		}
		c.current, c.maxProperties = s, 0
		c.sections++
		st.Created++
		return nil
	}

	s := h.sections[c.sections]
	c.current, c.maxProperties = s, s.Len()
	if s.Name() != name {
		if err := h.setSectionName(s, name); err != nil {
			return err
		}
		st.Updated++
	}
	c.sections++
	return nil
}

func (h *Header) recacheProperty(c *recacheCursor, st *RecacheStats, name, value string) error {
	if c.properties >= c.maxProperties {
		p, err := h.allocProperty(c.current, len(name), len(value))
		if err != nil {
			return err
		}
		p.name = append(p.name, name...)
		p.value = append(p.value, value...)
		c.properties++
		st.Created++
		return nil
	}

	p := c.current.props[c.properties]
	changed := false
	if p.Name() != name {
		if err := h.setPropertyName(p, name); err != nil {
			return err
		}
		changed = true
	}
	if p.Value() != value {
		if err := h.setPropertyValue(p, value); err != nil {
			return err
		}
		changed = true
	}
	if changed {
		st.Updated++
	}
	c.properties++
	return nil
}
