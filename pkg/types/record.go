package types

// Record is one property flattened together with its owning section. A
// section without properties yields a single Record with an empty Name and
// PropertyIndex -1, so that exports keep empty sections.
type Record struct {
	Section       string `json:"section" yaml:"section"`
	SectionIndex  int    `json:"section_index" yaml:"section_index"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	PropertyIndex int    `json:"property_index" yaml:"property_index"`
	Value         string `json:"value,omitempty" yaml:"value,omitempty"`
}

// IsSection reports whether r stands for a section with no properties.
func (r Record) IsSection() bool {
	return r.PropertyIndex < 0
}
