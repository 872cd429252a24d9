package ngi

import "strings"

// Format tokens.
const (
	SectionToken  = "->"
	PropertyToken = ": "

	// sectionSeparator sits between a section name and SectionToken.
	sectionSeparator = " "
)

// LineType is the role of a line in an ngi file.
type LineType int

// Line roles.
const (
	LineUnknown LineType = iota
	LineSection
	LineProperty
)

// String returns the lower-case role name.
func (t LineType) String() string {
	switch t {
	case LineSection:
		return "section"
	case LineProperty:
		return "property"
	default:
		return "unknown"
	}
}

// Classify returns the role of line. A section line is a name followed by
// SectionToken and nothing else. A property line starts with a name directly
// followed by PropertyToken. Tokens appearing later in a line, for example
// inside a property value, do not change its role.
func Classify(line string) LineType {
	l := trimEOL(line)
	if head, ok := strings.CutSuffix(l, SectionToken); ok && isName(head) {
		return LineSection
	}
	if head, _, ok := strings.Cut(l, PropertyToken); ok && isName(head) {
		return LineProperty
	}
	return LineUnknown
}

// StripSectionName returns the name of a section line with the trailing
// separator space removed. ok is false when line is not a section line.
func StripSectionName(line string) (name string, ok bool) {
	if Classify(line) != LineSection {
		return "", false
	}
	head, _ := strings.CutSuffix(trimEOL(line), SectionToken)
	return strings.TrimSuffix(head, sectionSeparator), true
}

// StripPropertyName returns the text before the first PropertyToken of a
// property line. ok is false when line is not a property line.
func StripPropertyName(line string) (name string, ok bool) {
	name, _, ok = splitProperty(line)
	return name, ok
}

// StripPropertyValue returns everything after the first PropertyToken of a
// property line, up to the line terminator. ok is false when line is not a
// property line.
func StripPropertyValue(line string) (value string, ok bool) {
	_, value, ok = splitProperty(line)
	return value, ok
}

// ValidName reports whether name can be written as a section or property
// name and read back unchanged: non-blank and made only of ASCII letters,
// digits, underscores and spaces.
func ValidName(name string) bool {
	return isName(name)
}

// validValue reports whether value fits on a single line.
func validValue(value string) bool {
	return !strings.ContainsAny(value, "\r\n")
}

// sectionLineLen returns the length of the line WriteSection emits for
// name, terminator included.
func sectionLineLen(name string) int {
	return len(name) + len(sectionSeparator) + len(SectionToken) + 1
}

// propertyLineLen returns the length of the line WriteProperty emits,
// terminator included.
func propertyLineLen(name, value string) int {
	return len(name) + len(PropertyToken) + len(value) + 1
}

func splitProperty(line string) (name, value string, ok bool) {
	if Classify(line) != LineProperty {
		return "", "", false
	}
	name, value, _ = strings.Cut(trimEOL(line), PropertyToken)
	return name, value, true
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// isName reports whether s is a non-blank run of name characters.
func isName(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}

func isNameByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '_' || c == ' ':
		return true
	}
	return false
}
