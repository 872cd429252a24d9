package ngi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want LineType
	}{
		{"net ->\n", LineSection},
		{"net->\n", LineSection},
		{"test section ->", LineSection},
		{"net ->\r\n", LineSection},
		{"host: localhost\n", LineProperty},
		{"empty: \n", LineProperty},
		{"url: http://example.com/a -> b\n", LineProperty},
		{"note: a: b\n", LineProperty},
		{"arrow: ->\n", LineProperty},
		{"", LineUnknown},
		{"\n", LineUnknown},
		{"# comment\n", LineUnknown},
		{"->\n", LineUnknown},
		{"   ->\n", LineUnknown},
		{"a-b ->\n", LineUnknown},
		{": value\n", LineUnknown},
		{"key:value\n", LineUnknown},
		{"net -> trailing\n", LineUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
}

func TestLineTypeString(t *testing.T) {
	assert.Equal(t, "section", LineSection.String())
	assert.Equal(t, "property", LineProperty.String())
	assert.Equal(t, "unknown", LineUnknown.String())
}

func TestStripSectionName(t *testing.T) {
	name, ok := StripSectionName("test section ->")
	require.True(t, ok)
	assert.Equal(t, "test section", name)

	name, ok = StripSectionName("net->\n")
	require.True(t, ok)
	assert.Equal(t, "net", name)

	_, ok = StripSectionName("host: localhost\n")
	assert.False(t, ok)
}

func TestStripProperty(t *testing.T) {
	name, ok := StripPropertyName("test 1: This is a sample text")
	require.True(t, ok)
	assert.Equal(t, "test 1", name)

	value, ok := StripPropertyValue("test 2: This is a new sample text")
	require.True(t, ok)
	assert.Equal(t, "This is a new sample text", value)

	value, ok = StripPropertyValue("crlf: windows\r\n")
	require.True(t, ok)
	assert.Equal(t, "windows", value)

	value, ok = StripPropertyValue("empty: \n")
	require.True(t, ok)
	assert.Equal(t, "", value)

	value, ok = StripPropertyValue("note: a: b -> c\n")
	require.True(t, ok)
	assert.Equal(t, "a: b -> c", value)

	_, ok = StripPropertyName("net ->\n")
	assert.False(t, ok)
	_, ok = StripPropertyValue("plain text\n")
	assert.False(t, ok)
}

func TestSectionRoundTrip(t *testing.T) {
	names := []string{"net", "test section", "a_b_c", "X1", " leading", "trailing "}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteSection(&buf, name))

			line := buf.String()
			require.Equal(t, LineSection, Classify(line))
			got, ok := StripSectionName(line)
			require.True(t, ok)
			assert.Equal(t, name, got)
		})
	}
}

func TestPropertyRoundTrip(t *testing.T) {
	pairs := []struct{ name, value string }{
		{"host", "localhost"},
		{"empty", ""},
		{"url", "http://example.com:8080/path"},
		{"tokens", "a: b -> c"},
		{"arrow", "->"},
		{"spaced name", "  padded value  "},
		{"utf8", "héllo wörld"},
	}
	for _, pair := range pairs {
		t.Run(pair.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteProperty(&buf, pair.name, pair.value))

			line := buf.String()
			require.Equal(t, LineProperty, Classify(line))
			name, ok := StripPropertyName(line)
			require.True(t, ok)
			value, ok := StripPropertyValue(line)
			require.True(t, ok)
			assert.Equal(t, pair.name, name)
			assert.Equal(t, pair.value, value)
		})
	}
}

func TestValidName(t *testing.T) {
	for _, name := range []string{"net", "a b", "_x_", "Z9"} {
		assert.True(t, ValidName(name), name)
	}
	for _, name := range []string{"", "   ", "a:b", "a-b", "héllo", "a\nb"} {
		assert.False(t, ValidName(name), name)
	}
}
