package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Alpha", "alpha"},
		{"  alpha  ", "alpha"},
		{"ALPHA", "alpha"},
		{"Data   Platform", "data platform"},
		{"data\tplatform\n", "data platform"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NameKey(tt.name))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Data Platform", DisplayName("  Data   Platform "))
	assert.Equal(t, UnassignedName, DisplayName(""))
	assert.Equal(t, UnassignedName, DisplayName(" \t "))
}

func TestAbbreviateName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"popcorn", "popcorn"},
		{"Samuel Huang", "Samuel H"},
		{"First Second Third", "First T"},
		{"Ava (Billy) Cathy", "Ava C"},
		{"O'Neill John", "O'Neill J"},
		{"Anne-Marie Smith", "Anne-Marie S"},
		{"  Alice  ", "Alice"},
		{"John   Doe", "John D"},
		{"A. B. C.", "A C"},
		{"[John Smith]", "John S"},
		{"Hans Müller", "Hans M"},
		{"张三", "张三"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AbbreviateName(tt.name), "AbbreviateName(%q)", tt.name)
		})
	}
}

func TestFormatMembers(t *testing.T) {
	got := FormatMembers([]string{"Samuel Huang", "Kim", "Lee Park"})
	assert.Equal(t, "Samuel H, Kim, Lee P", got)
	assert.Equal(t, "", FormatMembers(nil))
}
