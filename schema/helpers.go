package schema

import (
	"strings"
	"unicode"
)

// CleanName trims a name and collapses internal whitespace runs into single spaces.
func CleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NameKey is the grouping identity of an entity name.
// Names that differ only in casing or whitespace share a key.
func NameKey(name string) string {
	return strings.ToLower(CleanName(name))
}

// DisplayName returns the cleaned name, or UnassignedName when nothing is left.
func DisplayName(name string) string {
	if cleaned := CleanName(name); cleaned != "" {
		return cleaned
	}
	return UnassignedName
}

// trimPart strips punctuation from both ends of a name part, keeping inner hyphens and apostrophes.
func trimPart(p string) string {
	cp := strings.TrimFunc(p, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\'' && r != '.'
	})
	return strings.TrimSuffix(cp, ".")
}

// AbbreviateName formats "Samuel Huang" to "Samuel H".
// Single-part names are returned unchanged.
func AbbreviateName(name string) string {
	trimmed := strings.Trim(strings.TrimSpace(name), "()\"'`")

	var cleaned []string
	for _, p := range strings.Fields(trimmed) {
		if cp := trimPart(p); cp != "" {
			cleaned = append(cleaned, cp)
		}
	}

	switch len(cleaned) {
	case 0:
		return CleanName(name)
	case 1:
		return cleaned[0]
	}
	first, last := cleaned[0], []rune(cleaned[len(cleaned)-1])
	return first + " " + string(last[0])
}

// FormatMembers formats member names as "Samuel H, Jane D".
func FormatMembers(members []string) string {
	abbreviated := make([]string, 0, len(members))
	for _, m := range members {
		abbreviated = append(abbreviated, AbbreviateName(m))
	}
	return strings.Join(abbreviated, ", ")
}
