package form

import (
	"strings"
	"unicode"
)

// DefaultLabel is the fallback label NewSchema assigns to fields defined
// without one. The name is split on separators and camelCase humps and put in
// sentence case: "dateOfBirth" and "date_of_birth" both become "Date of birth".
func DefaultLabel(name string) string {
	var b strings.Builder
	var prev rune
	for _, r := range name {
		if r == '_' || r == '-' {
			r = ' '
		}
		if unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
		prev = r
	}

	label := strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
	if label == "" {
		return ""
	}
	runes := []rune(label)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
