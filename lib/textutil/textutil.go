package textutil

import (
	"strings"
	"unicode"
)

// NormalizeName lowercases a name and drops everything that isn't a letter or
// a digit, so "P.J. Tucker" and "pj  tucker" normalize the same.
func NormalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, name)
}
