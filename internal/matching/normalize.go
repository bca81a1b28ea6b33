package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer turns a display name into a comparison key
type Normalizer func(string) string

// Normalize canonicalizes a display name: characters that are neither word
// characters (letters, digits, underscore) nor whitespace are dropped,
// whitespace runs collapse to one space, and the result is trimmed and
// lowercased. Decomposed accents are composed first so they survive with the
// letter they modify.
//
// Normalize is total and idempotent.
func Normalize(name string) string {
	s := strings.ToLower(norm.NFC.String(name))

	s = strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)

	// Removing punctuation may leave composable neighbours
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
