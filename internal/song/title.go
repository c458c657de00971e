package song

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// UnprefixedTitle removes the first matching prefix from the beginning of
// title, if any. Prefixes are tried in the configured order and only the
// first match is applied, so list order wins over match length. A prefix
// matches only on a word boundary; the prefix and any whitespace following
// it are removed. Matching is case-sensitive.
func UnprefixedTitle(title string, prefixes []string) string {
	for _, prefix := range prefixes {
		if rest, ok := stripPrefixWord(title, prefix); ok {
			return rest
		}
	}
	return title
}

func stripPrefixWord(title, prefix string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(title, prefix) {
		return "", false
	}
	rest := title[len(prefix):]
	// The prefix must end on a word boundary: "The Song" matches "The",
	// "Theme" does not. A prefix ending in a non-word rune ("L'") forms a
	// boundary on its own.
	last, _ := utf8.DecodeLastRuneInString(prefix)
	next, _ := utf8.DecodeRuneInString(rest)
	if isWordRune(last) && isWordRune(next) {
		return "", false
	}
	return strings.TrimLeftFunc(rest, unicode.IsSpace), true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
