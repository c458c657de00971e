package song

import (
	"strings"

	"golang.org/x/text/language"
)

// babelNames maps the babel-style language names found in song files to
// BCP 47 tags.
var babelNames = map[string]string{
	"english":    "en",
	"french":     "fr",
	"francais":   "fr",
	"german":     "de",
	"ngerman":    "de",
	"spanish":    "es",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
	"latin":      "la",
	"esperanto":  "eo",
	"breton":     "br",
	"occitan":    "oc",
}

// CanonicalLanguages normalizes parsed language tags to canonical BCP 47
// form, preserving order and dropping duplicates. Tags that are neither
// known babel names nor parseable are kept verbatim; a wrong tag should
// surface in the output, not vanish.
func CanonicalLanguages(raw []string) []string {
	var out []string
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		tag := strings.TrimSpace(r)
		if tag == "" {
			continue
		}
		if mapped, ok := babelNames[strings.ToLower(tag)]; ok {
			tag = mapped
		} else if parsed, err := language.Parse(tag); err == nil {
			tag = parsed.String()
		}
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}
