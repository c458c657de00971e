// Package authors normalizes raw author strings extracted from song files:
// it splits combined credits, drops pseudo-authors, strips lead-in words and
// puts "Lastname, Firstname" names back in reading order.
package authors

import (
	"regexp"
	"strings"
)

// Options configures normalization. The zero value splits on commas and
// semicolons only and keeps everything.
type Options struct {
	// Separators are words that split one credit into several authors
	// ("and", "et"). Matched case-insensitively on word boundaries.
	Separators []string
	// Ignore lists credits dropped entirely ("unknown", "traditional").
	// Matched case-insensitively against the whole cleaned name.
	Ignore []string
	// After lists lead-in words stripped from the front of a name ("by").
	After []string
}

// ProcessList normalizes a raw ordered author list, preserving the order in
// which authors first appear.
func ProcessList(raw []string, opts Options) []string {
	splitter := separatorPattern(opts.Separators)
	ignored := lowerSet(opts.Ignore)

	var out []string
	for _, credit := range raw {
		for _, part := range splitCredit(credit, splitter) {
			name := cleanName(part, opts.After)
			if name == "" || ignored[strings.ToLower(name)] {
				continue
			}
			out = append(out, name)
		}
	}
	return out
}

// splitCredit cuts one credit string into candidate names. Semicolons
// always split; commas split only when they appear more than once, since a
// single comma usually marks a "Lastname, Firstname" inversion.
func splitCredit(credit string, splitter *regexp.Regexp) []string {
	var parts []string
	for _, chunk := range strings.Split(credit, ";") {
		if strings.Count(chunk, ",") > 1 {
			for _, sub := range strings.Split(chunk, ",") {
				parts = append(parts, splitWords(sub, splitter)...)
			}
		} else {
			parts = append(parts, splitWords(chunk, splitter)...)
		}
	}
	return parts
}

func splitWords(s string, splitter *regexp.Regexp) []string {
	if splitter == nil {
		return []string{s}
	}
	return splitter.Split(s, -1)
}

func cleanName(name string, after []string) string {
	name = strings.TrimSpace(name)
	for _, lead := range after {
		if rest, ok := strings.CutPrefix(name, lead+" "); ok {
			name = strings.TrimSpace(rest)
			break
		}
	}
	// "Lastname, Firstname" -> "Firstname Lastname".
	if first, second, ok := strings.Cut(name, ","); ok && !strings.Contains(second, ",") {
		first = strings.TrimSpace(first)
		second = strings.TrimSpace(second)
		if first != "" && second != "" {
			name = second + " " + first
		}
	}
	return strings.TrimSpace(name)
}

func separatorPattern(separators []string) *regexp.Regexp {
	if len(separators) == 0 {
		return nil
	}
	quoted := make([]string, len(separators))
	for i, sep := range separators {
		quoted[i] = regexp.QuoteMeta(sep)
	}
	return regexp.MustCompile(`(?i)\s+(?:` + strings.Join(quoted, "|") + `)\s+`)
}

func lowerSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}
