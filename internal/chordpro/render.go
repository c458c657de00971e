package chordpro

import (
	"io"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/versebook/versebook/internal/song"
)

// Renderers implements song.Format. Output formats without an entry here
// surface song.ErrUnsupportedFormat from Song.Render.
func (f Format) Renderers() map[string]song.RenderFunc {
	return map[string]song.RenderFunc{
		"chordpro": renderChordpro,
		"latex":    renderLatex,
	}
}

// renderContext is what the output templates see.
type renderContext struct {
	Titles    []string
	Authors   []string
	Languages []string
	Meta      [][2]string
	Lines     []string
	Columns   int
}

var chordproTemplate = template.Must(template.New("chordpro").Parse(
	`{{range .Titles}}{title: {{.}}}
{{end}}{{range .Authors}}{artist: {{.}}}
{{end}}{{range .Languages}}{language: {{.}}}
{{end}}{{range .Meta}}{{"{"}}{{index . 0}}: {{index . 1}}}
{{end}}
{{- range .Lines}}
{{.}}{{end}}
`))

var latexTemplate = template.Must(
	template.New("latex").Funcs(template.FuncMap{"join": strings.Join}).Parse(
		`{{range .Languages}}\selectlanguage{{"{"}}{{.}}}
{{end}}{{if .Columns}}\songcolumns{{"{"}}{{.Columns}}}
{{end}}\beginsong{{"{"}}{{join .Titles " \\\\ "}}}[by={{"{"}}{{join .Authors ", "}}}]
{{range .Lines}}{{.}}
{{end}}\endsong
`))

func renderChordpro(s *song.Song, w io.Writer, _ song.RenderOptions) error {
	body, err := decodeBody(s.Extra)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(body.Lines))
	for _, line := range body.Lines {
		switch line.Kind {
		case LineChorusStart:
			lines = append(lines, "{start_of_chorus}")
		case LineChorusEnd:
			lines = append(lines, "{end_of_chorus}")
		case LineComment:
			lines = append(lines, "{comment: "+line.Text+"}")
		case LineEmpty:
			lines = append(lines, "")
		default:
			lines = append(lines, line.Text)
		}
	}

	return chordproTemplate.Execute(w, &renderContext{
		Titles:    s.Titles,
		Authors:   s.Authors,
		Languages: s.Languages,
		Meta:      sortedMeta(s.Data),
		Lines:     lines,
	})
}

func renderLatex(s *song.Song, w io.Writer, opts song.RenderOptions) error {
	body, err := decodeBody(s.Extra)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(body.Lines))
	inVerse := false
	inChorus := false
	endVerse := func() {
		if inVerse {
			lines = append(lines, `\endverse`)
			inVerse = false
		}
	}
	for _, line := range body.Lines {
		switch line.Kind {
		case LineChorusStart:
			endVerse()
			lines = append(lines, `\beginchorus`)
			inChorus = true
		case LineChorusEnd:
			lines = append(lines, `\endchorus`)
			inChorus = false
		case LineComment:
			endVerse()
			lines = append(lines, `\textnote{`+escapeLatex(line.Text)+`}`)
		case LineEmpty:
			// Blank lines separate verses but are meaningless inside a
			// chorus block.
			if !inChorus {
				endVerse()
			}
		default:
			if !inVerse && !inChorus {
				lines = append(lines, `\beginverse`)
				inVerse = true
			}
			lines = append(lines, latexLine(line.Text))
		}
	}
	endVerse()

	// An explicit column count wins over the song's {columns: N} directive.
	columns := opts.Columns
	if columns == 0 {
		if n, err := strconv.Atoi(s.Data["columns"]); err == nil {
			columns = n
		}
	}

	return latexTemplate.Execute(w, &renderContext{
		Titles:    escapeAll(s.Titles),
		Authors:   escapeAll(s.Authors),
		Languages: s.Languages,
		Lines:     lines,
		Columns:   columns,
	})
}

// latexLine converts inline [A7] chords to the songs-package \[A7] form and
// escapes the lyric text around them.
func latexLine(line string) string {
	var out strings.Builder
	rest := line
	for {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			out.WriteString(escapeLatex(rest))
			return out.String()
		}
		end := strings.IndexByte(rest[open:], ']')
		if end < 0 {
			out.WriteString(escapeLatex(rest))
			return out.String()
		}
		out.WriteString(escapeLatex(rest[:open]))
		out.WriteString(`\[` + rest[open+1:open+end] + `]`)
		rest = rest[open+end+1:]
	}
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`_`, `\_`,
	`$`, `\$`,
	`{`, `\{`,
	`}`, `\}`,
)

func escapeLatex(s string) string {
	return latexEscaper.Replace(s)
}

func escapeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = escapeLatex(v)
	}
	return out
}

func sortedMeta(data map[string]string) [][2]string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	meta := make([][2]string, 0, len(keys))
	for _, k := range keys {
		meta = append(meta, [2]string{k, data[k]})
	}
	return meta
}
