// Package chordpro implements the chordpro song file format: directive
// lines like {title: ...}, lyric lines with inline [A7] chords, and chorus
// blocks. It registers itself with the song format registry.
package chordpro

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/versebook/versebook/internal/config"
	"github.com/versebook/versebook/internal/song"
)

// LineKind classifies one body line.
type LineKind int

const (
	LineLyric LineKind = iota
	LineChorusStart
	LineChorusEnd
	LineComment
	LineEmpty
)

// Line is one body line with chords kept inline in Text.
type Line struct {
	Kind LineKind
	Text string
}

// Body is the format-owned payload cached alongside the song metadata, so a
// cache hit can still render without re-reading the source.
type Body struct {
	Lines []Line
}

// Format implements song.Format for chordpro files.
type Format struct{}

func init() {
	song.RegisterFormat(Format{})
}

// Name implements song.Format.
func (Format) Name() string { return "chordpro" }

// Extensions implements song.Format.
func (Format) Extensions() []string {
	return []string{".cho", ".crd", ".chopro", ".chordpro", ".sg"}
}

// directiveAliases maps shorthand directive names to their long form.
var directiveAliases = map[string]string{
	"t":    "title",
	"st":   "subtitle",
	"by":   "artist",
	"c":    "comment",
	"soc":  "start_of_chorus",
	"eoc":  "end_of_chorus",
	"lang": "language",
}

// Parse implements song.Format.
func (f Format) Parse(path string, settings *config.Settings) (*song.ParseResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open song file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	reader, err := decodingReader(file, settings.Encoding)
	if err != nil {
		return nil, err
	}

	result := &song.ParseResult{Data: map[string]string{}}
	var body Body

	scanner := bufio.NewScanner(reader)
	// Lyric lines can exceed bufio's default 64 KiB token limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			body.Lines = append(body.Lines, Line{Kind: LineEmpty})
		case strings.HasPrefix(trimmed, "#"):
			// Source comment, not part of the song.
		case strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}"):
			f.applyDirective(trimmed[1:len(trimmed)-1], result, &body)
		default:
			body.Lines = append(body.Lines, Line{Kind: LineLyric, Text: line})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read song file: %w", err)
	}

	result.Extra, err = encodeBody(&body)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (Format) applyDirective(directive string, result *song.ParseResult, body *Body) {
	name, value, _ := strings.Cut(directive, ":")
	name = strings.ToLower(strings.TrimSpace(name))
	value = strings.TrimSpace(value)
	if long, ok := directiveAliases[name]; ok {
		name = long
	}

	switch name {
	case "title", "subtitle":
		result.Titles = append(result.Titles, value)
	case "language":
		result.Languages = append(result.Languages, value)
	case "artist", "author", "composer", "lyricist":
		result.Authors = append(result.Authors, value)
	case "start_of_chorus":
		body.Lines = append(body.Lines, Line{Kind: LineChorusStart})
	case "end_of_chorus":
		body.Lines = append(body.Lines, Line{Kind: LineChorusEnd})
	case "comment":
		body.Lines = append(body.Lines, Line{Kind: LineComment, Text: value})
	default:
		// Everything else is sort/group metadata: album, year, key, capo,
		// tempo, columns, ...
		result.Data[name] = value
	}
}

// decodingReader wraps r with a charset decoder when the configured
// encoding is not UTF-8. Encoding names are IANA names.
func decodingReader(r io.Reader, name string) (io.Reader, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return r, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

func encodeBody(body *Body) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("unable to encode song body: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeBody(extra []byte) (*Body, error) {
	var body Body
	if len(extra) == 0 {
		return &body, nil
	}
	if err := gob.NewDecoder(bytes.NewReader(extra)).Decode(&body); err != nil {
		return nil, fmt.Errorf("unable to decode song body: %w", err)
	}
	return &body, nil
}
