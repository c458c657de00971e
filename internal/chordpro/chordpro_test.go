package chordpro

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/versebook/versebook/internal/config"
	"github.com/versebook/versebook/internal/song"
)

const sampleSong = `# source comment, not part of the song
{title: The Wild Rover}
{st: No Nay Never}
{artist: Traditional}
{language: english}
{album: Pub Songs}
{capo: 2}

I've [G]been a wild rover for many's the [C]year

{start_of_chorus}
And it's [G]no, nay, never
{end_of_chorus}

{c: last time slower}
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rover.cho")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	path := writeSample(t, sampleSong)

	result, err := Format{}.Parse(path, config.Default())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if want := []string{"The Wild Rover", "No Nay Never"}; !reflect.DeepEqual(result.Titles, want) {
		t.Errorf("got titles %v, want %v", result.Titles, want)
	}
	if want := []string{"Traditional"}; !reflect.DeepEqual(result.Authors, want) {
		t.Errorf("got authors %v, want %v", result.Authors, want)
	}
	if want := []string{"english"}; !reflect.DeepEqual(result.Languages, want) {
		t.Errorf("got languages %v, want %v", result.Languages, want)
	}
	if result.Data["album"] != "Pub Songs" || result.Data["capo"] != "2" {
		t.Errorf("got data %v", result.Data)
	}

	body, err := decodeBody(result.Extra)
	if err != nil {
		t.Fatalf("decodeBody failed: %v", err)
	}
	var kinds []LineKind
	for _, line := range body.Lines {
		kinds = append(kinds, line.Kind)
	}
	want := []LineKind{
		LineEmpty, LineLyric, LineEmpty,
		LineChorusStart, LineLyric, LineChorusEnd,
		LineEmpty, LineComment,
	}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("got line kinds %v, want %v", kinds, want)
	}
}

func openSample(t *testing.T, datadir string) *song.Song {
	t.Helper()
	s, err := song.New(Format{}, "rover.cho", config.Default(), datadir)
	if err != nil {
		t.Fatalf("song.New failed: %v", err)
	}
	return s
}

func TestRenderLatex(t *testing.T) {
	datadir := t.TempDir()
	if err := os.WriteFile(filepath.Join(datadir, "rover.cho"), []byte(sampleSong), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	s := openSample(t, datadir)

	var buf strings.Builder
	if err := s.Render("latex", &buf, song.RenderOptions{Columns: 2}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`\selectlanguage{en}`,
		`\songcolumns{2}`,
		`\beginsong{The Wild Rover \\ No Nay Never}`,
		`\beginverse`,
		`\[G]been a wild rover`,
		`\endverse`,
		`\beginchorus`,
		`\endchorus`,
		`\textnote{last time slower}`,
		`\endsong`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("latex output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderChordpro(t *testing.T) {
	datadir := t.TempDir()
	if err := os.WriteFile(filepath.Join(datadir, "rover.cho"), []byte(sampleSong), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	s := openSample(t, datadir)

	var buf strings.Builder
	if err := s.Render("chordpro", &buf, song.RenderOptions{}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"{title: The Wild Rover}",
		"{title: No Nay Never}",
		"{language: en}",
		"{album: Pub Songs}",
		"{start_of_chorus}",
		"I've [G]been a wild rover",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("chordpro output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderAfterCacheHit(t *testing.T) {
	datadir := t.TempDir()
	if err := os.WriteFile(filepath.Join(datadir, "rover.cho"), []byte(sampleSong), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	fresh := openSample(t, datadir)
	var want strings.Builder
	if err := fresh.Render("latex", &want, song.RenderOptions{}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	cached := openSample(t, datadir)
	if !cached.FromCache {
		t.Fatal("second construction did not hit the cache")
	}
	var got strings.Builder
	if err := cached.Render("latex", &got, song.RenderOptions{}); err != nil {
		t.Fatalf("Render after cache hit failed: %v", err)
	}

	if got.String() != want.String() {
		t.Errorf("cached render differs from fresh render:\n got: %s\nwant: %s", got.String(), want.String())
	}
}

func TestRenderUnsupported(t *testing.T) {
	path := writeSample(t, sampleSong)

	s, err := song.New(Format{}, path, config.Default(), "")
	if err != nil {
		t.Fatalf("song.New failed: %v", err)
	}

	var buf strings.Builder
	err = s.Render("pdf", &buf, song.RenderOptions{})
	if !errors.Is(err, song.ErrUnsupportedFormat) {
		t.Errorf("got err %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseLongLine(t *testing.T) {
	// A single lyric line well past bufio.Scanner's default 64 KiB limit.
	lyric := strings.TrimSpace(strings.Repeat("la ", 40000))
	path := writeSample(t, "{title: Drone}\n"+lyric+"\n")

	result, err := Format{}.Parse(path, config.Default())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	body, err := decodeBody(result.Extra)
	if err != nil {
		t.Fatalf("decodeBody failed: %v", err)
	}
	if len(body.Lines) != 1 || body.Lines[0].Text != lyric {
		t.Error("long lyric line was not parsed intact")
	}
}

func TestRenderLatexColumnsDirective(t *testing.T) {
	datadir := t.TempDir()
	content := "{title: Rover}\n{columns: 3}\n\nlyric line\n"
	if err := os.WriteFile(filepath.Join(datadir, "rover.cho"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	s := openSample(t, datadir)

	var buf strings.Builder
	if err := s.Render("latex", &buf, song.RenderOptions{}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), `\songcolumns{3}`) {
		t.Errorf("latex output missing column count from directive:\n%s", buf.String())
	}

	// An explicit count overrides the directive.
	buf.Reset()
	if err := s.Render("latex", &buf, song.RenderOptions{Columns: 2}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), `\songcolumns{2}`) {
		t.Errorf("latex output missing overridden column count:\n%s", buf.String())
	}
}

func TestParseLatin1Encoding(t *testing.T) {
	content := "{title: Caf\xe9}\n{language: french}\n"
	path := writeSample(t, content)

	settings := config.Default()
	settings.Encoding = "ISO-8859-1"
	result, err := Format{}.Parse(path, settings)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Titles) != 1 || result.Titles[0] != "Café" {
		t.Errorf("got titles %v, want [Café]", result.Titles)
	}
}

func TestParseUnknownEncoding(t *testing.T) {
	path := writeSample(t, sampleSong)

	settings := config.Default()
	settings.Encoding = "no-such-charset"
	_, err := Format{}.Parse(path, settings)
	if err == nil {
		t.Error("Parse accepted an unknown encoding")
	}
}
