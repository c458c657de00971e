package song

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/versebook/versebook/internal/config"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func searchSong(t *testing.T, settings *config.Settings) *Song {
	t.Helper()
	dir := t.TempDir()
	path := writeSong(t, dir, "song.fake", "verse")
	s, err := New(&fakeFormat{}, path, settings, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestSearchFileOrder(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	touch(t, filepath.Join(dirB, "cover.png"))

	s := searchSong(t, testSettings())

	got, ok := s.SearchFile("cover", []string{"", ".png"}, []string{dirA, dirB})
	if !ok {
		t.Fatal("SearchFile missed an existing file")
	}
	want, _ := filepath.Abs(filepath.Join(dirB, "cover.png"))
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSearchFileOwnDirectoryWins(t *testing.T) {
	other := t.TempDir()
	touch(t, filepath.Join(other, "cover.png"))

	s := searchSong(t, testSettings())
	songdir := filepath.Dir(s.FullPath)
	touch(t, filepath.Join(songdir, "cover.png"))

	got, ok := s.SearchFile("cover", []string{"", ".png"}, []string{other})
	if !ok {
		t.Fatal("SearchFile missed an existing file")
	}
	want, _ := filepath.Abs(filepath.Join(songdir, "cover.png"))
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSearchFileExtensionOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "cover"))
	touch(t, filepath.Join(dir, "cover.png"))

	s := searchSong(t, testSettings())

	got, _ := s.SearchFile("cover", []string{".png", ""}, []string{dir})
	want, _ := filepath.Abs(filepath.Join(dir, "cover.png"))
	if got != want {
		t.Errorf("extension order not respected: got %q, want %q", got, want)
	}
}

func TestSearchFileMiss(t *testing.T) {
	s := searchSong(t, testSettings())
	if got, ok := s.SearchFile("nothing-here", nil, []string{t.TempDir()}); ok {
		t.Errorf("SearchFile found %q for a missing file", got)
	}
}

func TestSearchImage(t *testing.T) {
	datadir := t.TempDir()
	touch(t, filepath.Join(datadir, "img", "cover.jpg"))

	settings := testSettings()
	settings.Datadirs = []string{datadir}
	s := searchSong(t, settings)

	got := s.SearchImage("cover")
	want, _ := filepath.Abs(filepath.Join(datadir, "img", "cover.jpg"))
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Not found falls back to the input name, never an error.
	if got := s.SearchImage("missing"); got != "missing" {
		t.Errorf("got %q, want unresolved %q", got, "missing")
	}
}

func TestSearchImageNoImgDirs(t *testing.T) {
	datadir := t.TempDir() // no img subdirectory
	// A file at the datadir root must not be found through SearchImage.
	touch(t, filepath.Join(datadir, "cover.jpg"))

	settings := testSettings()
	settings.Datadirs = []string{datadir}
	s := searchSong(t, settings)

	if got := s.SearchImage("cover"); got != "cover" {
		t.Errorf("got %q, want unresolved %q", got, "cover")
	}
}

func TestSearchPartition(t *testing.T) {
	datadir := t.TempDir()
	touch(t, filepath.Join(datadir, "intro.ly"))

	settings := testSettings()
	settings.Datadirs = []string{datadir}
	s := searchSong(t, settings)

	got := s.SearchPartition("intro")
	want, _ := filepath.Abs(filepath.Join(datadir, "intro.ly"))
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got := s.SearchPartition("missing"); got != "missing" {
		t.Errorf("got %q, want unresolved %q", got, "missing")
	}
}

func TestDatadirsExistingOnly(t *testing.T) {
	withImg := t.TempDir()
	withoutImg := t.TempDir()
	if err := os.MkdirAll(filepath.Join(withImg, "img"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	settings := testSettings()
	settings.Datadirs = []string{withoutImg, withImg}
	s := searchSong(t, settings)

	got := s.Datadirs("img")
	if len(got) != 1 || got[0] != filepath.Join(withImg, "img") {
		t.Errorf("got %v, want [%s]", got, filepath.Join(withImg, "img"))
	}
}
