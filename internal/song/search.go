package song

import (
	"os"
	"path/filepath"
)

// SearchFile looks for filename, trying each extension in order, first in
// the song's own directory and then in each of the given directories in
// order. The first existing regular file wins; the returned path is
// absolute. A nil extensions slice means "no extension"; nil directories
// default to the configured datadirs. A miss is reported through ok, never
// as an error.
func (s *Song) SearchFile(filename string, extensions []string, directories []string) (string, bool) {
	if extensions == nil {
		extensions = []string{""}
	}
	if directories == nil {
		directories = s.settings.Datadirs
	}

	songdir := filepath.Dir(s.FullPath)
	for _, dir := range append([]string{songdir}, directories...) {
		for _, ext := range extensions {
			candidate := filepath.Join(dir, filename+ext)
			info, err := os.Stat(candidate)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			abs, err := filepath.Abs(candidate)
			if err != nil {
				continue
			}
			return abs, true
		}
	}
	return "", false
}

// SearchImage looks for an image file in the img subdirectory of each
// datadir. When nothing is found the original filename comes back
// unresolved; rendering then surfaces the broken reference verbatim.
func (s *Song) SearchImage(filename string) string {
	if path, ok := s.SearchFile(filename, []string{"", ".jpg", ".png"}, s.Datadirs("img")); ok {
		return path
	}
	return filename
}

// SearchPartition looks for a lilypond file, with the same not-found
// fallback as SearchImage.
func (s *Song) SearchPartition(filename string) string {
	if path, ok := s.SearchFile(filename, []string{"", ".ly"}, nil); ok {
		return path
	}
	return filename
}

// Datadirs returns the configured datadirs that exist, each joined with
// subdir when one is given. Order follows the configuration.
func (s *Song) Datadirs(subdir string) []string {
	// Never nil: an empty result must not fall back to the full datadir
	// list inside SearchFile.
	dirs := []string{}
	for _, dir := range s.settings.Datadirs {
		full := filepath.Join(dir, subdir)
		if info, err := os.Stat(full); err == nil && info.IsDir() {
			dirs = append(dirs, full)
		}
	}
	return dirs
}
