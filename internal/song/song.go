// Package song manages songbook source files: it parses them through a
// pluggable file format, post-processes the extracted metadata, and keeps a
// per-file snapshot cache so unchanged files are never parsed twice.
package song

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/versebook/versebook/internal/authors"
	"github.com/versebook/versebook/internal/cache"
	"github.com/versebook/versebook/internal/config"
)

// Song is a song bound to a file. Its derived fields are populated once at
// construction, either from the snapshot cache or by parsing the file, and
// are read-only afterwards.
type Song struct {
	// FullPath locates the source file; it is the song's identity.
	FullPath string
	// Subpath is the path below the datadir, or the full path when the
	// song lives outside any datadir.
	Subpath string

	Titles           []string
	UnprefixedTitles []string
	Languages        []string
	Authors          []string
	Data             map[string]string
	// Extra is the format-owned payload, tagged by the format's name in
	// the cache.
	Extra []byte
	// ContentHash is the sha256 of the raw file bytes at construction
	// time. It only decides cache validity, never identity.
	ContentHash string
	// FromCache reports whether construction restored the song from its
	// cached snapshot instead of parsing.
	FromCache bool

	datadir  string
	format   Format
	settings *config.Settings
}

// New constructs a Song for subpath using the given file format. When
// datadir is non-empty and the cached snapshot matches the file's current
// content hash and the schema version, every derived field is restored from
// the snapshot and no parsing happens. Otherwise the file is parsed,
// post-processed, and (when a datadir is set) a fresh snapshot is written.
// Parse errors propagate; cache read problems never do.
func New(format Format, subpath string, settings *config.Settings, datadir string) (*Song, error) {
	pair := NewPathPair(datadir, subpath)
	s := &Song{
		FullPath: pair.FullPath(),
		Subpath:  subpath,
		datadir:  pair.Base,
		format:   format,
		settings: settings,
	}

	// Only songs in datadirs are cached.
	if s.datadir != "" {
		raw, err := os.ReadFile(s.FullPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read song file: %w", err)
		}
		sum := sha256.Sum256(raw)
		s.ContentHash = hex.EncodeToString(sum[:])

		// A snapshot written by a different file format cannot be trusted
		// to carry this format's Extra payload, so it is a miss.
		if snap, ok := cache.Load(s.datadir, subpath, s.ContentHash, cache.SchemaVersion); ok && snap.ExtraFormat == format.Name() {
			s.restore(snap)
			return s, nil
		}
	}

	parsed, err := format.Parse(s.FullPath, settings)
	if err != nil {
		return nil, err
	}
	s.Titles = parsed.Titles
	s.Languages = CanonicalLanguages(parsed.Languages)
	s.Data = parsed.Data
	s.Extra = parsed.Extra

	// Post-processing only runs after a fresh parse; a cache hit restores
	// its results directly.
	s.UnprefixedTitles = make([]string, len(s.Titles))
	for i, title := range s.Titles {
		s.UnprefixedTitles[i] = UnprefixedTitle(title, settings.TitlePrefixWords)
	}
	s.Authors = authors.ProcessList(parsed.Authors, authors.Options{
		Separators: settings.Authwords.Separators,
		Ignore:     settings.Authwords.Ignore,
		After:      settings.Authwords.After,
	})

	if s.datadir != "" {
		if err := cache.Save(s.datadir, subpath, s.snapshot()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Open is New with the format looked up from the registry by the subpath's
// extension.
func Open(subpath string, settings *config.Settings, datadir string) (*Song, error) {
	format, ok := LookupFormat(subpath)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExtension, subpath)
	}
	return New(format, subpath, settings, datadir)
}

// Format returns the file format the song was constructed with.
func (s *Song) Format() Format {
	return s.format
}

// Render writes the song to w in the named output format, dispatching
// through the file format's capability map. An output format the file
// format has no renderer for yields ErrUnsupportedFormat.
func (s *Song) Render(outputFormat string, w io.Writer, opts RenderOptions) error {
	render, ok := s.format.Renderers()[outputFormat]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, outputFormat)
	}
	return render(s, w, opts)
}

func (s *Song) String() string {
	return fmt.Sprintf("Song(%q, %s)", s.Titles, s.FullPath)
}

func (s *Song) restore(snap *cache.Snapshot) {
	s.Titles = snap.Titles
	s.UnprefixedTitles = snap.UnprefixedTitles
	s.Extra = snap.Extra
	s.Data = snap.Data
	s.Subpath = snap.Subpath
	s.Languages = snap.Languages
	s.Authors = snap.Authors
	s.ContentHash = snap.ContentHash
	s.FromCache = true
}

func (s *Song) snapshot() *cache.Snapshot {
	return &cache.Snapshot{
		Titles:           s.Titles,
		UnprefixedTitles: s.UnprefixedTitles,
		Extra:            s.Extra,
		ExtraFormat:      s.format.Name(),
		Data:             s.Data,
		Subpath:          s.Subpath,
		Languages:        s.Languages,
		Authors:          s.Authors,
		ContentHash:      s.ContentHash,
		Version:          cache.SchemaVersion,
	}
}
