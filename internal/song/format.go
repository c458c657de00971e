package song

import (
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/versebook/versebook/internal/config"
)

// ParseResult is what a file format extracts from a song source. Every
// field except Extra must be populated; leaving one empty on a song that
// has the information is a contract violation of the format, not of Song.
type ParseResult struct {
	// Titles are the raw titles, in file order. Prefix stripping happens
	// later, in Song post-processing.
	Titles []string
	// Languages are the language tags used in the song, in file order.
	Languages []string
	// Authors are the raw author strings, before normalization.
	Authors []string
	// Data is free-form song metadata, used among others to sort songs.
	Data map[string]string
	// Extra is an opaque format-owned payload carried through the cache so
	// rendering works without re-reading the source. The format encodes
	// and decodes it itself.
	Extra []byte
}

// RenderOptions carries per-render tweaks through to a RenderFunc.
type RenderOptions struct {
	// Columns requests a column count where the output format has one.
	Columns int
}

// RenderFunc renders a parsed song to w in one output format.
type RenderFunc func(s *Song, w io.Writer, opts RenderOptions) error

// Format is the capability contract a song file format implements. Song
// depends only on this interface, never on a concrete format.
type Format interface {
	// Name identifies the format; it tags the cached Extra payload.
	Name() string

	// Extensions lists the file extensions (with dot) the format claims.
	Extensions() []string

	// Parse extracts a ParseResult from the file at path. It must be
	// deterministic for identical file content, or caching is unsound.
	Parse(path string, settings *config.Settings) (*ParseResult, error)

	// Renderers maps output format names to render functions. A name
	// missing from the map is an unsupported output format.
	Renderers() map[string]RenderFunc
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Format{}
)

// RegisterFormat makes a format available to LookupFormat under each of its
// extensions. Typically called from a format package's init.
func RegisterFormat(f Format) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, ext := range f.Extensions() {
		registry[strings.ToLower(ext)] = f
	}
}

// LookupFormat returns the format registered for the extension of path.
func LookupFormat(path string) (Format, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Extensions returns every registered file extension, unordered.
func Extensions() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	return exts
}
