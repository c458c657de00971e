// Package cache persists parsed song snapshots under a datadir's .cache
// directory so unchanged files are never parsed twice.
package cache

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

// ErrOutsideCache is returned by Locate when the relative path resolves
// outside the datadir's .cache directory.
var ErrOutsideCache = errors.New("cache path escapes the cache directory")

var (
	codecOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
)

// codecs returns the shared zstd encoder/decoder pair. With default options
// construction cannot fail.
func codecs() (*zstd.Encoder, *zstd.Decoder) {
	codecOnce.Do(func() {
		encoder, _ = zstd.NewWriter(nil)
		decoder, _ = zstd.NewReader(nil)
	})
	return encoder, decoder
}

// Locate returns the absolute path of the cache file for rel under datadir,
// creating any missing ancestor directories. rel must stay below the .cache
// directory; a path escaping it through ".." is ErrOutsideCache. A
// concurrent creation of the same directory is not an error; any other setup
// failure is.
func Locate(datadir, rel string) (string, error) {
	root, err := filepath.Abs(filepath.Join(datadir, ".cache"))
	if err != nil {
		return "", fmt.Errorf("unable to resolve cache path: %w", err)
	}
	fullpath := filepath.Join(root, rel)
	if inside, err := filepath.Rel(root, fullpath); err != nil || inside == "." ||
		inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideCache, rel)
	}
	// MkdirAll treats an existing directory as success, which covers the
	// two-writers race on the same new directory.
	if err := os.MkdirAll(filepath.Dir(fullpath), 0o755); err != nil {
		return "", fmt.Errorf("unable to create cache directory: %w", err)
	}
	return fullpath, nil
}

// Load reads the snapshot cached for rel under datadir and reports whether
// it is usable. A usable snapshot exists, decodes, and matches both the
// expected content hash and schema version exactly. Every failure mode is a
// miss: a missing file silently, anything unreadable or undecodable with a
// single warning. Load never returns an error; the caller re-parses on miss.
func Load(datadir, rel, wantHash string, wantVersion int) (*Snapshot, bool) {
	path, err := Locate(datadir, rel)
	if err != nil {
		log.Warn("Could not use cached version", "path", filepath.Join(datadir, rel), "err", err)
		return nil, false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Could not use cached version", "path", path, "err", err)
		}
		return nil, false
	}

	_, dec := codecs()
	plain, err := dec.DecodeAll(raw, nil)
	if err != nil {
		log.Warn("Could not use cached version", "path", path, "err", err)
		return nil, false
	}

	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(plain)).Decode(&snap); err != nil {
		log.Warn("Could not use cached version", "path", path, "err", err)
		return nil, false
	}

	// Stale entries are ignored, not deleted; the next Save overwrites them.
	if snap.ContentHash != wantHash || snap.Version != wantVersion {
		return nil, false
	}
	return &snap, true
}

// Save serializes snap and writes it to the cache location for rel under
// datadir, overwriting any existing file. Writes go through a temp file and
// rename, so a reader sees either the old snapshot or the new one.
func Save(datadir, rel string, snap *Snapshot) error {
	path, err := Locate(datadir, rel)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("unable to encode snapshot: %w", err)
	}
	enc, _ := codecs()
	compressed := enc.EncodeAll(buf.Bytes(), nil)

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, compressed, 0o644); err != nil {
		return fmt.Errorf("unable to write cache file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("unable to write cache file: %w", err)
	}
	return nil
}
