package song

import "path/filepath"

// PathPair is a path split in two: a datadir and a subpath below it. It can
// represent either a file or a directory. An empty Base means the
// represented path does not belong to any datadir.
type PathPair struct {
	Base string
	Rel  string
}

// NewPathPair builds a PathPair from a datadir and a subpath. An absolute
// subpath overrides the datadir: Base is forced empty so one type can carry
// both datadir-relative paths and fully-qualified ones.
func NewPathPair(base, rel string) *PathPair {
	if filepath.IsAbs(rel) {
		base = ""
	}
	return &PathPair{Base: base, Rel: rel}
}

// FullPath returns the full path represented by p.
func (p *PathPair) FullPath() string {
	return filepath.Join(p.Base, p.Rel)
}

func (p *PathPair) String() string {
	return p.FullPath()
}

// Clone returns an independent copy of p.
func (p *PathPair) Clone() *PathPair {
	c := *p
	return &c
}

// Join appends extra to the subpath in place and returns p for chaining.
// Callers that need the original must Clone first.
func (p *PathPair) Join(extra string) *PathPair {
	p.Rel = filepath.Join(p.Rel, extra)
	return p
}
