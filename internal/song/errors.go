package song

import "errors"

// Common errors for song management.
var (
	// ErrUnsupportedFormat is returned when a song is asked to render to an
	// output format its file format has no renderer for.
	ErrUnsupportedFormat = errors.New("output format not supported")

	// ErrUnknownExtension is returned when no registered file format claims
	// a file's extension.
	ErrUnknownExtension = errors.New("no format registered for extension")
)
