package cache

// SchemaVersion tags every snapshot written to disk. Increment it whenever
// the set or meaning of cached fields changes; every older snapshot then
// reads as stale and is re-parsed.
const SchemaVersion = 2

// Snapshot is the serializable subset of a song's derived state. It is the
// exact set of fields persisted per song; a decoded snapshot is only used
// when both ContentHash and Version match what the caller expects.
type Snapshot struct {
	Titles           []string
	UnprefixedTitles []string
	Extra            []byte
	ExtraFormat      string
	Data             map[string]string
	Subpath          string
	Languages        []string
	Authors          []string
	ContentHash      string
	Version          int
}
