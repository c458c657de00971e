// Package config holds the songbook settings consumed by the song pipeline:
// source encoding, title prefix words, author normalization options and the
// ordered list of datadirs.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/versebook/versebook/utils"
)

// Authwords configures author-list normalization.
type Authwords struct {
	// Separators are words splitting one author string into several
	// authors ("and", "et", ...). Commas and semicolons always split.
	Separators []string `mapstructure:"separators"`
	// Ignore lists pseudo-authors dropped from the result ("unknown", ...).
	Ignore []string `mapstructure:"ignore"`
	// After lists lead-in words stripped from the front of a name ("by").
	After []string `mapstructure:"after"`
}

// Settings is the songbook configuration.
type Settings struct {
	// Encoding is the IANA name of the song-file text encoding. Empty
	// means UTF-8.
	Encoding string `mapstructure:"encoding"`
	// TitlePrefixWords are stripped from the front of titles, in order,
	// first match wins ("The", "Le", "La", ...).
	TitlePrefixWords []string  `mapstructure:"titleprefixwords"`
	Authwords        Authwords `mapstructure:"authwords"`
	// Datadirs are the roots under which songs and their caches live,
	// searched in order.
	Datadirs []string `mapstructure:"datadir"`
}

// Default returns the settings used when no configuration file sets them.
func Default() *Settings {
	return &Settings{
		Encoding:         "utf-8",
		TitlePrefixWords: []string{"The", "Le", "La", "Les", "L'", "A", "Au"},
		Authwords: Authwords{
			Separators: []string{"and", "et"},
			Ignore:     []string{"unknown", "traditionnel", "traditional"},
			After:      []string{"by", "par"},
		},
	}
}

// FromViper unmarshals the global viper configuration into Settings,
// falling back to defaults for unset fields and expanding ~ and $VARS in
// datadir paths.
func FromViper() (*Settings, error) {
	settings := Default()
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("unable to parse configuration: %w", err)
	}
	for i, dir := range settings.Datadirs {
		settings.Datadirs[i] = utils.ExpandPath(dir)
	}
	return settings, nil
}
