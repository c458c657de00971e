package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# text encoding of song source files (IANA name)
encoding: "utf-8"

# title prefixes stripped when sorting, in order, first match wins
titleprefixwords:
  - "The"
  - "Le"
  - "La"
  - "Les"
  - "L'"

# author-list normalization
authwords:
  # words splitting one credit into several authors
  separators:
    - "and"
    - "et"
  # pseudo-authors dropped from the result
  ignore:
    - "unknown"
    - "traditional"
    - "traditionnel"
  # lead-in words stripped from the front of a name
  after:
    - "by"
    - "par"

# datadirs holding songs; caches live under <datadir>/.cache
datadir: []
#  - "~/songs"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Show the versebook config file",
	Long:    paragraph(fmt.Sprintf("\n%s the versebook config file path. If the config file doesn't exist, it will be created with defaults.", keyword("Show"))),
	Example: paragraph("versebook config\nversebook config --config path/to/versebook.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		fmt.Println("Config file:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
