// Package main provides the entry point for the versebook CLI application.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/muesli/gitcha"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	_ "github.com/versebook/versebook/internal/chordpro"
	"github.com/versebook/versebook/internal/config"
	"github.com/versebook/versebook/internal/song"
	"github.com/versebook/versebook/utils"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile   string
	datadirFlags []string

	rootCmd = &cobra.Command{
		Use:   "versebook [SONG|DIR]",
		Short: "Manage songbook sources on the CLI",
		Long: paragraph(
			fmt.Sprintf("\nParse songbook sources and show their %s. Parsed songs are cached per datadir, so unchanged files are never parsed twice.", keyword("metadata")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ArbitraryArgs,
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: execute,
	}
)

func loadSettings() (*config.Settings, error) {
	settings, err := config.FromViper()
	if err != nil {
		return nil, err
	}
	for _, dir := range datadirFlags {
		settings.Datadirs = append(settings.Datadirs, utils.ExpandPath(dir))
	}
	return settings, nil
}

func execute(_ *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if len(settings.Datadirs) == 0 {
			return errors.New("no song, directory, or configured datadir to show")
		}
		args = settings.Datadirs
	}

	for _, arg := range args {
		if err := executeArg(arg, settings, os.Stdout); err != nil {
			return err
		}
	}
	return nil
}

func executeArg(arg string, settings *config.Settings, w io.Writer) error {
	info, err := os.Stat(arg)
	if err != nil {
		return fmt.Errorf("unable to open source: %w", err)
	}
	if !info.IsDir() {
		return showSong(arg, settings, w)
	}

	paths, err := findSongs(arg)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := showSong(path, settings, w); err != nil {
			log.Error("Could not parse song", "path", path, "err", err)
		}
	}
	return nil
}

// findSongs walks dir for files with a registered song extension, honoring
// gitignore files along the way.
func findSongs(dir string) ([]string, error) {
	exts := song.Extensions()
	patterns := make([]string, 0, len(exts))
	for _, ext := range exts {
		patterns = append(patterns, "*"+ext)
	}

	ch, err := gitcha.FindAllFilesExcept(dir, patterns, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to search directory: %w", err)
	}

	var paths []string
	for res := range ch {
		paths = append(paths, res.Path)
	}
	sort.Strings(paths)
	return paths, nil
}

// openSong constructs the song for path, splitting it into a datadir and
// subpath when it lives under a configured datadir so the cache applies.
func openSong(path string, settings *config.Settings) (*song.Song, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path: %w", err)
	}
	datadir, subpath := splitDatadir(abs, settings.Datadirs)
	return song.Open(subpath, settings, datadir)
}

// splitDatadir returns the configured datadir containing path plus the
// relative subpath below it, or ("", path) when the song is a standalone
// file outside every datadir. Standalone songs are never cached.
func splitDatadir(path string, datadirs []string) (string, string) {
	for _, dir := range datadirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(abs, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return abs, rel
	}
	return "", path
}

func showSong(path string, settings *config.Settings, w io.Writer) error {
	s, err := openSong(path, settings)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, titleLine(s))
	printField(w, "authors", strings.Join(s.Authors, ", "))
	printField(w, "languages", strings.Join(s.Languages, ", "))
	for _, kv := range sortedData(s.Data) {
		printField(w, kv[0], kv[1])
	}
	if s.FromCache {
		printField(w, "source", "cache")
	}
	fmt.Fprintln(w)
	return nil
}

func titleLine(s *song.Song) string {
	title := s.FullPath
	if len(s.UnprefixedTitles) > 0 {
		title = s.UnprefixedTitles[0]
	}
	return keyword(title) + subtle(" ("+s.FullPath+")")
}

func printField(w io.Writer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %s %s\n", label(name+":"), value)
}

func sortedData(data map[string]string) [][2]string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, data[k]})
	}
	return out
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringArrayVarP(&datadirFlags, "datadir", "d", nil, "additional datadir to search (repeatable)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Config bindings
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetDefault("encoding", "utf-8")
	viper.SetDefault("titleprefixwords", config.Default().TitlePrefixWords)
	viper.SetDefault("authwords.separators", config.Default().Authwords.Separators)
	viper.SetDefault("authwords.ignore", config.Default().Authwords.Ignore)
	viper.SetDefault("authwords.after", config.Default().Authwords.After)

	rootCmd.AddCommand(renderCmd, cacheCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "versebook")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "versebook")}, dirs...)
	}

	if c := os.Getenv("VERSEBOOK_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("versebook")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("versebook")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "versebook.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
