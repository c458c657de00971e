package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	cacheClear bool

	cacheCmd = &cobra.Command{
		Use:     "cache",
		Short:   "Show or clear the per-datadir song caches",
		Long:    paragraph(fmt.Sprintf("\nShow how much space the parsed-song caches use per datadir, or %s them. A cleared cache only costs a re-parse.", keyword("clear"))),
		Example: paragraph("versebook cache\nversebook cache --clear"),
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if len(settings.Datadirs) == 0 {
				fmt.Println("No datadirs configured.")
				return nil
			}

			for _, datadir := range settings.Datadirs {
				cacheDir := filepath.Join(datadir, ".cache")
				if cacheClear {
					if err := os.RemoveAll(cacheDir); err != nil {
						return fmt.Errorf("unable to clear cache: %w", err)
					}
					fmt.Printf("%s cleared\n", keyword(datadir))
					continue
				}

				size, count := cacheUsage(cacheDir)
				fmt.Printf("%s %s in %d cached songs\n", keyword(datadir), humanize.Bytes(size), count)
			}
			return nil
		},
	}
)

// cacheUsage sums the cache files below dir. An unreadable or missing cache
// counts as empty.
func cacheUsage(dir string) (uint64, int) {
	var size uint64
	var count int
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil //nolint:nilerr
		}
		if info, err := d.Info(); err == nil {
			size += uint64(info.Size())
			count++
		}
		return nil
	})
	return size, count
}

func init() {
	cacheCmd.Flags().BoolVar(&cacheClear, "clear", false, "remove every cached snapshot")
}
