package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/versebook/versebook/internal/song"
)

var (
	renderTo      string
	renderOutput  string
	renderColumns int

	renderCmd = &cobra.Command{
		Use:     "render SONG",
		Short:   "Render a song to an output format",
		Long:    paragraph(fmt.Sprintf("\n%s a song file to an output format supported by its file format, such as latex or chordpro.", keyword("Render"))),
		Example: paragraph("versebook render --to latex song.cho\nversebook render --to chordpro -o out.cho song.cho"),
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			s, err := openSong(args[0], settings)
			if err != nil {
				return err
			}

			w := os.Stdout
			if renderOutput != "" {
				f, err := os.Create(renderOutput)
				if err != nil {
					return fmt.Errorf("unable to create output file: %w", err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			return s.Render(renderTo, w, song.RenderOptions{Columns: renderColumns})
		},
	}
)

func init() {
	renderCmd.Flags().StringVar(&renderTo, "to", "chordpro", "output format (chordpro, latex)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default stdout)")
	renderCmd.Flags().IntVar(&renderColumns, "columns", 0, "column count, where the output format has one")
}
