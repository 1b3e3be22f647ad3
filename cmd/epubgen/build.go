package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/simp-lee/epubgen"
)

var outputPath string

var buildCmd = &cobra.Command{
	Use:   "build <manifest>",
	Short: "Build an ePub from a YAML book manifest",
	Long: `Build reads a YAML manifest describing the book and its chapters and
produces the final .epub archive.

Example manifest:

  title: My Book
  creator: Jane Doe
  cover_image: true
  chapters:
    - file: chapters/one.html
    - url: https://example.com/two.html
    - title: Afterword
      text: |
        Written by hand.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		m, err := epubgen.LoadManifest(args[0])
		if err != nil {
			return err
		}
		if m.Creator == "" {
			m.Creator = viper.GetString("creator")
		}

		dest := outputPath
		if dest == "" {
			dest = viper.GetString("output")
		}

		path, err := m.Build(dest, logger)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&outputPath, "output", "o", "", "destination path for the archive")
}
