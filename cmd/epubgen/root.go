package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "epubgen",
	Short: "Assemble ePub books from chapter sources",
	Long: `epubgen assembles ePub books from a YAML manifest describing the
book metadata and an ordered list of chapter sources (local files,
URLs, or inline text).

The build is staged: a working directory is scaffolded, chapters are
converted and rendered into it, the navigation and package manifest
documents are generated, and the tree is packaged into the final
archive with the mimetype entry stored first and uncompressed.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./epubgen.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initConfig()
	}

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig wires viper: defaults, optional config file, and EPUBGEN_*
// environment variables.
func initConfig() error {
	viper.SetDefault("creator", "")
	viper.SetDefault("output", "")

	viper.SetEnvPrefix("EPUBGEN")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("epubgen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

// newLogger builds the CLI logger honoring the verbose flag.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
