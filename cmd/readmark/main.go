package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "readmark",
		Short: "Track your reading from the terminal",
		Long: `readmark is a client for the reading-tracker API.

Upload PDF and EPUB books, read them page by page, keep a personal
dictionary of words you look up, and track reading sessions and stats.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default: user config dir)")

	rootCmd.AddCommand(
		loginCmd(),
		registerCmd(),
		logoutCmd(),
		whoamiCmd(),
		authStatusCmd(),
		booksCmd(),
		dictCmd(),
		readingCmd(),
		healthCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
