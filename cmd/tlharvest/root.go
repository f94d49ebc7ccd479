package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"tlharvest/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
)

// rootCmd runs a harvest when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "tlharvest",
	Short: "Harvest user timelines from the Twitter v1.1 API into JSON-lines files",
	Long: `tlharvest walks the timelines of a list of users, newest to oldest, and
keeps the posts that fall inside a date window (optionally only geotagged
ones). Kept posts are written verbatim, one JSON object per line, into
size-limited output files that can be zipped as they fill up.

Features:
  - OAuth 1.0a signed requests
  - Fixed pacing between pages and doubling backoff on request failures
  - Output rotation by record count with optional zip compression
  - Credentials from the system keychain, an encrypted file or the environment`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet || logLevel == "error" {
			ui.SetQuiet(true)
		}

		if cmd.Name() != "version" && cmd.Name() != "help" {
			ui.PrintBanner()
		}
	},
	Args: cobra.NoArgs,
	Run:  runHarvest,
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tlharvest %s\n", rootCmd.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "Go Version: %s\n", runtime.Version())
		fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.tlharvest.yaml or ~/.config/tlharvest/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.AddCommand(versionCmd)

	rootCmd.SetVersionTemplate(`tlharvest {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
