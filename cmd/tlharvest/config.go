package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"tlharvest/pkg/config"
	"tlharvest/pkg/ui"
	"tlharvest/pkg/userids"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage tlharvest configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TLHARVEST_*, also read from .env)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.tlharvest.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the configuration merged from the file, the environment and the
defaults. Credentials are masked.`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Validate the merged configuration.

This command checks:
  - YAML syntax
  - The date window
  - Value ranges
  - The users file and output directory`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# tlharvest configuration file
#
# Every value can also be set with an environment variable prefixed with
# TLHARVEST_, for example TLHARVEST_SINCE or TLHARVEST_CONSUMER_KEY.

# API credentials. Prefer 'tlharvest auth login' over putting them here.
twitter:
  consumer_key: ""
  consumer_secret: ""
  access_token: ""
  access_secret: ""
  base_url: "https://api.twitter.com"
  timeout: 30s

harvest:
  # Users to process, in order. users_file ids are appended.
  user_ids: []
  # CSV with a user_id column, or one id per line
  users_file: ""
  # Window of kept posts: since inclusive, until exclusive (UTC)
  since: "2017-09-01"
  until: "2017-09-22"
  # Keep only posts with coordinates or a place
  geo_only: false
  # Stop paging a user once its posts predate since
  stop_on_window: true

output:
  directory: "./data"
  prefix: "retrospective-"
  rows_per_file: 500000
  sequence_digits: 3
  # sequence or timestamp
  naming: "sequence"
  # zip each file once it is full
  compress: false

rate_limit:
  # Pause after every page
  interval: 1s
  # The first failed request waits half of this, every further one doubles
  initial_retry_delay: 5s
  # 0 means no cap
  max_retry_delay: 0s

logging:
  # debug, info, warn, error
  level: "info"
  # Optional JSON log file in addition to the console
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".tlharvest.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			ui.PrintError("Failed to create configuration directory", err.Error())
			os.Exit(1)
		}
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store your API keys with 'tlharvest auth login'")
	fmt.Println("2. Edit the window and users in the configuration file")
	fmt.Println("3. Run 'tlharvest config validate' to check the configuration")
	fmt.Println("4. Start harvesting with 'tlharvest harvest'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	// show works on incomplete configurations, so no validation here
	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		ui.PrintError("Failed to load environment variables", err.Error())
		os.Exit(1)
	}

	display := *cfg
	display.Twitter.ConsumerKey = mask(display.Twitter.ConsumerKey)
	display.Twitter.ConsumerSecret = mask(display.Twitter.ConsumerSecret)
	display.Twitter.AccessToken = mask(display.Twitter.AccessToken)
	display.Twitter.AccessSecret = mask(display.Twitter.AccessSecret)

	data, err := yaml.Marshal(&display)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	fmt.Println(ui.Cyan("Current Configuration"))
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (TLHARVEST_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (searched in default locations)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	var warnings, problems []string

	if !cfg.HasCredentials() {
		warnings = append(warnings, "API credentials not in configuration; a stored account will be used")
	}

	count := len(cfg.Harvest.UserIDs)
	if cfg.Harvest.UsersFile != "" {
		ids, err := userids.LoadFile(cfg.Harvest.UsersFile)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Cannot read users file: %v", err))
		}
		count += len(ids)
	}
	if count == 0 {
		warnings = append(warnings, "No user ids configured; pass --user or --users-file")
	}

	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		problems = append(problems, fmt.Sprintf("Cannot create output directory: %v", err))
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}

	if len(problems) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Users: %d\n", count)
	fmt.Printf("  Window: %s .. %s\n", cfg.Harvest.Since, cfg.Harvest.Until)
	fmt.Printf("  Geo only: %t\n", cfg.Harvest.GeoOnly)
	fmt.Printf("  Output: %s (%s%0*d.json, %d rows per file)\n",
		cfg.Output.Directory, cfg.Output.Prefix, cfg.Output.SequenceDigits, 0, cfg.Output.RowsPerFile)
	fmt.Printf("  Rate limit: %s per page\n", cfg.RateLimit.Interval)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}

func mask(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return "***"
	default:
		return s[:4] + "..." + s[len(s)-4:]
	}
}
