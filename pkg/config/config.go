package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// NamingSequence names output files <prefix><NNN>.json
	NamingSequence = "sequence"
	// NamingTimestamp names output files <prefix><YYYYMMDD-HHMMSS>.json
	NamingTimestamp = "timestamp"
)

// Config holds all configuration options for a harvest run
type Config struct {
	// API credentials and transport
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Which users and which slice of their history
	Harvest HarvestConfig `yaml:"harvest" json:"harvest"`

	// Output file settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Request pacing and failure backoff
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds the four OAuth 1.0a secrets and HTTP settings
type TwitterConfig struct {
	ConsumerKey    string        `yaml:"consumer_key" json:"consumer_key"`
	ConsumerSecret string        `yaml:"consumer_secret" json:"consumer_secret"`
	AccessToken    string        `yaml:"access_token" json:"access_token"`
	AccessSecret   string        `yaml:"access_secret" json:"access_secret"`
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"`
}

// HarvestConfig selects users and the timestamp window
type HarvestConfig struct {
	UserIDs   []int64 `yaml:"user_ids" json:"user_ids"`
	UsersFile string  `yaml:"users_file" json:"users_file"`
	// Since is the inclusive window start, Until the exclusive end.
	// Both accept YYYY-MM-DD or RFC 3339 and are interpreted as UTC.
	Since        string `yaml:"since" json:"since"`
	Until        string `yaml:"until" json:"until"`
	GeoOnly      bool   `yaml:"geo_only" json:"geo_only"`
	StopOnWindow bool   `yaml:"stop_on_window" json:"stop_on_window"`
}

// OutputConfig holds output file configuration
type OutputConfig struct {
	Directory      string `yaml:"directory" json:"directory"`
	Prefix         string `yaml:"prefix" json:"prefix"`
	RowsPerFile    int    `yaml:"rows_per_file" json:"rows_per_file"`
	SequenceDigits int    `yaml:"sequence_digits" json:"sequence_digits"`
	Naming         string `yaml:"naming" json:"naming"`
	Compress       bool   `yaml:"compress" json:"compress"`
}

// RateLimitConfig holds pacing and backoff configuration
type RateLimitConfig struct {
	Interval          time.Duration `yaml:"interval" json:"interval"`
	InitialRetryDelay time.Duration `yaml:"initial_retry_delay" json:"initial_retry_delay"`
	MaxRetryDelay     time.Duration `yaml:"max_retry_delay" json:"max_retry_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
	// DisableConsole keeps log lines off stderr, e.g. while a dashboard
	// owns the terminal. Only the file, if any, receives them.
	DisableConsole bool `yaml:"-" json:"-"`
}

// RunConfig is the immutable set of parameters one harvest run is built from.
// It is derived from Config once at startup and passed by value.
type RunConfig struct {
	UserIDs           []int64
	Since             time.Time
	Until             time.Time
	GeoOnly           bool
	StopOnWindow      bool
	Directory         string
	Prefix            string
	RowsPerFile       int
	SequenceDigits    int
	Naming            string
	Compress          bool
	RateLimit         time.Duration
	InitialRetryDelay time.Duration
	MaxRetryDelay     time.Duration
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{
			BaseURL: "https://api.twitter.com",
			Timeout: 30 * time.Second,
		},
		Harvest: HarvestConfig{
			StopOnWindow: true,
		},
		Output: OutputConfig{
			Directory:      "./data",
			Prefix:         "retrospective-",
			RowsPerFile:    500000,
			SequenceDigits: 3,
			Naming:         NamingSequence,
			Compress:       false,
		},
		RateLimit: RateLimitConfig{
			Interval:          time.Second,
			InitialRetryDelay: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// Credentials
	if v := os.Getenv("TLHARVEST_CONSUMER_KEY"); v != "" {
		c.Twitter.ConsumerKey = v
	}
	if v := os.Getenv("TLHARVEST_CONSUMER_SECRET"); v != "" {
		c.Twitter.ConsumerSecret = v
	}
	if v := os.Getenv("TLHARVEST_ACCESS_TOKEN"); v != "" {
		c.Twitter.AccessToken = v
	}
	if v := os.Getenv("TLHARVEST_ACCESS_SECRET"); v != "" {
		c.Twitter.AccessSecret = v
	}
	if v := os.Getenv("TLHARVEST_BASE_URL"); v != "" {
		c.Twitter.BaseURL = v
	}

	// Window
	if v := os.Getenv("TLHARVEST_SINCE"); v != "" {
		c.Harvest.Since = v
	}
	if v := os.Getenv("TLHARVEST_UNTIL"); v != "" {
		c.Harvest.Until = v
	}
	if v := os.Getenv("TLHARVEST_USERS_FILE"); v != "" {
		c.Harvest.UsersFile = v
	}
	if v := os.Getenv("TLHARVEST_GEO_ONLY"); v != "" {
		c.Harvest.GeoOnly = strings.ToLower(v) == "true"
	}

	// Output
	if v := os.Getenv("TLHARVEST_OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv("TLHARVEST_PREFIX"); v != "" {
		c.Output.Prefix = v
	}
	if v := os.Getenv("TLHARVEST_ROWS_PER_FILE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TLHARVEST_ROWS_PER_FILE: %w", err)
		}
		c.Output.RowsPerFile = n
	}
	if v := os.Getenv("TLHARVEST_COMPRESS"); v != "" {
		c.Output.Compress = strings.ToLower(v) == "true"
	}

	// Pacing
	if v := os.Getenv("TLHARVEST_RATE_LIMIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TLHARVEST_RATE_LIMIT: %w", err)
		}
		c.RateLimit.Interval = d
	}

	// Logging level
	if v := os.Getenv("TLHARVEST_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".tlharvest.yaml",
		".tlharvest.yml",
		filepath.Join(home, ".config", "tlharvest", "config.yaml"),
		filepath.Join(home, ".config", "tlharvest", "config.yml"),
		filepath.Join(home, ".tlharvest.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Twitter.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	}
	if c.Twitter.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	since, sinceErr := ParseTime(c.Harvest.Since)
	if sinceErr != nil {
		errs = append(errs, fmt.Errorf("invalid since: %w", sinceErr))
	}
	until, untilErr := ParseTime(c.Harvest.Until)
	if untilErr != nil {
		errs = append(errs, fmt.Errorf("invalid until: %w", untilErr))
	}
	if sinceErr == nil && untilErr == nil && !since.Before(until) {
		errs = append(errs, errors.New("since must be before until"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.RowsPerFile <= 0 {
		errs = append(errs, errors.New("rows per file must be positive"))
	}
	if c.Output.SequenceDigits <= 0 || c.Output.SequenceDigits > 9 {
		errs = append(errs, errors.New("sequence digits must be between 1 and 9"))
	}
	if c.Output.Naming != NamingSequence && c.Output.Naming != NamingTimestamp {
		errs = append(errs, fmt.Errorf("invalid naming %q (want %s or %s)", c.Output.Naming, NamingSequence, NamingTimestamp))
	}

	if c.RateLimit.Interval < 0 {
		errs = append(errs, errors.New("rate limit interval cannot be negative"))
	}
	if c.RateLimit.InitialRetryDelay <= 0 {
		errs = append(errs, errors.New("initial retry delay must be positive"))
	}
	if c.RateLimit.MaxRetryDelay < 0 {
		errs = append(errs, errors.New("max retry delay cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// HasCredentials reports whether all four secrets are set
func (c *Config) HasCredentials() bool {
	t := c.Twitter
	return t.ConsumerKey != "" && t.ConsumerSecret != "" && t.AccessToken != "" && t.AccessSecret != ""
}

// RunConfig freezes the configuration into the value a run is built from.
// userIDs is the resolved, ordered id list (config ids plus any file).
func (c *Config) RunConfig(userIDs []int64) (RunConfig, error) {
	if len(userIDs) == 0 {
		return RunConfig{}, errors.New("at least one user id is required")
	}
	since, err := ParseTime(c.Harvest.Since)
	if err != nil {
		return RunConfig{}, fmt.Errorf("invalid since: %w", err)
	}
	until, err := ParseTime(c.Harvest.Until)
	if err != nil {
		return RunConfig{}, fmt.Errorf("invalid until: %w", err)
	}

	ids := make([]int64, len(userIDs))
	copy(ids, userIDs)

	return RunConfig{
		UserIDs:           ids,
		Since:             since,
		Until:             until,
		GeoOnly:           c.Harvest.GeoOnly,
		StopOnWindow:      c.Harvest.StopOnWindow,
		Directory:         c.Output.Directory,
		Prefix:            c.Output.Prefix,
		RowsPerFile:       c.Output.RowsPerFile,
		SequenceDigits:    c.Output.SequenceDigits,
		Naming:            c.Output.Naming,
		Compress:          c.Output.Compress,
		RateLimit:         c.RateLimit.Interval,
		InitialRetryDelay: c.RateLimit.InitialRetryDelay,
		MaxRetryDelay:     c.RateLimit.MaxRetryDelay,
	}, nil
}

// ParseTime accepts YYYY-MM-DD or RFC 3339 and returns a UTC time
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("value is required")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither YYYY-MM-DD nor RFC 3339", s)
	}
	return t.UTC(), nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map override; the CLI adds a key only when the
// user set the flag.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["since"].(string); ok && v != "" {
		c.Harvest.Since = v
	}
	if v, ok := flags["until"].(string); ok && v != "" {
		c.Harvest.Until = v
	}
	if v, ok := flags["user-ids"].([]int64); ok && len(v) > 0 {
		c.Harvest.UserIDs = v
	}
	if v, ok := flags["users-file"].(string); ok && v != "" {
		c.Harvest.UsersFile = v
	}
	if v, ok := flags["geo-only"].(bool); ok {
		c.Harvest.GeoOnly = v
	}
	if v, ok := flags["stop-on-window"].(bool); ok {
		c.Harvest.StopOnWindow = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.Directory = v
	}
	if v, ok := flags["prefix"].(string); ok && v != "" {
		c.Output.Prefix = v
	}
	if v, ok := flags["rows-per-file"].(int); ok && v > 0 {
		c.Output.RowsPerFile = v
	}
	if v, ok := flags["digits"].(int); ok && v > 0 {
		c.Output.SequenceDigits = v
	}
	if v, ok := flags["naming"].(string); ok && v != "" {
		c.Output.Naming = v
	}
	if v, ok := flags["compress"].(bool); ok {
		c.Output.Compress = v
	}
	if v, ok := flags["rate-limit"].(time.Duration); ok {
		c.RateLimit.Interval = v
	}
	if v, ok := flags["retry-delay"].(time.Duration); ok && v > 0 {
		c.RateLimit.InitialRetryDelay = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tlharvest.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
