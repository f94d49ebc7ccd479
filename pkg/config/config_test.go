package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Harvest.Since = "2017-09-01"
	cfg.Harvest.Until = "2017-09-22"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 500000, cfg.Output.RowsPerFile)
	assert.Equal(t, 3, cfg.Output.SequenceDigits)
	assert.Equal(t, NamingSequence, cfg.Output.Naming)
	assert.False(t, cfg.Output.Compress)
	assert.Equal(t, time.Second, cfg.RateLimit.Interval)
	assert.Equal(t, 5*time.Second, cfg.RateLimit.InitialRetryDelay)
	assert.True(t, cfg.Harvest.StopOnWindow)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TLHARVEST_CONSUMER_KEY", "ck")
	t.Setenv("TLHARVEST_CONSUMER_SECRET", "cs")
	t.Setenv("TLHARVEST_ACCESS_TOKEN", "at")
	t.Setenv("TLHARVEST_ACCESS_SECRET", "as")
	t.Setenv("TLHARVEST_SINCE", "2017-08-01")
	t.Setenv("TLHARVEST_UNTIL", "2017-09-01")
	t.Setenv("TLHARVEST_ROWS_PER_FILE", "1000")
	t.Setenv("TLHARVEST_COMPRESS", "true")
	t.Setenv("TLHARVEST_RATE_LIMIT", "250ms")
	t.Setenv("TLHARVEST_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.True(t, cfg.HasCredentials())
	assert.Equal(t, "2017-08-01", cfg.Harvest.Since)
	assert.Equal(t, "2017-09-01", cfg.Harvest.Until)
	assert.Equal(t, 1000, cfg.Output.RowsPerFile)
	assert.True(t, cfg.Output.Compress)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimit.Interval)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("TLHARVEST_ROWS_PER_FILE", "lots")

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
harvest:
  user_ids: [25073877, 15446531]
  since: "2017-07-02"
  until: "2017-07-03"
  geo_only: true
output:
  directory: /tmp/harvest
  prefix: world-
  rows_per_file: 10
  compress: true
rate_limit:
  interval: 2s
  initial_retry_delay: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, []int64{25073877, 15446531}, cfg.Harvest.UserIDs)
	assert.True(t, cfg.Harvest.GeoOnly)
	assert.Equal(t, "world-", cfg.Output.Prefix)
	assert.Equal(t, 10, cfg.Output.RowsPerFile)
	assert.True(t, cfg.Output.Compress)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.Interval)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.InitialRetryDelay)
	// untouched keys keep their defaults
	assert.Equal(t, 3, cfg.Output.SequenceDigits)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing window", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid since")
		assert.Contains(t, err.Error(), "invalid until")
	})

	t.Run("inverted window", func(t *testing.T) {
		cfg := validConfig()
		cfg.Harvest.Since, cfg.Harvest.Until = cfg.Harvest.Until, cfg.Harvest.Since
		assert.ErrorContains(t, cfg.Validate(), "since must be before until")
	})

	t.Run("bad output", func(t *testing.T) {
		cfg := validConfig()
		cfg.Output.RowsPerFile = 0
		cfg.Output.SequenceDigits = 0
		cfg.Output.Naming = "random"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rows per file")
		assert.Contains(t, err.Error(), "sequence digits")
		assert.Contains(t, err.Error(), "invalid naming")
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Level = "chatty"
		assert.ErrorContains(t, cfg.Validate(), "invalid log level")
	})
}

func TestRunConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Harvest.GeoOnly = true
	cfg.Output.Compress = true

	ids := []int64{3, 1, 2}
	rc, err := cfg.RunConfig(ids)
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 1, 2}, rc.UserIDs)
	assert.Equal(t, time.Date(2017, 9, 1, 0, 0, 0, 0, time.UTC), rc.Since)
	assert.Equal(t, time.Date(2017, 9, 22, 0, 0, 0, 0, time.UTC), rc.Until)
	assert.True(t, rc.GeoOnly)
	assert.True(t, rc.Compress)
	assert.Equal(t, 500000, rc.RowsPerFile)

	// the run value does not alias the caller's slice
	ids[0] = 99
	assert.Equal(t, int64(3), rc.UserIDs[0])

	_, err = cfg.RunConfig(nil)
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	d, err := ParseTime("2017-07-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2017, 7, 2, 0, 0, 0, 0, time.UTC), d)

	ts, err := ParseTime("2017-07-02T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2017, 7, 2, 8, 0, 0, 0, time.UTC), ts)

	_, err = ParseTime("Jul 2 2017")
	assert.Error(t, err)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"since":          "2017-01-01",
		"until":          "2017-02-01",
		"user-ids":       []int64{7},
		"stop-on-window": false,
		"rows-per-file":  3,
		"naming":         NamingTimestamp,
		"rate-limit":     0 * time.Second,
	})

	assert.Equal(t, "2017-01-01", cfg.Harvest.Since)
	assert.Equal(t, []int64{7}, cfg.Harvest.UserIDs)
	assert.False(t, cfg.Harvest.StopOnWindow)
	assert.Equal(t, 3, cfg.Output.RowsPerFile)
	assert.Equal(t, NamingTimestamp, cfg.Output.Naming)
	assert.Equal(t, time.Duration(0), cfg.RateLimit.Interval)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := validConfig()
	cfg.Output.Prefix = "user-sample-"

	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "user-sample-", loaded.Output.Prefix)
	assert.Equal(t, "2017-09-01", loaded.Harvest.Since)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("harvest:\n  since: \"2017-01-01\"\n  until: \"2017-06-01\"\n"), 0644))
	t.Setenv("HOME", dir)
	t.Setenv("TLHARVEST_PREFIX", "env-")

	cfg, err := Load(path, map[string]interface{}{"until": "2017-03-01"})
	require.NoError(t, err)

	assert.Equal(t, "2017-01-01", cfg.Harvest.Since)
	assert.Equal(t, "2017-03-01", cfg.Harvest.Until)
	assert.Equal(t, "env-", cfg.Output.Prefix)
}
