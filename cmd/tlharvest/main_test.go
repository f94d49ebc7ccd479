package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlharvest/pkg/config"
)

func TestHarvestFlagsOnlyChanged(t *testing.T) {
	cmd := &cobra.Command{Use: "harvest"}
	addHarvestFlags(cmd)
	logLevel = ""

	require.NoError(t, cmd.ParseFlags([]string{
		"--user", "12", "--user", "7",
		"--since", "2017-01-01",
		"--no-window-stop",
		"--rate-limit", "0s",
	}))

	flags := harvestFlags(cmd)
	assert.Equal(t, []int64{12, 7}, flags["user-ids"])
	assert.Equal(t, "2017-01-01", flags["since"])
	assert.Equal(t, false, flags["stop-on-window"])
	assert.Equal(t, time.Duration(0), flags["rate-limit"])

	for _, key := range []string{"until", "geo-only", "compress", "rows-per-file", "output", "log-level"} {
		assert.NotContains(t, flags, key)
	}

	cfg := config.DefaultConfig()
	cfg.MergeCommandLineFlags(flags)
	assert.False(t, cfg.Harvest.StopOnWindow)
	assert.Equal(t, time.Duration(0), cfg.RateLimit.Interval)
}

func TestResolveUserIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(path, []byte("user_id,name\n30,a\n10,b\n"), 0644))

	cfg := config.DefaultConfig()
	cfg.Harvest.UserIDs = []int64{5}
	cfg.Harvest.UsersFile = path

	ids, err := resolveUserIDs(cfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 30, 10}, ids)

	_, err = resolveUserIDs(config.DefaultConfig())
	assert.Error(t, err)
}

func TestResolveCredentialsFromConfig(t *testing.T) {
	account = ""
	cfg := config.DefaultConfig()
	cfg.Twitter.ConsumerKey = "ck"
	cfg.Twitter.ConsumerSecret = "cs"
	cfg.Twitter.AccessToken = "at"
	cfg.Twitter.AccessSecret = "as"

	creds, source, err := resolveCredentials(cfg)
	require.NoError(t, err)
	assert.True(t, creds.Valid())
	assert.Equal(t, "ck", creds.ConsumerKey)
	assert.Equal(t, "configuration", source)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "***", mask("short"))
	assert.Equal(t, "abcd...wxyz", mask("abcdefghijklmnopqrstuvwxyz"))
}
