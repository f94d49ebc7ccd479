package harvester

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlharvest/pkg/config"
	"tlharvest/pkg/logger"
	"tlharvest/pkg/twitter"
)

// timelineServer serves fixed timelines three posts at a time
func timelineServer(t *testing.T, timelines map[int64][]twitter.Item, failing map[int64]int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "OAuth "))
		q := r.URL.Query()
		uid, _ := strconv.ParseInt(q.Get("user_id"), 10, 64)

		if status, ok := failing[uid]; ok {
			w.WriteHeader(status)
			w.Write([]byte(`{"errors":[{"code":88,"message":"Rate limit exceeded"}]}`))
			return
		}

		maxID := int64(1<<63 - 1)
		if v := q.Get("max_id"); v != "" {
			maxID, _ = strconv.ParseInt(v, 10, 64)
		}

		page := []json.RawMessage{}
		for _, item := range timelines[uid] {
			var f struct{ ID int64 }
			assert.NoError(t, json.Unmarshal(item.Raw, &f))
			if f.ID <= maxID && len(page) < 3 {
				page = append(page, item.Raw)
			}
		}
		json.NewEncoder(w).Encode(page)
	}))
	t.Cleanup(server.Close)
	return server
}

func readOutput(t *testing.T, files []string) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, path := range files {
		f, err := os.Open(path)
		require.NoError(t, err)
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			var rec map[string]interface{}
			require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
			out = append(out, rec)
		}
		f.Close()
	}
	return out
}

func TestHarvestEndToEnd(t *testing.T) {
	var user100 []twitter.Item
	for id := int64(10); id >= 1; id-- {
		user100 = append(user100, post(id, days(int(11-id))))
	}
	user300 := []twitter.Item{post(52, days(4)), post(51, days(5))}

	server := timelineServer(t,
		map[int64][]twitter.Item{100: user100, 300: user300},
		map[int64]int{200: http.StatusTooManyRequests},
	)

	dir := t.TempDir()
	rc := config.RunConfig{
		UserIDs:           []int64{100, 200, 300},
		Since:             days(8),
		Until:             days(3),
		StopOnWindow:      true,
		Directory:         dir,
		Prefix:            "retrospective-",
		RowsPerFile:       4,
		SequenceDigits:    3,
		Naming:            config.NamingSequence,
		InitialRetryDelay: 2 * time.Millisecond,
	}

	log := logger.NewTestLogger()
	httpClient := twitter.NewHTTPClient(twitter.Credentials{
		ConsumerKey: "ck", ConsumerSecret: "cs", AccessToken: "at", AccessSecret: "as",
	}, 5*time.Second)
	client := twitter.NewClient(httpClient, server.URL, log)

	c, err := NewFromRunConfig(rc, client, log)
	require.NoError(t, err)

	report, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{200}, report.Failed)
	require.Len(t, report.Users, 3)
	assert.Equal(t, StopPassedWindow, report.Users[0].Stop)
	assert.Equal(t, 3, report.Users[0].Pages)
	assert.Equal(t, StopExhausted, report.Users[2].Stop)
	assert.Equal(t, 7, report.Written)
	assert.Zero(t, report.Dropped)
	assert.Equal(t, 5, report.PageWaits, "one pacer wait per fetched page; the failed user fetched none")
	assert.Equal(t, time.Duration(0), report.Paced)
	assert.True(t, log.HasMessage("INFO", "Harvest finished"))

	assert.Equal(t, []string{
		filepath.Join(dir, "retrospective-001.json"),
		filepath.Join(dir, "retrospective-002.json"),
	}, report.Files)

	records := readOutput(t, report.Files)
	require.Len(t, records, 8)

	var ids []float64
	for _, rec := range records[:7] {
		ids = append(ids, rec["id"].(float64))
	}
	assert.Equal(t, []float64{7, 6, 5, 4, 3, 52, 51}, ids)

	assert.Equal(t, "reached_limit", records[7]["custom_status"])
	assert.Equal(t, float64(300), records[7]["user_id"])
	assert.Equal(t, days(5).Format("2006-01-02"), records[7]["limit_date"])

	assert.True(t, log.HasMessage("WARN", "backing off"))
}
