package twitter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineURL(t *testing.T) {
	tests := []struct {
		name      string
		cursor    int64
		wantMaxID string
	}{
		{"first page has no max_id", 0, ""},
		{"cursor is excluded", 905000000000000000, "904999999999999999"},
		{"smallest cursor", 1, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := TimelineURL("https://api.example.test/", 25073877, tt.cursor)
			u, err := url.Parse(raw)
			require.NoError(t, err)

			assert.Equal(t, "api.example.test", u.Host)
			assert.Equal(t, TimelineEndpoint, u.Path)

			q := u.Query()
			assert.Equal(t, "25073877", q.Get("user_id"))
			assert.Equal(t, "200", q.Get("count"))
			assert.Equal(t, "false", q.Get("include_rts"))
			assert.Equal(t, tt.wantMaxID, q.Get("max_id"))
			_, has := q["max_id"]
			assert.Equal(t, tt.wantMaxID != "", has)
		})
	}
}
