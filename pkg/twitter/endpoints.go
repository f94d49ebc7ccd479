package twitter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// BaseURL is the public REST API host
	BaseURL = "https://api.twitter.com"

	// TimelineEndpoint is the user timeline resource
	TimelineEndpoint = "/1.1/statuses/user_timeline.json"

	// PageSize is the number of posts requested per page, the API maximum
	PageSize = 200

	// CreatedAtLayout is the timestamp layout of the created_at field
	CreatedAtLayout = "Mon Jan 02 15:04:05 -0700 2006"
)

// TimelineURL builds the URL for one page of a user's timeline.
// A zero cursor requests the newest page; otherwise the page starts strictly
// below the cursor (max_id = cursor - 1).
func TimelineURL(base string, userID int64, cursor int64) string {
	params := url.Values{}
	params.Set("user_id", strconv.FormatInt(userID, 10))
	params.Set("count", strconv.Itoa(PageSize))
	params.Set("include_rts", "false")
	if cursor > 0 {
		params.Set("max_id", strconv.FormatInt(cursor-1, 10))
	}

	return fmt.Sprintf("%s%s?%s", strings.TrimRight(base, "/"), TimelineEndpoint, params.Encode())
}
