package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	errs "tlharvest/pkg/errors"
	"tlharvest/pkg/models"
	"tlharvest/pkg/twitter"
)

// Post is what the harvester needs to know about a timeline item
type Post struct {
	ID        int64
	CreatedAt time.Time
	Geotagged bool
}

// Window is a half-open time range [Min, Max)
type Window struct {
	Min time.Time
	Max time.Time
}

// Contains reports whether ts falls inside the window
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Min) && ts.Before(w.Max)
}

// Policy decides which posts are written
type Policy struct {
	Window  Window
	GeoOnly bool
}

// Accepts reports whether post is inside the window and, when GeoOnly is
// set, carries either coordinates or a place
func (p Policy) Accepts(post Post) bool {
	if !p.Window.Contains(post.CreatedAt) {
		return false
	}
	return !p.GeoOnly || post.Geotagged
}

// Extract decodes the id, timestamp and geo fields of item. Items without a
// numeric id or a parsable created_at yield errors.ErrMalformedItem.
func Extract(item twitter.Item) (Post, error) {
	var fields models.StatusFields
	if err := json.Unmarshal(item.Raw, &fields); err != nil {
		return Post{}, fmt.Errorf("%w: %v", errs.ErrMalformedItem, err)
	}
	if fields.ID == nil || fields.CreatedAt == "" {
		return Post{}, errs.ErrMalformedItem
	}

	id, err := fields.ID.Int64()
	if err != nil {
		return Post{}, fmt.Errorf("%w: id %q", errs.ErrMalformedItem, fields.ID.String())
	}

	ts, err := time.Parse(twitter.CreatedAtLayout, fields.CreatedAt)
	if err != nil {
		return Post{}, fmt.Errorf("%w: created_at %q", errs.ErrMalformedItem, fields.CreatedAt)
	}

	return Post{
		ID:        id,
		CreatedAt: ts.UTC(),
		Geotagged: !isEmpty(fields.Coordinates) || !isEmpty(fields.Place),
	}, nil
}

// HasMessage reports whether item is an API status message rather than a post
func HasMessage(item twitter.Item) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item.Raw, &obj); err != nil {
		return false
	}
	_, ok := obj["message"]
	return ok
}

// isEmpty treats absent, null, {}, [] and "" as no value
func isEmpty(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return true
	}
	switch buf.String() {
	case "null", "{}", "[]", `""`:
		return true
	}
	return false
}
