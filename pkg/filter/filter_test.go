package filter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "tlharvest/pkg/errors"
	"tlharvest/pkg/twitter"
)

func item(s string) twitter.Item {
	return twitter.Item{Raw: json.RawMessage(s)}
}

func TestExtract(t *testing.T) {
	post, err := Extract(item(`{"id":905000000000000001,"created_at":"Fri Sep 01 10:30:00 +0000 2017","text":"hi"}`))
	require.NoError(t, err)

	assert.Equal(t, int64(905000000000000001), post.ID)
	assert.Equal(t, time.Date(2017, 9, 1, 10, 30, 0, 0, time.UTC), post.CreatedAt)
	assert.False(t, post.Geotagged)
}

func TestExtractMalformed(t *testing.T) {
	tests := map[string]string{
		"missing id":         `{"created_at":"Fri Sep 01 10:30:00 +0000 2017"}`,
		"null id":            `{"id":null,"created_at":"Fri Sep 01 10:30:00 +0000 2017"}`,
		"fractional id":      `{"id":1.5,"created_at":"Fri Sep 01 10:30:00 +0000 2017"}`,
		"missing created_at": `{"id":1}`,
		"bad created_at":     `{"id":1,"created_at":"2017-09-01"}`,
		"status message":     `{"message":"Sorry, you are not authorized"}`,
		"not an object":      `42`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(item(raw))
			assert.ErrorIs(t, err, errs.ErrMalformedItem)
		})
	}
}

func TestExtractGeotagged(t *testing.T) {
	const ts = `"created_at":"Fri Sep 01 10:30:00 +0000 2017"`
	tests := []struct {
		name string
		geo  string
		want bool
	}{
		{"no geo fields", ``, false},
		{"both null", `,"coordinates":null,"place":null`, false},
		{"empty values", `,"coordinates":{},"place":""`, false},
		{"empty array", `,"coordinates":[ ]`, false},
		{"coordinates only", `,"coordinates":{"type":"Point","coordinates":[-73.9,40.7]},"place":null`, true},
		{"place only", `,"coordinates":null,"place":{"id":"01a9a39529b27f36"}`, true},
		{"both", `,"coordinates":{"type":"Point"},"place":{"id":"x"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := Extract(item(`{"id":1,` + ts + tt.geo + `}`))
			require.NoError(t, err)
			assert.Equal(t, tt.want, post.Geotagged)
		})
	}
}

func TestHasMessage(t *testing.T) {
	assert.True(t, HasMessage(item(`{"message":"rate limited"}`)))
	assert.True(t, HasMessage(item(`{"message":null}`)))
	assert.False(t, HasMessage(item(`{"id":1}`)))
	assert.False(t, HasMessage(item(`[1,2]`)))
	assert.False(t, HasMessage(item(``)))
}

func TestPolicyAccepts(t *testing.T) {
	from := time.Date(2017, 9, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2017, 9, 22, 0, 0, 0, 0, time.UTC)
	w := Window{Min: from, Max: until}

	assert.True(t, Policy{Window: w}.Accepts(Post{CreatedAt: from}), "min is inclusive")
	assert.False(t, Policy{Window: w}.Accepts(Post{CreatedAt: until}), "max is exclusive")
	assert.False(t, Policy{Window: w}.Accepts(Post{CreatedAt: from.Add(-time.Second)}))
	assert.True(t, Policy{Window: w}.Accepts(Post{CreatedAt: until.Add(-time.Second)}))

	inside := Post{CreatedAt: from.Add(time.Hour)}
	assert.False(t, Policy{Window: w, GeoOnly: true}.Accepts(inside))
	inside.Geotagged = true
	assert.True(t, Policy{Window: w, GeoOnly: true}.Accepts(inside))
}

func TestPolicyAcceptsProperty(t *testing.T) {
	base := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("accepted iff min <= ts < max and geo rule holds", prop.ForAll(
		func(minOff, span, tsOff int64, geoOnly, geotagged bool) bool {
			w := Window{
				Min: base.Add(time.Duration(minOff) * time.Second),
				Max: base.Add(time.Duration(minOff+span) * time.Second),
			}
			post := Post{CreatedAt: base.Add(time.Duration(tsOff) * time.Second), Geotagged: geotagged}

			inWindow := tsOff >= minOff && tsOff < minOff+span
			want := inWindow && (!geoOnly || geotagged)
			return Policy{Window: w, GeoOnly: geoOnly}.Accepts(post) == want
		},
		gen.Int64Range(0, 1000),
		gen.Int64Range(0, 1000),
		gen.Int64Range(-100, 2100),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
