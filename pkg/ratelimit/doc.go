// Package ratelimit paces calls to the timeline API.
//
// The harvester sleeps a fixed interval after every fetched page, empty
// pages included. Interval implements exactly that; it is not a token
// bucket and allows no bursts.
package ratelimit
