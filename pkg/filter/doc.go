// Package filter extracts the fields the harvester needs from raw timeline
// items and decides which posts are written. It has no side effects.
package filter
