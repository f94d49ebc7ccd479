// Package harvester drives the timeline harvest.
//
// A Processor pages through one user's timeline, newest first, moving the
// cursor to the id of the oldest post seen and writing the posts the
// filter.Policy accepts. It stops when the API returns an empty page (after
// writing a reached_limit record), when the oldest post is older than the
// window, or when a page makes no progress.
//
// A Controller runs the processor over every user in order. Request
// failures double a run-wide backoff and the controller waits before moving
// to the next user. Cancelling the context closes the output and returns
// errors.ErrInterrupted.
package harvester
