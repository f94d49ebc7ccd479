// Package tui is a live dashboard for a harvest run built on bubbletea.
//
// The run itself executes in a separate goroutine and reports through
// UserDone and Finish; pressing q cancels it through the supplied function.
package tui
