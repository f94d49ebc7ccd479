package logger

import (
	"time"
)

// LogPage logs one fetched timeline page
func LogPage(log Logger, userID int64, cursor int64, items int) {
	log.DebugWithFields("Timeline page fetched", map[string]interface{}{
		"user_id": userID,
		"cursor":  cursor,
		"items":   items,
	})
}

// LogUserDone logs the end of one user's pagination
func LogUserDone(log Logger, userID int64, pages, written int, reason string) {
	log.InfoWithFields("User processed", map[string]interface{}{
		"user_id": userID,
		"pages":   pages,
		"written": written,
		"reason":  reason,
	})
}

// LogBackoff logs a request failure and the delay the controller is about to wait
func LogBackoff(log Logger, userID int64, delay time.Duration, err error) {
	log.WithError(err).WarnWithFields("Request failed, backing off", map[string]interface{}{
		"user_id": userID,
		"delay":   delay,
	})
}

// LogRotation logs a finished output file
func LogRotation(log Logger, path string, rows int, compressed bool) {
	log.InfoWithFields("Output file finished", map[string]interface{}{
		"path":       path,
		"rows":       rows,
		"compressed": compressed,
	})
}

// nopLogger is a logger that does nothing
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                        {}
func (n *nopLogger) Info(msg string)                                         {}
func (n *nopLogger) Warn(msg string)                                         {}
func (n *nopLogger) Error(msg string)                                        {}
func (n *nopLogger) WithField(key string, value interface{}) Logger          { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger         { return n }
func (n *nopLogger) WithError(err error) Logger                              { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() Logger {
	return &nopLogger{}
}
