// Package logger provides structured logging for the timeline harvester.
//
// It wraps zerolog behind a small Logger interface so the pager, the writer
// and the run controller can log with fields without depending on zerolog
// directly. Tests use TestLogger to capture and assert on log output.
//
// Basic Usage:
//
//	err := logger.Initialize(&config.LoggingConfig{Level: "info"})
//
//	log := logger.GetLogger().WithField("user_id", int64(25073877))
//	log.Info("Starting user")
//	log.WithError(err).Warn("Request failed")
//
// Console output is colorized; when LoggingConfig.File is set every entry is
// also appended to that file as a JSON line.
package logger
