package logger

import (
	"strings"

	"github.com/rs/zerolog"
)

// ForwardFunc receives a log entry with its accumulated fields. level is
// upper case, as in "WARN".
type ForwardFunc func(level, msg string, fields map[string]interface{})

// forwardLogger writes everything to base and copies entries at or above
// min to sink
type forwardLogger struct {
	base   Logger
	min    zerolog.Level
	sink   ForwardFunc
	fields map[string]interface{}
}

// Forward wraps base so that entries at minLevel or above are also handed to
// sink. An unknown level forwards from info up.
func Forward(base Logger, minLevel string, sink ForwardFunc) Logger {
	level, _ := parseLogLevel(minLevel)
	return &forwardLogger{
		base:   base,
		min:    level,
		sink:   sink,
		fields: map[string]interface{}{},
	}
}

func (f *forwardLogger) Debug(msg string) {
	f.base.Debug(msg)
	f.forward(zerolog.DebugLevel, msg, nil)
}

func (f *forwardLogger) Info(msg string) {
	f.base.Info(msg)
	f.forward(zerolog.InfoLevel, msg, nil)
}

func (f *forwardLogger) Warn(msg string) {
	f.base.Warn(msg)
	f.forward(zerolog.WarnLevel, msg, nil)
}

func (f *forwardLogger) Error(msg string) {
	f.base.Error(msg)
	f.forward(zerolog.ErrorLevel, msg, nil)
}

func (f *forwardLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	f.base.DebugWithFields(msg, fields)
	f.forward(zerolog.DebugLevel, msg, fields)
}

func (f *forwardLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	f.base.InfoWithFields(msg, fields)
	f.forward(zerolog.InfoLevel, msg, fields)
}

func (f *forwardLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	f.base.WarnWithFields(msg, fields)
	f.forward(zerolog.WarnLevel, msg, fields)
}

func (f *forwardLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	f.base.ErrorWithFields(msg, fields)
	f.forward(zerolog.ErrorLevel, msg, fields)
}

func (f *forwardLogger) WithField(key string, value interface{}) Logger {
	return f.derive(f.base.WithField(key, value), map[string]interface{}{key: value})
}

func (f *forwardLogger) WithFields(fields map[string]interface{}) Logger {
	return f.derive(f.base.WithFields(fields), fields)
}

func (f *forwardLogger) WithError(err error) Logger {
	if err == nil {
		return f.derive(f.base.WithError(err), nil)
	}
	return f.derive(f.base.WithError(err), map[string]interface{}{"error": err.Error()})
}

func (f *forwardLogger) derive(base Logger, extra map[string]interface{}) Logger {
	fields := make(map[string]interface{}, len(f.fields)+len(extra))
	for k, v := range f.fields {
		fields[k] = v
	}
	for k, v := range extra {
		fields[k] = v
	}
	return &forwardLogger{base: base, min: f.min, sink: f.sink, fields: fields}
}

func (f *forwardLogger) forward(level zerolog.Level, msg string, fields map[string]interface{}) {
	if f.sink == nil || level < f.min {
		return
	}
	all := make(map[string]interface{}, len(f.fields)+len(fields))
	for k, v := range f.fields {
		all[k] = v
	}
	for k, v := range fields {
		all[k] = v
	}
	f.sink(strings.ToUpper(level.String()), msg, all)
}
