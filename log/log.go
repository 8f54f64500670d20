// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log is a small leveled-logging facade so the image decoders can
// report recoverable problems - a directory that failed to decode, a
// cursor that hit a malformed entry - without forcing a dependency on any
// particular logging library on callers who don't want one.
package log

import (
	"fmt"
	"log"
	"os"
)

// Level is a logging severity.
type Level int

// Severity levels, lowest to highest.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "?"
	}
}

// Logger is the minimal interface every decoder logs through.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes through the standard library's log package.
type stdLogger struct {
	*log.Logger
}

// NewStdLogger returns a Logger that writes to os.Stderr.
func NewStdLogger() Logger {
	return &stdLogger{Logger: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	l.Logger.Println(append([]interface{}{level.String()}, keyvals...)...)
	return nil
}

// filter wraps a Logger and drops records below a minimum level.
type filter struct {
	next Logger
	min  Level
}

// NewFilter returns a Logger that only forwards records at or above min.
func NewFilter(next Logger, min Level) Logger {
	return &filter{next: next, min: min}
}

// FilterLevel is a functional-option-style helper some callers prefer over
// constructing a filter directly.
func FilterLevel(min Level) func(Logger) Logger {
	return func(next Logger) Logger { return NewFilter(next, min) }
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.min {
		return nil
	}
	return f.next.Log(level, keyvals...)
}

// Helper adds printf-style convenience methods over a Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger. If logger is nil, every Helper method is a no-op,
// so callers can always hold a *Helper without nil-checking it first.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, format string, args ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	_ = h.logger.Log(level, fmt.Sprintf(format, args...))
}

// Debugf logs at LevelDebug.
func (h *Helper) Debugf(format string, args ...interface{}) { h.log(LevelDebug, format, args...) }

// Warnf logs at LevelWarn.
func (h *Helper) Warnf(format string, args ...interface{}) { h.log(LevelWarn, format, args...) }

// Errorf logs at LevelError.
func (h *Helper) Errorf(format string, args ...interface{}) { h.log(LevelError, format, args...) }
