package util

import (
	"fmt"
	"io"
	"os"
)

// Logger writes leveled progress lines to an underlying writer, stderr by
// default, as plain "LEVEL message" text.
type Logger struct {
	w io.Writer
}

// NewLogger returns a Logger writing to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w}
}

// StderrLogger returns a Logger writing to os.Stderr.
func StderrLogger() *Logger {
	return NewLogger(os.Stderr)
}

func (l *Logger) log(level, format string, a ...interface{}) {
	fmt.Fprintf(l.w, "%-5s %s\n", level, fmt.Sprintf(format, a...))
}

// Debugf logs a DEBUG-level line.
func (l *Logger) Debugf(format string, a ...interface{}) { l.log("DEBUG", format, a...) }

// Infof logs an INFO-level line.
func (l *Logger) Infof(format string, a ...interface{}) { l.log("INFO", format, a...) }

// Warnf logs a WARN-level line.
func (l *Logger) Warnf(format string, a ...interface{}) { l.log("WARN", format, a...) }

// Errorf logs an ERROR-level line.
func (l *Logger) Errorf(format string, a ...interface{}) { l.log("ERROR", format, a...) }
