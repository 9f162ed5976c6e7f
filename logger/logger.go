// Package logger defines the minimal logging contract used across
// doorkeeper-jwt. Hosts plug in their own implementation through
// loader.WithLogger; the default writes to the standard library log.
package logger

import (
	"log"
)

// Logger is the logging surface the library depends on.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Enabled silences the default logger globally when false.
var Enabled = true

// DefaultLogger writes leveled lines through the stdlib logger.
type DefaultLogger struct {
	name string
}

// NewDefaultLogger returns a logger tagged with a component name.
func NewDefaultLogger(name string) *DefaultLogger {
	return &DefaultLogger{name: name}
}

func (d *DefaultLogger) Debug(format string, args ...any) {
	d.printf("DEBUG", format, args...)
}

func (d *DefaultLogger) Info(format string, args ...any) {
	d.printf("INFO", format, args...)
}

func (d *DefaultLogger) Error(format string, args ...any) {
	d.printf("ERROR", format, args...)
}

func (d *DefaultLogger) printf(level, format string, args ...any) {
	if !Enabled {
		return
	}
	log.Printf("["+level+"] "+d.name+" | "+format+"\n", args...)
}

// Noop discards everything; useful as a loader default in tests.
type Noop struct{}

func (Noop) Debug(string, ...any) {}
func (Noop) Info(string, ...any)  {}
func (Noop) Error(string, ...any) {}
