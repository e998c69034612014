// Package debug provides conditional debug logging for mm.
//
// Debug logging is enabled by setting the MM_DEBUG environment variable:
//
//	MM_DEBUG=1 mm --export-all out/
//
// When enabled, debug messages are written to stderr with timestamps. The
// TUI owns the terminal, so MM_DEBUG_FILE redirects the log to a file.
// When disabled (default), all debug functions are no-ops.
package debug

import (
	"io"
	"log"
	"os"
	"time"
)

var (
	// enabled is true when MM_DEBUG env var is set
	enabled bool
	// logger writes with [MM_DEBUG] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("MM_DEBUG") == "" {
		return
	}
	var w io.Writer = os.Stderr
	if path := os.Getenv("MM_DEBUG_FILE"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			w = f
		}
	}
	enabled = true
	logger = newLogger(w)
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "[MM_DEBUG] ", log.Ltime|log.Lmicroseconds)
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = newLogger(os.Stderr)
	}
}

// SetOutput redirects debug output, mainly for tests.
func SetOutput(w io.Writer) {
	logger = newLogger(w)
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !enabled || !cond {
		return
	}
	logger.Printf(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	defer debug.LogEnterExit("renderSVG")()
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}
