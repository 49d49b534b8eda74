// Package logging provides the structured logger the box dispatcher and
// parser session use to report non-fatal conditions: skipped unknown
// boxes, unsupported-but-well-formed child boxes, and ignored extra
// edit-list entries. Nothing in this package ever turns a log call into an
// error return; it's diagnostics only.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// SetOutput redirects log output, for hosts embedding this parser that
// want diagnostics routed somewhere other than stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	log = log.Output(w)
}

// SetLevel changes the minimum log level. Defaults to info; callers
// debugging box-skipping behavior typically drop this to debug.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()

	log = log.Level(level)
}

// Logger returns the current shared logger.
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	l := log

	return &l
}
