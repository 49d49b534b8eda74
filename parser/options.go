package parser

import (
	"io"

	"github.com/mycophonic/isobmff/internal/box"
	"github.com/mycophonic/isobmff/logging"
)

// config holds Parser construction options: a short list of optional
// knobs applied through functional options rather than a fixed config
// record.
type config struct {
	maxBoxDepth int
}

func defaultConfig() config {
	return config{maxBoxDepth: box.DefaultMaxDepth}
}

// Option configures a Parser at construction time.
type Option func(*config)

// WithMaxBoxDepth overrides the box-containment nesting limit
// (internal/box.DefaultMaxDepth by default). Mostly useful for tests that
// want to exercise the depth-limit invariant without a pathologically deep
// fixture.
func WithMaxBoxDepth(depth int) Option {
	return func(c *config) { c.maxBoxDepth = depth }
}

// WithLogger redirects the package-level structured logger (shared by
// internal/box's skipped/unsupported-box diagnostics and this package's
// session-lifecycle logs) to w. The logger is process-global, so this
// takes effect for every Parser in the process, not just the one
// constructed with it.
func WithLogger(w io.Writer) Option {
	return func(_ *config) { logging.SetOutput(w) }
}
