package hostfunc

import (
	"io"
	"os"

	"go.uber.org/zap"
)

// DefaultMaxStringLen limits how many bytes a guest string may span (1 MiB).
// Longer requests trap before any UTF-8 validation runs.
const DefaultMaxStringLen = 1 << 20

type config struct {
	logger       *zap.Logger
	output       io.Writer
	maxStringLen uint32
}

// Option configures a Module or a single Guard.
type Option func(*config)

// WithLogger sets the logger used to report traps.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxStringLen sets the longest guest string Call.String accepts.
// Zero disables the limit.
func WithMaxStringLen(n uint32) Option {
	return func(c *config) {
		c.maxStringLen = n
	}
}

// WithOutput sets where the demo module's print writes.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

func defaultConfig() config {
	return config{
		logger:       Logger(),
		output:       os.Stdout,
		maxStringLen: DefaultMaxStringLen,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
