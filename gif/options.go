package gif

import "log/slog"

type config struct {
	logger     *slog.Logger
	checkpoint func(blockIndex int) error
	workers    int
}

// Option configures Decode.
type Option func(*config)

// WithLogger traces every parsed block at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithCheckpoint installs a hook that runs before each block is parsed.
// A non-nil error aborts the decode.
func WithCheckpoint(fn func(blockIndex int) error) Option {
	return func(cfg *config) { cfg.checkpoint = fn }
}

// WithWorkers decompresses up to n images concurrently. Frames are still
// composited in stream order.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.workers = n
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		logger:  slog.New(slog.DiscardHandler),
		workers: 1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
