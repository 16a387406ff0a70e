package session

import (
	"github.com/go-autobus/blf/internal/options"
	"github.com/go-autobus/blf/logx"
)

// config holds Open's decode-time behavior knobs: the things that have no
// natural home in the file itself (spec.md §5 logging, §5 resource model).
type config struct {
	log              logx.Logger
	bufferPoolOn     bool
	maxCachedContainers int
}

func defaultConfig() *config {
	return &config{
		log:          logx.Default,
		bufferPoolOn: true,
	}
}

// Option configures Open, applied through the same generic
// internal/options mechanism the rest of this module's config surfaces
// use.
type Option = options.Option[*config]

// WithLogger installs the logging collaborator that receives the
// decoder's warnings (odd FlexRay length, over-long classic CAN DLC,
// unknown APP_TEXT source, unknown timestamp resolution, skipped object
// types). Payloads clamped to the bytes left in their object are not
// logged. A nil Logger is rejected
// at Apply time by falling back to logx.Default.
func WithLogger(l logx.Logger) Option {
	return options.NoError(func(c *config) {
		if l == nil {
			l = logx.Default
		}
		c.log = l
	})
}

// WithBufferPool toggles the internal byte-buffer pool (internal/pool)
// used to stage payload reads. Container inflation does not use the
// pool; each inflated container gets its own buffer either way. On by
// default; disabling it makes every payload read allocate fresh, which can be
// useful under a profiler that otherwise attributes pool reuse to the
// wrong caller.
func WithBufferPool(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.bufferPoolOn = enabled
	})
}

// WithMaxCachedContainers caps the number of simultaneously cached
// inflated containers. spec.md §5 permits but does not require eviction;
// the default of 0 means "no eviction", matching the documented worst
// case of retaining every inflated container until Close.
func WithMaxCachedContainers(n int) Option {
	return options.NoError(func(c *config) {
		c.maxCachedContainers = n
	})
}
