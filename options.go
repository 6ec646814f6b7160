package hoard

import (
	"time"

	"go.uber.org/zap"

	"github.com/voxchain/hoard/internal/backend/disk"
	"github.com/voxchain/hoard/internal/backend/memory"
	"github.com/voxchain/hoard/internal/backend/stub"
	"github.com/voxchain/hoard/internal/cache"
	"github.com/voxchain/hoard/internal/codec/zstdcodec"
	"github.com/voxchain/hoard/internal/stats"
)

// Default capacity bounds applied when a backend option leaves them zero.
const (
	DefaultMaxEntries = 1000
	DefaultMaxBytes   = 100 << 20 // 100 MiB
	DefaultDiskBytes  = 1 << 30   // 1 GiB
)

// Option configures a Manager.
type Option interface {
	apply(*options)
}

// options holds the manager configuration.
type options struct {
	backend    cache.Backend
	backendFn  func(*options) (cache.Backend, error)
	strategy   Strategy
	defaultTTL time.Duration
	stats      stats.Collector
	logger     *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		strategy: StrategyLRU,
		stats:    stats.NewNoop(),
		logger:   zap.NewNop(),
	}
}

// buildBackend resolves the configured backend. Deferred constructors
// run here so they see the final logger and collector.
func (o *options) buildBackend() (cache.Backend, error) {
	if o.backend != nil {
		return o.backend, nil
	}
	if o.backendFn != nil {
		return o.backendFn(o)
	}
	return nil, nil
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithBackend sets the storage backend to use.
func WithBackend(b cache.Backend) Option {
	return optionFunc(func(o *options) {
		o.backend = b
	})
}

// WithMemoryBackend configures an in-memory backend bounded by maxEntries
// entries and maxBytes total bytes. Zero or negative bounds fall back to
// the package defaults.
func WithMemoryBackend(maxEntries int, maxBytes int64) Option {
	return optionFunc(func(o *options) {
		o.backendFn = func(o *options) (cache.Backend, error) {
			if maxEntries <= 0 {
				maxEntries = DefaultMaxEntries
			}
			if maxBytes <= 0 {
				maxBytes = DefaultMaxBytes
			}
			return memory.New(maxEntries, maxBytes, o.stats, o.logger.Named("memory"))
		}
	})
}

// WithDiskBackend configures a disk backend rooted at dir with a total
// byte budget, storing entries zstd-compressed. A non-positive budget
// falls back to the package default.
func WithDiskBackend(dir string, maxBytes int64) Option {
	return optionFunc(func(o *options) {
		o.backendFn = func(o *options) (cache.Backend, error) {
			if maxBytes <= 0 {
				maxBytes = DefaultDiskBytes
			}
			return disk.New(dir, maxBytes, zstdcodec.New(), o.logger.Named("disk"))
		}
	})
}

// WithStubBackend configures the in-process placeholder backend used for
// the distributed tier.
func WithStubBackend() Option {
	return optionFunc(func(o *options) {
		o.backend = stub.New()
	})
}

// WithStrategy sets the advisory eviction-strategy label.
// Eviction behavior is determined by the backend, not by this label.
func WithStrategy(s Strategy) Option {
	return optionFunc(func(o *options) {
		o.strategy = s
	})
}

// WithDefaultTTL sets the TTL applied to entries stored without a
// per-call TTL. Zero means entries never expire by default.
func WithDefaultTTL(d time.Duration) Option {
	return optionFunc(func(o *options) {
		o.defaultTTL = d
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// SetOption configures a single Set call.
type SetOption interface {
	applySet(*setConfig)
}

type setConfig struct {
	ttl  time.Duration
	tags []string
}

// setOptionFunc wraps a function to implement SetOption.
type setOptionFunc func(*setConfig)

func (f setOptionFunc) applySet(c *setConfig) { f(c) }

// WithTTL sets the entry's time-to-live for one Set call. A
// non-positive TTL falls back to the manager's default.
func WithTTL(d time.Duration) SetOption {
	return setOptionFunc(func(c *setConfig) {
		c.ttl = d
	})
}

// WithTags attaches free-form tags to the entry for bulk invalidation.
func WithTags(tags ...string) SetOption {
	return setOptionFunc(func(c *setConfig) {
		c.tags = append(c.tags, tags...)
	})
}
