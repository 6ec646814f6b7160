// Package diskhoardfx provides an fx module for a disk-backed cache
// manager.
package diskhoardfx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/voxchain/hoard"
	"github.com/voxchain/hoard/internal/stats"
	"github.com/voxchain/hoard/internal/stats/logger"
)

// Config holds configuration for the disk-backed cache manager.
type Config struct {
	// Dir is the cache directory. Created if it does not exist.
	Dir string

	// MaxBytes bounds the total on-disk size.
	// Default is 1 GiB.
	MaxBytes int64

	// DefaultTTL applies to entries stored without a per-call TTL.
	// Zero means entries never expire by default.
	DefaultTTL time.Duration
}

// Module provides a disk-backed cache manager.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("diskhoard",
	fx.Provide(
		newStatsCollector,
		newManager,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("hoard.stats"))
}

// Params holds dependencies for creating the manager.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided manager.
type Result struct {
	fx.Out

	Manager *hoard.Manager
}

func newManager(p Params) (Result, error) {
	maxBytes := p.Config.MaxBytes
	if maxBytes <= 0 {
		maxBytes = hoard.DefaultDiskBytes
	}

	manager, err := hoard.New(
		hoard.WithDiskBackend(p.Config.Dir, maxBytes),
		hoard.WithDefaultTTL(p.Config.DefaultTTL),
		hoard.WithStats(p.Collector),
		hoard.WithLogger(p.Logger.Named("hoard")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return manager.Close()
		},
	})

	return Result{Manager: manager}, nil
}
