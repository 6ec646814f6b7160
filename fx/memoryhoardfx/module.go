// Package memoryhoardfx provides an fx module for a memory-backed cache
// manager. Useful for testing.
package memoryhoardfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/voxchain/hoard"
	"github.com/voxchain/hoard/internal/stats"
	"github.com/voxchain/hoard/internal/stats/logger"
)

// Module provides a memory-backed cache manager.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memoryhoard",
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
	manager, err := hoard.New(
		hoard.WithMemoryBackend(hoard.DefaultMaxEntries, hoard.DefaultMaxBytes),
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
