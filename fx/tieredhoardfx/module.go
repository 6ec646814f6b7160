// Package tieredhoardfx provides an fx module for a full cache
// hierarchy built from configuration.
package tieredhoardfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/voxchain/hoard"
	"github.com/voxchain/hoard/internal/backend/disk"
	"github.com/voxchain/hoard/internal/config"
	"github.com/voxchain/hoard/internal/stats"
	"github.com/voxchain/hoard/internal/stats/logger"
)

// Module provides a *hoard.Hierarchy assembled from a *config.Config.
// Requires a *zap.Logger and a *config.Config to be provided.
var Module = fx.Module("tieredhoard",
	fx.Provide(
		newStatsCollector,
		newHierarchy,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("hoard.stats"))
}

// Params holds dependencies for creating the hierarchy.
type Params struct {
	fx.In

	Config    *config.Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided hierarchy.
type Result struct {
	fx.Out

	Hierarchy *hoard.Hierarchy
}

func newHierarchy(p Params) (Result, error) {
	if err := p.Config.Validate(); err != nil {
		return Result{}, err
	}

	h := hoard.NewHierarchy(
		hoard.WithPromotionThreshold(p.Config.PromotionThreshold),
		hoard.WithHierarchyLogger(p.Logger.Named("hoard")),
		hoard.WithHierarchyStats(p.Collector),
	)

	if t := p.Config.L1; t != nil && t.Enabled {
		m, err := hoard.New(
			hoard.WithMemoryBackend(t.MaxEntries, t.MaxBytes),
			hoard.WithDefaultTTL(t.TTL()),
			hoard.WithStats(p.Collector),
			hoard.WithLogger(p.Logger.Named("hoard.l1")),
		)
		if err != nil {
			return Result{}, err
		}
		h.AddLevel(hoard.L1Memory, m)
	}

	if t := p.Config.L2; t != nil && t.Enabled {
		c, err := config.CodecByName(t.Codec)
		if err != nil {
			return Result{}, err
		}
		backend, err := disk.New(t.Dir, t.MaxBytes, c, p.Logger.Named("hoard.l2.disk"))
		if err != nil {
			return Result{}, err
		}
		m, err := hoard.New(
			hoard.WithBackend(backend),
			hoard.WithDefaultTTL(t.TTL()),
			hoard.WithStats(p.Collector),
			hoard.WithLogger(p.Logger.Named("hoard.l2")),
		)
		if err != nil {
			return Result{}, err
		}
		h.AddLevel(hoard.L2Disk, m)
	}

	if t := p.Config.L3; t != nil && t.Enabled {
		m, err := hoard.New(
			hoard.WithStubBackend(),
			hoard.WithDefaultTTL(t.TTL()),
			hoard.WithStats(p.Collector),
			hoard.WithLogger(p.Logger.Named("hoard.l3")),
		)
		if err != nil {
			return Result{}, err
		}
		h.AddLevel(hoard.L3Distributed, m)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return h.Close()
		},
	})

	return Result{Hierarchy: h}, nil
}
