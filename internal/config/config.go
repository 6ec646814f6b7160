// Package config loads tiered cache configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/voxchain/hoard/internal/codec"
	"github.com/voxchain/hoard/internal/codec/gzipcodec"
	"github.com/voxchain/hoard/internal/codec/noopcodec"
	"github.com/voxchain/hoard/internal/codec/zstdcodec"
)

// Config describes a cache hierarchy: which tiers exist and how each is
// bounded. Disabled tiers are simply not added to the hierarchy.
type Config struct {
	PromotionThreshold int         `yaml:"promotion_threshold"`
	L1                 *MemoryTier `yaml:"l1"`
	L2                 *DiskTier   `yaml:"l2"`
	L3                 *StubTier   `yaml:"l3"`
}

// MemoryTier configures the L1 memory tier.
type MemoryTier struct {
	Enabled    bool  `yaml:"enabled"`
	MaxEntries int   `yaml:"max_entries"`
	MaxBytes   int64 `yaml:"max_bytes"`
	TTLSeconds int   `yaml:"ttl_seconds"`
}

// TTL returns the tier's default TTL; zero means entries never expire.
func (t *MemoryTier) TTL() time.Duration {
	return time.Duration(t.TTLSeconds) * time.Second
}

// DiskTier configures the L2 disk tier.
type DiskTier struct {
	Enabled    bool   `yaml:"enabled"`
	Dir        string `yaml:"dir"`
	MaxBytes   int64  `yaml:"max_bytes"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	Codec      string `yaml:"codec"`
}

// TTL returns the tier's default TTL; zero means entries never expire.
func (t *DiskTier) TTL() time.Duration {
	return time.Duration(t.TTLSeconds) * time.Second
}

// StubTier configures the placeholder L3 distributed tier.
type StubTier struct {
	Enabled    bool `yaml:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds"`
}

// TTL returns the tier's default TTL; zero means entries never expire.
func (t *StubTier) TTL() time.Duration {
	return time.Duration(t.TTLSeconds) * time.Second
}

// Default returns the configuration used when no file is given: a
// memory-only cache with a five-minute TTL.
func Default() *Config {
	return &Config{
		PromotionThreshold: 3,
		L1: &MemoryTier{
			Enabled:    true,
			MaxEntries: 1000,
			MaxBytes:   100 << 20,
			TTLSeconds: 300,
		},
		L2: &DiskTier{
			Enabled:    false,
			Dir:        "./cache",
			MaxBytes:   1 << 30,
			TTLSeconds: 3600,
			Codec:      "zstd",
		},
		L3: &StubTier{
			Enabled: false,
		},
	}
}

// Load reads and validates a YAML config file. Fields absent from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.PromotionThreshold <= 0 {
		return fmt.Errorf("promotion_threshold must be positive, got %d", c.PromotionThreshold)
	}
	if c.L2 != nil && c.L2.Enabled {
		if c.L2.Dir == "" {
			return fmt.Errorf("l2.dir is required when the disk tier is enabled")
		}
		if _, err := CodecByName(c.L2.Codec); err != nil {
			return err
		}
	}
	return nil
}

// CodecByName resolves a codec name from configuration.
func CodecByName(name string) (codec.Codec, error) {
	switch name {
	case "zstd", "":
		return zstdcodec.New(), nil
	case "gzip":
		return gzipcodec.New(), nil
	case "none":
		return noopcodec.New(), nil
	default:
		return nil, fmt.Errorf("unknown codec %q (want zstd, gzip or none)", name)
	}
}
