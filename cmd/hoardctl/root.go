package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/voxchain/hoard"
	"github.com/voxchain/hoard/internal/backend/disk"
	"github.com/voxchain/hoard/internal/config"
)

var (
	// Global flags.
	cacheDir  string
	maxSizeMB int64
	codecName string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "hoardctl",
	Short: "Inspect and manipulate a hoard disk cache directory",
	Long: `hoardctl operates directly on a disk cache directory: seed entries,
look them up, list keys, show statistics, or wipe the cache.

Entries are stored one file per key, compressed with the configured
codec. Values handled through this tool are strings.

Examples:
  # Seed an entry with a one-hour TTL and a tag
  hoardctl set session:42 '{"user":"ada"}' --ttl 3600 --tag sessions

  # Look it up
  hoardctl get session:42

  # Show cache statistics
  hoardctl stats`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cacheDir, "cache-dir", "d", "./cache", "cache directory")
	rootCmd.PersistentFlags().Int64Var(&maxSizeMB, "max-size-mb", 1024, "total on-disk budget in MiB")
	rootCmd.PersistentFlags().StringVar(&codecName, "codec", "zstd", "entry compression: zstd, gzip or none")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// openManager builds a manager over the disk cache directory from the
// global flags.
func openManager() (*hoard.Manager, error) {
	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
		logger = l
	}

	c, err := config.CodecByName(codecName)
	if err != nil {
		return nil, err
	}

	backend, err := disk.New(cacheDir, maxSizeMB<<20, c, logger.Named("disk"))
	if err != nil {
		return nil, fmt.Errorf("opening cache directory: %w", err)
	}

	return hoard.New(
		hoard.WithBackend(backend),
		hoard.WithLogger(logger.Named("hoard")),
	)
}
