package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxchain/hoard"
)

var (
	setTTLSeconds int
	setTags       []string
)

var setCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Store a value in the cache",
	Long: `Store a string value under a key, replacing any prior entry.

A TTL of zero means the entry never expires. Tags enable bulk removal
with later tooling or the library's tag invalidation.`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	setCmd.Flags().IntVar(&setTTLSeconds, "ttl", 0, "time-to-live in seconds (0 = never expires)")
	setCmd.Flags().StringArrayVar(&setTags, "tag", nil, "tag to attach (repeatable)")
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	manager, err := openManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	opts := []hoard.SetOption{}
	if setTTLSeconds > 0 {
		opts = append(opts, hoard.WithTTL(time.Duration(setTTLSeconds)*time.Second))
	}
	if len(setTags) > 0 {
		opts = append(opts, hoard.WithTags(setTags...))
	}

	manager.Set(context.Background(), key, value, opts...)

	if verbose {
		fmt.Printf("stored %q (%d bytes)\n", key, len(value))
	}
	return nil
}
