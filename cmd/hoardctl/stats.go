package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics about the cache directory",
	Long: `Display statistics about the cache directory including:
- Number of entries
- Total size on disk`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	manager, err := openManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	s := manager.Stats(context.Background())

	if statsJSON {
		out, err := json.Marshal(map[string]any{
			"cache_dir":  cacheDir,
			"entries":    s.EntryCount,
			"size_bytes": s.SizeBytes,
		})
		if err != nil {
			return fmt.Errorf("encoding statistics: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	if s.EntryCount == 0 {
		fmt.Println("Cache is empty.")
		return nil
	}

	fmt.Printf("Cache directory: %s\n", cacheDir)
	fmt.Printf("Entries:         %d\n", s.EntryCount)
	fmt.Printf("Total size:      %s\n", formatBytes(s.SizeBytes))

	return nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
