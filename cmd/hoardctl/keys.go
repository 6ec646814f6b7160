package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var keysJSON bool

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all cached keys",
	Long: `List the keys of every entry currently in the cache directory,
including entries whose TTL has elapsed but which have not yet been
touched.`,
	RunE: runKeys,
}

func init() {
	keysCmd.Flags().BoolVar(&keysJSON, "json", false, "output keys as a JSON array")
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	manager, err := openManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	keys := manager.Keys(context.Background())
	sort.Strings(keys)

	if keysJSON {
		if keys == nil {
			keys = []string{}
		}
		out, err := json.Marshal(keys)
		if err != nil {
			return fmt.Errorf("encoding keys: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}
