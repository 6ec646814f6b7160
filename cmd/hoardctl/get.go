package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Look up a cached value",
	Long: `Look up the value stored under a key. Exits with an error when the
key is absent or its TTL has elapsed.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().BoolVar(&getJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	manager, err := openManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	value, ok := manager.Get(context.Background(), key)
	if !ok {
		return fmt.Errorf("key %q not found", key)
	}

	if getJSON {
		out, err := json.Marshal(map[string]any{"key": key, "value": value})
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(value)
	return nil
}
