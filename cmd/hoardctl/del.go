package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var delCmd = &cobra.Command{
	Use:   "del [key]",
	Short: "Remove a cached entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runDel,
}

func init() {
	rootCmd.AddCommand(delCmd)
}

func runDel(cmd *cobra.Command, args []string) error {
	key := args[0]

	manager, err := openManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	if !manager.Delete(context.Background(), key) {
		return fmt.Errorf("key %q not found", key)
	}

	fmt.Printf("deleted %q\n", key)
	return nil
}
