package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry from the cache directory",
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		fmt.Printf("This removes everything under %s. Continue? [y/N] ", cacheDir)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	manager, err := openManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	manager.Clear(context.Background())
	fmt.Println("Cache cleared.")
	return nil
}
