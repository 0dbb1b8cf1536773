package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/image"
)

var createForce bool

func init() {
	cmd := newCreateCmd()
	cmd.Flags().BoolVar(&createForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(cmd)
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <image>",
		Short: "Create a new, empty heap image",
		Long: `The create command writes a fresh heap image file: a superblock with a
newly assigned identity and a heap with every page free.

Example:
  heapctl create cache.hkim
  heapctl create cache.hkim --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args)
		},
	}
	return cmd
}

func runCreate(args []string) error {
	path := args[0]

	if createForce {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing image: %w", err)
		}
	}

	printVerbose("Creating image: %s\n", path)

	img, err := image.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	defer img.Close()

	if jsonOut {
		return printJSON(map[string]string{
			"path": path,
			"uuid": img.UUID().String(),
		})
	}

	printInfo("Created %s\n", path)
	printInfo("  UUID: %s\n", img.UUID())
	return nil
}
