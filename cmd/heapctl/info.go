package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/image"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <image>",
		Short: "Validate a heap image and report basic metadata",
		Long: `The info command validates a heap image file and displays basic
metadata including its identity, geometry, and page occupancy.

Example:
  heapctl info cache.hkim
  heapctl info cache.hkim --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

// ImageInfo is the info command's output shape.
type ImageInfo struct {
	Path       string `json:"path"`
	FileSize   int64  `json:"file_size"`
	UUID       string `json:"uuid"`
	HeapSize   int    `json:"heap_size"`
	PageSize   int    `json:"page_size"`
	PageCount  int    `json:"page_count"`
	FreePages  int    `json:"free_pages"`
	SmallPages int    `json:"small_pages"`
	BigPages   int    `json:"big_pages"`
	LiveBytes  int    `json:"live_bytes"`
}

func runInfo(args []string) error {
	path := args[0]

	printVerbose("Opening image: %s\n", path)

	img, err := image.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer img.Close()

	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	s := img.Heap().Stats()
	info := ImageInfo{
		Path:       path,
		FileSize:   stat.Size(),
		UUID:       img.UUID().String(),
		HeapSize:   heap.Size,
		PageSize:   heap.PageSize,
		PageCount:  heap.PageCount,
		FreePages:  s.FreePages,
		SmallPages: s.SmallPages,
		BigPages:   s.BigPages,
		LiveBytes:  s.LiveBytes,
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nImage Information:\n")
	printInfo("  File: %s\n", info.Path)
	printInfo("  Size: %.1f KB\n", float64(info.FileSize)/1024)
	printInfo("  UUID: %s\n", info.UUID)

	printInfo("\nGeometry:\n")
	printInfo("  Heap: %d bytes in %d pages of %d bytes\n", info.HeapSize, info.PageCount, info.PageSize)

	printInfo("\nOccupancy:\n")
	printInfo("  Free pages:  %d\n", info.FreePages)
	printInfo("  Small pages: %d\n", info.SmallPages)
	printInfo("  Big pages:   %d\n", info.BigPages)
	printInfo("  Live bytes:  %d\n", info.LiveBytes)

	printInfo("\nValidation:\n")
	printInfo("  ✓ Superblock valid\n")
	printInfo("  ✓ Page table consistent\n")

	return nil
}
