package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/image"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <image>",
		Short: "Show detailed occupancy statistics",
		Long: `The stats command shows detailed statistics about a heap image,
including per-class segment usage and overall utilization.

Example:
  heapctl stats cache.hkim
  heapctl stats cache.hkim --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

// ClassStats describes one size class's occupancy.
type ClassStats struct {
	Pages       int     `json:"pages"`
	UsedSegs    int     `json:"used_segments"`
	TotalSegs   int     `json:"total_segments"`
	Utilization float64 `json:"utilization"`
}

// ImageStats is the stats command's output shape.
type ImageStats struct {
	Path        string     `json:"path"`
	FreePages   int        `json:"free_pages"`
	Small       ClassStats `json:"small"`
	Big         ClassStats `json:"big"`
	LiveBytes   int        `json:"live_bytes"`
	HeapBytes   int        `json:"heap_bytes"`
	Utilization float64    `json:"utilization"`
}

func runStats(args []string) error {
	path := args[0]

	printVerbose("Opening image: %s\n", path)

	img, err := image.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer img.Close()

	s := img.Heap().Stats()
	stats := ImageStats{
		Path:      path,
		FreePages: s.FreePages,
		Small: ClassStats{
			Pages:       s.SmallPages,
			UsedSegs:    s.SmallUsed,
			TotalSegs:   s.SmallCap,
			Utilization: utilization(s.SmallUsed, s.SmallCap),
		},
		Big: ClassStats{
			Pages:       s.BigPages,
			UsedSegs:    s.BigUsed,
			TotalSegs:   s.BigCap,
			Utilization: utilization(s.BigUsed, s.BigCap),
		},
		LiveBytes:   s.LiveBytes,
		HeapBytes:   heap.Size,
		Utilization: utilization(s.LiveBytes, heap.Size),
	}

	if jsonOut {
		return printJSON(stats)
	}

	printInfo("\nHeap Statistics:\n")
	printInfo("  File: %s\n", stats.Path)
	printInfo("  Free pages: %d of %d\n", stats.FreePages, heap.PageCount)

	printInfo("\nSmall class (payloads 1-%d bytes):\n", heap.SmallMax)
	printClass(stats.Small)

	printInfo("\nBig class (payloads %d-%d bytes):\n", heap.SmallMax+1, heap.BigMax)
	printClass(stats.Big)

	printInfo("\nOverall:\n")
	printInfo("  Live bytes: %d of %d (%.1f%%)\n", stats.LiveBytes, stats.HeapBytes, stats.Utilization)

	return nil
}

func printClass(c ClassStats) {
	printInfo("  Pages:    %d\n", c.Pages)
	if c.TotalSegs > 0 {
		printInfo("  Segments: %d of %d (%.1f%%)\n", c.UsedSegs, c.TotalSegs, c.Utilization)
	} else {
		printInfo("  Segments: none\n")
	}
}

func utilization(used, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(used) / float64(total)
}
