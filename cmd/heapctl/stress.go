package main

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/image"
)

var (
	stressOps  int
	stressSeed int64
	stressKeep bool
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressOps, "ops", 10000, "Number of operations to run")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Random seed")
	cmd.Flags().BoolVar(&stressKeep, "keep", false, "Leave surviving blocks allocated")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress <image>",
		Short: "Run a randomized alloc/free workload",
		Long: `The stress command drives a heap image with a seeded random mix of
allocations and frees, flushes, then reopens the image to verify that the
persisted page table and occupancy bitmaps still agree. With the same seed
the run is fully reproducible. By default every surviving block is freed at
the end; --keep leaves them allocated so the occupancy is visible with
stats and pages.

Example:
  heapctl stress cache.hkim --ops 50000 --seed 7
  heapctl stress cache.hkim --keep`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress(args)
		},
	}
	return cmd
}

func runStress(args []string) error {
	path := args[0]

	img, err := image.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	printVerbose("Running %d ops with seed %d\n", stressOps, stressSeed)

	h := img.Heap()
	rng := rand.New(rand.NewSource(stressSeed))
	live := make([]heap.Ref, 0, 1024)

	for range stressOps {
		if rng.Intn(100) < 60 {
			size := 1 + rng.Intn(heap.BigMax)
			ref, _, allocErr := h.Alloc(size)
			if allocErr == nil {
				live = append(live, ref)
			}
		} else if len(live) > 0 {
			idx := rng.Intn(len(live))
			h.Free(live[idx])
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}

	if !stressKeep {
		for _, ref := range live {
			h.Free(ref)
		}
		live = live[:0]
	}

	s := h.Stats()

	if err := img.Flush(context.Background(), image.FlushAuto); err != nil {
		img.Close()
		return fmt.Errorf("failed to flush image: %w", err)
	}
	if err := img.Close(); err != nil {
		return fmt.Errorf("failed to close image: %w", err)
	}

	// Reopening replays the full validation path: superblock checks plus
	// the per-page descriptor/bitmap agreement done on resume.
	reopened, err := image.Open(path)
	if err != nil {
		return fmt.Errorf("image inconsistent after stress: %w", err)
	}
	if err := reopened.Close(); err != nil {
		return fmt.Errorf("failed to close image: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"ops":          stressOps,
			"seed":         stressSeed,
			"survivors":    len(live),
			"alloc_calls":  s.Ops.AllocCalls,
			"alloc_failed": s.Ops.AllocFailed,
			"free_calls":   s.Ops.FreeCalls,
			"promotions":   s.Ops.Promotions,
			"reclamations": s.Ops.Reclamations,
			"live_bytes":   s.LiveBytes,
			"consistent":   true,
		})
	}

	printInfo("\nStress Results:\n")
	printInfo("  Ops:          %d (seed %d)\n", stressOps, stressSeed)
	printInfo("  Allocs:       %d (%d failed)\n", s.Ops.AllocCalls, s.Ops.AllocFailed)
	printInfo("  Frees:        %d\n", s.Ops.FreeCalls)
	printInfo("  Promotions:   %d\n", s.Ops.Promotions)
	printInfo("  Reclamations: %d\n", s.Ops.Reclamations)
	printInfo("  Survivors:    %d blocks, %d live bytes\n", len(live), s.LiveBytes)
	printInfo("\nValidation:\n")
	printInfo("  ✓ Image reopens cleanly after workload\n")

	return nil
}
