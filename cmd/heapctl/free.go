package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/image"
)

func init() {
	rootCmd.AddCommand(newFreeCmd())
}

func newFreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "free <image> <ref>...",
		Short: "Release blocks in a heap image",
		Long: `The free command releases one or more refs, flushes the image, and
reports which refs were actually live. Refs may be decimal or 0x-prefixed
hex. Invalid refs are ignored by the heap, never fatal.

Example:
  heapctl free cache.hkim 0x0010
  heapctl free cache.hkim 16 1040 0x0410`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFree(args)
		},
	}
	return cmd
}

func runFree(args []string) error {
	path := args[0]

	refs := make([]heap.Ref, 0, len(args)-1)
	for _, arg := range args[1:] {
		v, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid ref %q: %w", arg, err)
		}
		refs = append(refs, heap.Ref(v))
	}

	img, err := image.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer img.Close()

	h := img.Heap()
	released := 0
	for _, ref := range refs {
		// Free never reports an outcome; the ignored counter does.
		before := h.Stats().Ops.FreeIgnored
		h.Free(ref)
		if h.Stats().Ops.FreeIgnored == before {
			released++
			printVerbose("0x%04X released\n", uint32(ref))
		} else {
			printVerbose("0x%04X ignored\n", uint32(ref))
		}
	}

	if released > 0 {
		if err := img.Flush(context.Background(), image.FlushAuto); err != nil {
			return fmt.Errorf("failed to flush image: %w", err)
		}
	}

	if jsonOut {
		return printJSON(map[string]int{
			"requested": len(refs),
			"released":  released,
			"ignored":   len(refs) - released,
		})
	}

	printInfo("Released %d of %d refs\n", released, len(refs))
	return nil
}
