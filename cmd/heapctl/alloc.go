package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/image"
)

var (
	allocCount int
	allocFill  int
)

func init() {
	cmd := newAllocCmd()
	cmd.Flags().IntVar(&allocCount, "count", 1, "Number of blocks to allocate")
	cmd.Flags().IntVar(&allocFill, "fill", -1, "Fill payloads with this byte value (0-255)")
	rootCmd.AddCommand(cmd)
}

func newAllocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alloc <image> <size>",
		Short: "Allocate blocks in a heap image",
		Long: `The alloc command allocates one or more blocks of the given payload
size, optionally fills them, flushes the image, and prints the refs.

Example:
  heapctl alloc cache.hkim 12
  heapctl alloc cache.hkim 100 --count 5 --fill 0xAB`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlloc(args)
		},
	}
	return cmd
}

func runAlloc(args []string) error {
	path := args[0]
	size, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[1], err)
	}
	if allocCount < 1 {
		return fmt.Errorf("invalid count %d", allocCount)
	}
	if allocFill > 255 {
		return fmt.Errorf("invalid fill byte %d", allocFill)
	}

	img, err := image.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer img.Close()

	h := img.Heap()
	refs := make([]heap.Ref, 0, allocCount)
	for i := 0; i < allocCount; i++ {
		ref, buf, allocErr := h.Alloc(size)
		if allocErr != nil {
			printError("alloc %d of %d: %v\n", i+1, allocCount, allocErr)
			break
		}
		if allocFill >= 0 {
			for j := range buf {
				buf[j] = byte(allocFill)
			}
		}
		refs = append(refs, ref)
	}

	if len(refs) > 0 {
		if err := img.Flush(context.Background(), image.FlushAuto); err != nil {
			return fmt.Errorf("failed to flush image: %w", err)
		}
	}

	if jsonOut {
		out := make([]string, len(refs))
		for i, ref := range refs {
			out[i] = fmt.Sprintf("0x%04X", uint32(ref))
		}
		return printJSON(map[string]interface{}{
			"size": size,
			"refs": out,
		})
	}

	for _, ref := range refs {
		printInfo("0x%04X\n", uint32(ref))
	}
	printVerbose("Allocated %d of %d requested\n", len(refs), allocCount)

	if len(refs) < allocCount {
		return fmt.Errorf("allocated %d of %d blocks", len(refs), allocCount)
	}
	return nil
}
