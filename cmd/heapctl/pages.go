package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/image"
)

var pagesAll bool

func init() {
	cmd := newPagesCmd()
	cmd.Flags().BoolVar(&pagesAll, "all", false, "Include free pages")
	rootCmd.AddCommand(cmd)
}

func newPagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages <image>",
		Short: "List page states and occupancy",
		Long: `The pages command lists every occupied page with its class and segment
usage. With --all, free pages are listed too.

Example:
  heapctl pages cache.hkim
  heapctl pages cache.hkim --all --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPages(args)
		},
	}
	return cmd
}

// PageRow is one page in the pages command's output.
type PageRow struct {
	Index    int    `json:"index"`
	State    string `json:"state"`
	Used     int    `json:"used"`
	Capacity int    `json:"capacity"`
}

func runPages(args []string) error {
	path := args[0]

	printVerbose("Opening image: %s\n", path)

	img, err := image.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer img.Close()

	h := img.Heap()
	rows := make([]PageRow, 0, heap.PageCount)
	for i := range heap.PageCount {
		info, ok := h.Page(i)
		if !ok {
			continue
		}
		if info.State == heap.PageFree && !pagesAll {
			continue
		}
		rows = append(rows, PageRow{
			Index:    info.Index,
			State:    info.State.String(),
			Used:     info.Used,
			Capacity: info.Capacity,
		})
	}

	if jsonOut {
		return printJSON(rows)
	}

	if len(rows) == 0 {
		printInfo("All pages free.\n")
		return nil
	}

	printInfo("PAGE  STATE  USED\n")
	for _, row := range rows {
		if row.Capacity == 0 {
			printInfo("%4d  %-5s  -\n", row.Index, row.State)
			continue
		}
		printInfo("%4d  %-5s  %d/%d\n", row.Index, row.State, row.Used, row.Capacity)
	}
	return nil
}
