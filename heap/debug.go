package heap

import (
	"fmt"
	"os"
)

// Runtime debug flag for page lifecycle logging - controlled by HEAPKIT_LOG env var.
var logOps = os.Getenv("HEAPKIT_LOG") != ""

// debugLogf writes a page lifecycle event to stderr when HEAPKIT_LOG is set.
func debugLogf(msg string, args ...any) {
	if !logOps {
		return
	}
	fmt.Fprintf(os.Stderr, "[HEAP] "+msg+"\n", args...)
}
