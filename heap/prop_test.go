package heap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

// Test_RandomizedWorkload drives the allocator with a deterministic random
// op mix and checks it against a shadow model: every live block keeps its
// fill pattern until freed, no ref is handed out twice while live, and the
// heap's own accounting matches the model's at the end.
func Test_RandomizedWorkload(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	h := New()

	type block struct {
		ref  Ref
		size int
		fill byte
	}
	live := make([]block, 0, 1024)
	owned := make(map[Ref]bool)

	const ops = 20000
	for i := 0; i < ops; i++ {
		switch action := rng.Intn(100); {
		case action < 55:
			// Allocate, sometimes past the class limit on purpose.
			size := 1 + rng.Intn(200)
			ref, buf, err := h.Alloc(size)
			if err != nil {
				require.ErrorIs(t, err, ErrNoMemory, "op %d", i)
				continue
			}
			require.LessOrEqual(t, size, BigMax, "op %d: oversized alloc succeeded", i)
			require.False(t, owned[ref], "op %d: ref %#x double-issued", i, ref)
			owned[ref] = true

			fill := byte(rng.Intn(256))
			for j := range buf {
				buf[j] = fill
			}
			live = append(live, block{ref: ref, size: size, fill: fill})

		case action < 95 && len(live) > 0:
			// Free a random live block, verifying its bytes survived.
			idx := rng.Intn(len(live))
			blk := live[idx]
			start := int(blk.ref)
			for j := 0; j < blk.size; j++ {
				require.Equal(t, blk.fill, h.buf[start+j],
					"op %d: ref %#x byte %d corrupted", i, blk.ref, j)
			}
			h.Free(blk.ref)
			delete(owned, blk.ref)
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]

		default:
			// Throw a guaranteed-invalid ref at Free: either out of
			// bounds or inside a page header. Live refs are never of
			// either shape, so the model stays intact.
			if rng.Intn(2) == 0 {
				h.Free(Ref(Size + rng.Intn(Size)))
			} else {
				page := rng.Intn(format.PageCount)
				h.Free(Ref(page<<format.PageShift + rng.Intn(format.PageHeaderSize)))
			}
		}

		if i%1000 == 0 {
			assertInvariants(t, h)
		}
	}

	var wantSmall, wantBig int
	for _, blk := range live {
		if blk.size <= SmallMax {
			wantSmall++
		} else {
			wantBig++
		}
	}
	s := h.Stats()
	require.Equal(t, wantSmall, s.SmallUsed, "small occupancy diverged from model")
	require.Equal(t, wantBig, s.BigUsed, "big occupancy diverged from model")

	// Drain everything; the heap must come back fully FREE.
	for _, blk := range live {
		h.Free(blk.ref)
	}
	require.Equal(t, PageCount, h.Stats().FreePages)
	require.Zero(t, h.Stats().LiveBytes)
	assertInvariants(t, h)
}
