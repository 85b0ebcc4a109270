package region

import (
	"sync/atomic"

	"github.com/orizon-lang/regionarena/internal/arenaos"
)

// ID identifies a live allocation: either a region-backed block span
// (region_index*wordBits + bit_index) or the DirectID sentinel for an
// allocation that bypassed the region layer entirely.
type ID uint64

// DirectID is the sentinel id for allocations served directly by the OS
// (oversized or overaligned requests, or requests no region has room
// for). It is all-ones, matching spec's
// "id = MAX" convention.
const DirectID ID = ^ID(0)

// descriptor is one region table entry. Both fields are accessed only
// through atomic operations: bitmap via CAS in the claim/unclaim
// protocols, start via a single winner-take-all CAS at first reservation.
type descriptor struct {
	bitmap atomic.Uint64
	start  atomic.Uintptr
}

// Arena is a region arena: the region table plus the rotating search
// cursor and the backend it reserves memory through. The zero value is
// not usable; construct with NewArena.
type Arena struct {
	backend     arenaos.Backend
	blockSize   uintptr
	regionSize  uintptr
	regionAlign uintptr
	maxAlloc    uintptr
	eagerCommit bool

	regions      []descriptor
	regionsCount atomic.Int64
	nextIdx      atomic.Int64

	stats Stats
}

// Stats returns the arena's live statistics handle.
func (a *Arena) Stats() *Stats { return &a.stats }

// BlockSize returns the configured BLOCK_SIZE.
func (a *Arena) BlockSize() uintptr { return a.blockSize }

// MaxAlloc returns MAX_ALLOC, the per-region allocation ceiling.
func (a *Arena) MaxAlloc() uintptr { return a.maxAlloc }

// NumRegions returns the current value of regions_count (a lower bound
// on initialized regions, per spec invariant 4).
func (a *Arena) NumRegions() int { return int(a.regionsCount.Load()) }
