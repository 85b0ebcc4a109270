package allocator

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/orizon-lang/regionarena/internal/region"
)

// ArenaAllocatorImpl implements a bump-pointer arena backed by a single
// claim against a region.Arena, rather than a raw make([]byte, size).
// Individual Free calls are still no-ops (bump arenas never reclaim a
// single allocation); the whole arena's backing block is released via
// Close, which returns it to the region layer.
type ArenaAllocatorImpl struct {
	config         *Config
	regionArena    *region.Arena
	blockAddr      uintptr
	blockID        region.ID
	buffer         []byte
	current        uintptr
	size           uintptr
	allocations    uint64
	totalAllocated uintptr
	mu             sync.RWMutex
}

// NewArenaAllocator claims a size-byte block from regionArena and wraps
// it in a bump-pointer arena.
func NewArenaAllocator(size uintptr, config *Config, regionArena *region.Arena) (*ArenaAllocatorImpl, error) {
	if size == 0 {
		return nil, fmt.Errorf("arena size must be greater than 0")
	}

	addr, id, err := regionArena.Allocate(size, true)
	if err != nil {
		return nil, fmt.Errorf("failed to claim arena backing block: %w", err)
	}

	buffer := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)

	return &ArenaAllocatorImpl{
		config:      config,
		regionArena: regionArena,
		blockAddr:   addr,
		blockID:     id,
		buffer:      buffer,
		current:     0,
		size:        size,
	}, nil
}

// Close releases the arena's backing block back to the region layer.
// The arena must not be used afterward.
func (aa *ArenaAllocatorImpl) Close() error {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	return aa.regionArena.Free(aa.blockAddr, aa.size, aa.blockID)
}

// Alloc allocates memory from the arena.
func (aa *ArenaAllocatorImpl) Alloc(size uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}

	// Align size.
	alignedSize := alignUp(size, aa.config.AlignmentSize)

	aa.mu.Lock()
	defer aa.mu.Unlock()

	// Check if we have enough space.
	if aa.current+alignedSize > aa.size {
		return nil // Out of arena space
	}

	// Get pointer to current position.
	ptr := unsafe.Pointer(&aa.buffer[aa.current])

	// Update current position.
	aa.current += alignedSize
	aa.allocations++
	aa.totalAllocated += alignedSize

	return ptr
}

// Free is a no-op for arena allocator (can't free individual allocations).
func (aa *ArenaAllocatorImpl) Free(ptr unsafe.Pointer) {
	// Arena allocator doesn't support individual free operations.
	// Memory is only freed when the arena is reset or closed.
}

// Stats returns allocation statistics.
func (aa *ArenaAllocatorImpl) Stats() AllocatorStats {
	aa.mu.RLock()
	defer aa.mu.RUnlock()

	return AllocatorStats{
		TotalAllocated:    aa.totalAllocated,
		ActiveAllocations: int(aa.allocations),
		AllocationCount:   aa.allocations,
		BytesInUse:        aa.current,
		SystemMemory:      aa.size,
	}
}

// Reset resets the arena, freeing all memory.
func (aa *ArenaAllocatorImpl) Reset() {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	aa.current = 0
	aa.allocations = 0
	aa.totalAllocated = 0
}

// Available returns the amount of available space in the arena.
func (aa *ArenaAllocatorImpl) Available() uintptr {
	aa.mu.RLock()
	defer aa.mu.RUnlock()

	return aa.size - aa.current
}

// Used returns the amount of used space in the arena.
func (aa *ArenaAllocatorImpl) Used() uintptr {
	aa.mu.RLock()
	defer aa.mu.RUnlock()

	return aa.current
}

// Size returns the total size of the arena.
func (aa *ArenaAllocatorImpl) Size() uintptr {
	return aa.size
}

// SubArena creates a sub-arena by claiming its own backing block from
// the same region arena (sub-arenas no longer carve out of the parent's
// buffer, since the parent's buffer is no longer arbitrarily large heap
// memory — it is a claimed region block with a fixed size).
func (aa *ArenaAllocatorImpl) SubArena(size uintptr) (*ArenaAllocatorImpl, error) {
	return NewArenaAllocator(size, aa.config, aa.regionArena)
}
