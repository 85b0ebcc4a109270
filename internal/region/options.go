package region

import "github.com/orizon-lang/regionarena/internal/arenaos"

// Option configures an Arena at construction time, following the same
// functional-options shape the teacher uses for its allocator Config.
type Option func(*config)

type config struct {
	backend   arenaos.Backend
	blockSize uintptr
	heapMax   uintptr
	eager     bool
}

// WithBackend overrides the OS backend an arena reserves memory through.
// Defaults to arenaos.Default(). Tests use this to plug in arenaos.NewFake.
func WithBackend(b arenaos.Backend) Option {
	return func(c *config) { c.backend = b }
}

// WithBlockSize overrides BLOCK_SIZE. Defaults to DefaultBlockSize (4 MiB).
// Tests shrink this so a region's full REGION_SIZE is a few KiB instead
// of 256 MiB, keeping fixture setup and -race runs fast.
func WithBlockSize(size uintptr) Option {
	return func(c *config) { c.blockSize = size }
}

// WithHeapMax overrides HEAP_MAX, the ceiling used to size the region
// table (N = HEAP_MAX / REGION_SIZE). Defaults to DefaultHeapMax.
func WithHeapMax(size uintptr) Option {
	return func(c *config) { c.heapMax = size }
}

// WithEagerCommit enables eager_region_commit: regions are committed in
// full at reserve time, and free resets ranges instead of decommitting
// them. Default is false (lazy per-claim commit, decommit on free).
func WithEagerCommit(eager bool) Option {
	return func(c *config) { c.eager = eager }
}

// NewArena builds a region arena with the given options. The region
// table is allocated up front (N descriptors, zero-valued — no region
// reserves backing memory until first claimed), matching spec's
// "statically sized at N" data model.
func NewArena(opts ...Option) *Arena {
	c := &config{
		backend:   arenaos.Default(),
		blockSize: DefaultBlockSize,
		heapMax:   DefaultHeapMax,
		eager:     false,
	}

	for _, opt := range opts {
		opt(c)
	}

	regionSize := regionSizeFor(c.blockSize)
	maxAlloc := maxAllocFor(c.blockSize)
	n := maxRegionsFor(c.heapMax, regionSize)

	if n <= 0 {
		n = 1
	}

	return &Arena{
		backend:     c.backend,
		blockSize:   c.blockSize,
		regionSize:  regionSize,
		regionAlign: regionSize,
		maxAlloc:    maxAlloc,
		eagerCommit: c.eager,
		regions:     make([]descriptor, n),
	}
}
