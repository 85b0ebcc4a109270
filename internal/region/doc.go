// Package region implements the region arena layer: a pool (one per
// Arena built by NewArena) of coarse virtual-memory regions, each subdivided by a single-word
// bitmap into fixed-size blocks that callers claim and release with
// lock-free atomic operations. It sits between the raw OS
// virtual-memory primitives (internal/arenaos) and whatever segment or
// object allocator a caller builds on top.
package region
