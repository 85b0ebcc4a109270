//go:build unix && !linux

package arenaos

import "golang.org/x/sys/unix"

// madviseFree falls back to MADV_DONTNEED on every unix target other
// than Linux, whether or not its x/sys binding exposes MADV_FREE; the
// range's pages are dropped eagerly
// instead of lazily, which is a correctness-preserving, merely less
// lazy substitute.
const madviseFree = unix.MADV_DONTNEED
