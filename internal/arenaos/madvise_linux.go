//go:build linux

package arenaos

import "golang.org/x/sys/unix"

// madviseFree is the cheapest "this range's contents are disposable"
// hint: Linux reclaims the pages lazily and they stay committed until
// the kernel actually needs them back, unlike MADV_DONTNEED which
// unmaps immediately.
const madviseFree = unix.MADV_FREE
