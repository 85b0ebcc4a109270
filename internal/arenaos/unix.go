//go:build unix

package arenaos

import (
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// unixBackend implements Backend on top of mmap/mprotect/madvise, the
// primitives every POSIX target (Linux, Darwin, the BSDs) provides.
type unixBackend struct {
	pageSize      uintptr
	largePageSize uintptr
}

var (
	unixOnce    sync.Once
	unixDefault *unixBackend
)

// Default returns the process-wide OS backend for the current platform.
func Default() Backend {
	unixOnce.Do(func() {
		unixDefault = &unixBackend{
			pageSize:      uintptr(os.Getpagesize()),
			largePageSize: defaultLargePageSize(),
		}
	})

	return unixDefault
}

// ReserveAligned reserves size bytes of address space aligned to align.
// mmap only guarantees page alignment, so for align > page size we
// over-map and trim the unused head/tail, mirroring the aligned-mmap
// trick used throughout the retrieval pack's mmap-backed allocators.
func (b *unixBackend) ReserveAligned(size, align uintptr, commit bool) (uintptr, error) {
	prot := unix.PROT_NONE
	if commit {
		prot = unix.PROT_READ | unix.PROT_WRITE
	}

	if align <= b.pageSize {
		data, err := unix.Mmap(-1, 0, int(size), prot, unix.MAP_ANON|unix.MAP_PRIVATE)
		if err != nil {
			return 0, &ErrReserveFailed{Size: size, Align: align, Err: err}
		}

		return dataAddr(data), nil
	}

	overSize := size + align

	data, err := unix.Mmap(-1, 0, int(overSize), prot, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, &ErrReserveFailed{Size: size, Align: align, Err: err}
	}

	base := dataAddr(data)
	aligned := AlignUp(base, align)

	if head := aligned - base; head > 0 {
		_ = unix.Munmap(mmapSlice(base, head))
	}

	if tail := (base + overSize) - (aligned + size); tail > 0 {
		_ = unix.Munmap(mmapSlice(aligned+size, tail))
	}

	return aligned, nil
}

func (b *unixBackend) Free(addr, size uintptr) error {
	return unix.Munmap(mmapSlice(addr, size))
}

func (b *unixBackend) Commit(addr, size uintptr) bool {
	return unix.Mprotect(mmapSlice(addr, size), unix.PROT_READ|unix.PROT_WRITE) == nil
}

func (b *unixBackend) Decommit(addr, size uintptr) bool {
	if unix.Madvise(mmapSlice(addr, size), unix.MADV_DONTNEED) != nil {
		return false
	}

	return unix.Mprotect(mmapSlice(addr, size), unix.PROT_NONE) == nil
}

func (b *unixBackend) Reset(addr, size uintptr) bool {
	return unix.Madvise(mmapSlice(addr, size), madviseFree) == nil
}

func (b *unixBackend) Unreset(addr, size uintptr) bool {
	// Contents are lazily re-backed by the kernel on next touch; there is
	// no POSIX "un-discard" primitive to call.
	return true
}

func (b *unixBackend) Protect(addr, size uintptr) bool {
	return unix.Mprotect(mmapSlice(addr, size), unix.PROT_NONE) == nil
}

func (b *unixBackend) Unprotect(addr, size uintptr) bool {
	return unix.Mprotect(mmapSlice(addr, size), unix.PROT_READ|unix.PROT_WRITE) == nil
}

func (b *unixBackend) PageSize() uintptr      { return b.pageSize }
func (b *unixBackend) LargePageSize() uintptr { return b.largePageSize }

func dataAddr(data []byte) uintptr {
	if len(data) == 0 {
		return 0
	}

	return uintptr(unsafe.Pointer(&data[0]))
}

// mmapSlice reconstructs the []byte view mmap/munmap/mprotect/madvise
// expect from a bare address and length. The memory is owned by the
// kernel mapping, not the Go allocator, so this is safe as long as
// addr/size describe a range this backend itself mapped.
func mmapSlice(addr, size uintptr) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size))
}

func defaultLargePageSize() uintptr {
	const defaultHugePage = 2 * 1024 * 1024 // 2MiB, the common x86-64/arm64 huge page size.

	return defaultHugePage
}
