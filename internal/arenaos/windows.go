//go:build windows

package arenaos

import (
	"sync"

	"golang.org/x/sys/windows"
)

// windowsBackend implements Backend on top of VirtualAlloc/VirtualFree/
// VirtualProtect, mirroring the teacher's platform-split convention
// (internal/runtime/asyncio keeps a parallel unix/windows pair per
// primitive rather than branching at call sites).
type windowsBackend struct {
	pageSize      uintptr
	largePageSize uintptr
}

var (
	windowsOnce    sync.Once
	windowsDefault *windowsBackend
)

// Default returns the process-wide OS backend for the current platform.
func Default() Backend {
	windowsOnce.Do(func() {
		var info windows.SystemInfo
		windows.GetSystemInfo(&info)

		large := windows.GetLargePageMinimum()
		if large == 0 {
			large = uintptr(info.PageSize)
		}

		windowsDefault = &windowsBackend{
			pageSize:      uintptr(info.PageSize),
			largePageSize: large,
		}
	})

	return windowsDefault
}

// ReserveAligned reserves size bytes of address space aligned to align.
// VirtualAlloc only guarantees allocation-granularity alignment (64KiB),
// so for a stricter alignment we over-reserve, free the whole range, and
// re-reserve at the aligned address — the standard MEM_RESERVE retry
// trick, since Windows has no atomic aligned-reserve primitive.
func (b *windowsBackend) ReserveAligned(size, align uintptr, commit bool) (uintptr, error) {
	allocType := uint32(windows.MEM_RESERVE)
	if commit {
		allocType |= windows.MEM_COMMIT
	}

	if align <= b.pageSize {
		addr, err := windows.VirtualAlloc(0, size, allocType, windows.PAGE_READWRITE)
		if err != nil {
			return 0, &ErrReserveFailed{Size: size, Align: align, Err: err}
		}

		return addr, nil
	}

	probe, err := windows.VirtualAlloc(0, size+align, uint32(windows.MEM_RESERVE), windows.PAGE_READWRITE)
	if err != nil {
		return 0, &ErrReserveFailed{Size: size, Align: align, Err: err}
	}

	aligned := AlignUp(probe, align)

	_ = windows.VirtualFree(probe, 0, windows.MEM_RELEASE)

	addr, err := windows.VirtualAlloc(aligned, size, allocType, windows.PAGE_READWRITE)
	if err != nil {
		return 0, &ErrReserveFailed{Size: size, Align: align, Err: err}
	}

	return addr, nil
}

func (b *windowsBackend) Free(addr, size uintptr) error {
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}

func (b *windowsBackend) Commit(addr, size uintptr) bool {
	_, err := windows.VirtualAlloc(addr, size, windows.MEM_COMMIT, windows.PAGE_READWRITE)
	return err == nil
}

func (b *windowsBackend) Decommit(addr, size uintptr) bool {
	return windows.VirtualFree(addr, size, windows.MEM_DECOMMIT) == nil
}

func (b *windowsBackend) Reset(addr, size uintptr) bool {
	_, err := windows.VirtualAlloc(addr, size, windows.MEM_RESET, windows.PAGE_READWRITE)
	return err == nil
}

func (b *windowsBackend) Unreset(addr, size uintptr) bool {
	_, err := windows.VirtualAlloc(addr, size, windows.MEM_RESET_UNDO, windows.PAGE_READWRITE)
	return err == nil
}

func (b *windowsBackend) Protect(addr, size uintptr) bool {
	var old uint32
	return windows.VirtualProtect(addr, size, windows.PAGE_NOACCESS, &old) == nil
}

func (b *windowsBackend) Unprotect(addr, size uintptr) bool {
	var old uint32
	return windows.VirtualProtect(addr, size, windows.PAGE_READWRITE, &old) == nil
}

func (b *windowsBackend) PageSize() uintptr      { return b.pageSize }
func (b *windowsBackend) LargePageSize() uintptr { return b.largePageSize }
