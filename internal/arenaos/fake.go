package arenaos

import (
	"fmt"
	"sync"
)

// NewFake returns an in-memory Backend that never calls into the kernel.
// It keeps a heap-allocated []byte per reservation as a shadow, so
// Commit, Decommit, Reset and Protect are bookkeeping only — no real
// page protection is applied. The addresses it returns are synthetic
// (handed out from a counter, not the shadow buffer's address) and must
// not be dereferenced. Tests use it so a race-detector run doesn't have
// to actually map 256 MiB of address space per region.
func NewFake(pageSize, largePageSize uintptr) Backend {
	if pageSize == 0 {
		pageSize = 4096
	}

	if largePageSize == 0 {
		largePageSize = pageSize
	}

	return &fakeBackend{
		pageSize:      pageSize,
		largePageSize: largePageSize,
		regions:       make(map[uintptr]*fakeRegion),
		next:          pageSize, // keep 0 reserved as the "no address" sentinel
	}
}

type fakeRegion struct {
	buf        []byte
	committed  []bool // per-page commit state
	accessible []bool // per-page protect state
}

type fakeBackend struct {
	mu            sync.Mutex
	pageSize      uintptr
	largePageSize uintptr
	regions       map[uintptr]*fakeRegion
	next          uintptr
}

func (b *fakeBackend) ReserveAligned(size, align uintptr, commit bool) (uintptr, error) {
	if size == 0 {
		return 0, &ErrReserveFailed{Size: size, Align: align, Err: fmt.Errorf("zero size")}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	addr := AlignUp(b.next, align)
	b.next = addr + size

	pages := int(AlignUp(size, b.pageSize) / b.pageSize)

	region := &fakeRegion{
		buf:        make([]byte, size),
		committed:  make([]bool, pages),
		accessible: make([]bool, pages),
	}

	for i := range region.committed {
		region.committed[i] = commit
		region.accessible[i] = commit
	}

	b.regions[addr] = region

	return addr, nil
}

func (b *fakeBackend) Free(addr, size uintptr) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.regions[addr]; !ok {
		return fmt.Errorf("arenaos: fake free of unknown address %#x", addr)
	}

	delete(b.regions, addr)

	return nil
}

func (b *fakeBackend) withPages(addr, size uintptr, fn func(r *fakeRegion, lo, hi int)) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for base, r := range b.regions {
		if addr < base || addr+size > base+uintptr(len(r.buf)) {
			continue
		}

		lo := int((addr - base) / b.pageSize)
		hi := int(AlignUp((addr-base)+size, b.pageSize) / b.pageSize)

		fn(r, lo, hi)

		return true
	}

	return false
}

func (b *fakeBackend) Commit(addr, size uintptr) bool {
	return b.withPages(addr, size, func(r *fakeRegion, lo, hi int) {
		for i := lo; i < hi && i < len(r.committed); i++ {
			r.committed[i] = true
			r.accessible[i] = true
		}
	})
}

func (b *fakeBackend) Decommit(addr, size uintptr) bool {
	return b.withPages(addr, size, func(r *fakeRegion, lo, hi int) {
		for i := lo; i < hi && i < len(r.committed); i++ {
			r.committed[i] = false
			r.accessible[i] = false
		}
	})
}

func (b *fakeBackend) Reset(addr, size uintptr) bool {
	return b.withPages(addr, size, func(r *fakeRegion, lo, hi int) {
		for i := lo; i < hi && i < len(r.committed); i++ {
			start := i * int(b.pageSize)
			end := start + int(b.pageSize)

			if end > len(r.buf) {
				end = len(r.buf)
			}

			for j := start; j < end; j++ {
				r.buf[j] = 0
			}
		}
	})
}

func (b *fakeBackend) Unreset(addr, size uintptr) bool {
	return b.withPages(addr, size, func(r *fakeRegion, lo, hi int) {})
}

func (b *fakeBackend) Protect(addr, size uintptr) bool {
	return b.withPages(addr, size, func(r *fakeRegion, lo, hi int) {
		for i := lo; i < hi && i < len(r.accessible); i++ {
			r.accessible[i] = false
		}
	})
}

func (b *fakeBackend) Unprotect(addr, size uintptr) bool {
	return b.withPages(addr, size, func(r *fakeRegion, lo, hi int) {
		for i := lo; i < hi && i < len(r.accessible); i++ {
			r.accessible[i] = true
		}
	})
}

func (b *fakeBackend) PageSize() uintptr      { return b.pageSize }
func (b *fakeBackend) LargePageSize() uintptr { return b.largePageSize }
