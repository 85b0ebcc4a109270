package region

// AllocateAligned is the top-level allocate-aligned entry point (spec
// §4.3). It returns a pointer and an id the caller must present
// unchanged to Free. A nil-valued return (addr == 0) with a non-nil
// error indicates a hard OOM or an invalid size/alignment (see the
// error's Code); a nil-valued return with a nil error never happens — every code path either places the allocation or errors.
func (a *Arena) AllocateAligned(size, alignment uintptr, commit bool) (uintptr, ID, error) {
	if size == 0 {
		return 0, 0, &AllocationError{Code: ErrInvalidSize, Message: "size must be > 0", Size: size, Region: -1}
	}

	if alignment == 0 || alignment&(alignment-1) != 0 {
		return 0, 0, &AllocationError{
			Code: ErrInvalidAlignment, Message: "alignment must be a power of two",
			Alignment: alignment, Size: size, Region: -1,
		}
	}

	if size > a.maxAlloc || alignment > a.blockSize {
		return a.allocateDirect(size, alignment)
	}

	pageSize := a.backend.PageSize()
	rounded := roundUpPage(size, pageSize)
	b := blockCountOf(rounded, a.blockSize)

	count := int(a.regionsCount.Load())
	start := int(a.nextIdx.Load())

	// First sweep: existing (possibly-initialized) regions, round-robin
	// from the cursor to spread contention across bitmaps.
	if count > 0 {
		for visited := 0; visited < count; visited++ {
			idx := (start + visited) % count

			d := &a.regions[idx]
			if d.bitmap.Load() == ^uint64(0) {
				continue
			}

			res, ok, err := a.tryClaim(idx, b, rounded, commit)
			if err != nil {
				return 0, 0, err
			}

			if ok {
				return res.addr, res.id, nil
			}
		}
	}

	// Second sweep: extension into never-yet-reserved regions.
	for idx := count; idx < len(a.regions); idx++ {
		res, ok, err := a.tryClaim(idx, b, rounded, commit)
		if err != nil {
			return 0, 0, err
		}

		if ok {
			return res.addr, res.id, nil
		}
	}

	return a.allocateDirect(size, alignment)
}

// Allocate is AllocateAligned with the region's natural alignment
// (BLOCK_SIZE), the common case for callers that don't need anything
// stricter than a region-backed block's own alignment: a claimed span
// starts at start + i*BLOCK_SIZE, which is only guaranteed aligned to
// BLOCK_SIZE, not to the full REGION_ALIGN, once i != 0.
func (a *Arena) Allocate(size uintptr, commit bool) (uintptr, ID, error) {
	return a.AllocateAligned(size, a.blockSize, commit)
}

func (a *Arena) allocateDirect(size, alignment uintptr) (uintptr, ID, error) {
	addr, err := a.backend.ReserveAligned(size, alignment, true)
	if err != nil {
		a.stats.oomErrors.Add(1)

		return 0, 0, &AllocationError{
			Code: ErrOutOfMemory, Message: "direct OS allocation failed",
			Size: size, Alignment: alignment, Region: -1,
		}
	}

	a.stats.directAllocs.Add(1)

	return addr, DirectID, nil
}

func roundUpPage(size, pageSize uintptr) uintptr {
	if pageSize == 0 {
		return size
	}

	return (size + pageSize - 1) &^ (pageSize - 1)
}
