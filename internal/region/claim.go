package region

import "github.com/orizon-lang/regionarena/internal/arenaos"

// claimResult carries out a successful claim within one region.
type claimResult struct {
	addr uintptr
	id   ID
}

// tryClaim attempts to claim b contiguous blocks within region idx for a
// request of size bytes with the given commit flag. It returns
// (result, true, nil) on success, (zero, false, nil) on a soft "no fit"
// (region.map holds no run of b zero bits), or (zero, false, err) on a
// hard OOM from the backing-memory reservation. This is spec §4.2 in
// full: find run, CAS claim, lazily reserve backing memory with
// race resolution, conditionally commit, publish the cursor.
func (a *Arena) tryClaim(idx, b int, size uintptr, commit bool) (claimResult, bool, error) {
	d := &a.regions[idx]

	// Step 1 + 2: find a run of b zero bits and CAS-claim it, retrying on
	// concurrent writers until either we win or no run remains.
	var i int

	for {
		current := d.bitmap.Load()

		if current == ^uint64(0) {
			return claimResult{}, false, nil
		}

		pos, ok := findRun(current, b)
		if !ok {
			return claimResult{}, false, nil
		}

		newmap := current | blockMask(b, pos)
		if d.bitmap.CompareAndSwap(current, newmap) {
			i = pos
			break
		}
	}

	// Step 3: ensure backing memory is reserved.
	start := d.start.Load()
	if start == 0 {
		reserved, err := a.backend.ReserveAligned(a.regionSize, a.regionAlign, a.eagerCommit)
		if err != nil {
			a.unclaim(idx, b, i)
			a.stats.oomErrors.Add(1)

			return claimResult{}, false, &AllocationError{
				Code: ErrOutOfMemory, Message: "region reservation failed",
				Size: size, Region: idx,
			}
		}

		if d.start.CompareAndSwap(0, reserved) {
			a.regionsCount.Add(1)
			a.stats.reservations.Add(1)
			start = reserved
		} else {
			// Lost the race: another thread published start first. Free our
			// reservation and adopt theirs (spec §4.2 step 3).
			_ = a.backend.Free(reserved, a.regionSize)
			a.stats.reservationLoses.Add(1)
			start = d.start.Load()
		}
	}

	addr := start + uintptr(i)*a.blockSize

	// Step 4: commit the claimed sub-range if requested and not already
	// eagerly committed in full at reserve time.
	if commit && !a.eagerCommit {
		commitSize := arenaos.AlignUp(size, a.backend.LargePageSize())
		if !a.backend.Commit(addr, commitSize) {
			a.stats.commitFailures.Add(1)
			// Not propagated as an error: the claim stands, matching the
			// source's behavior (spec §4.2 step 4, §7).
		}
	}

	// Step 5: publish the cursor so the next call starts here.
	a.nextIdx.Store(int64(idx))

	a.stats.claims.Add(1)

	return claimResult{addr: addr, id: ID(idx)*wordBits + ID(i)}, true, nil
}

// unclaim clears bits [bit, bit+b) with a CAS retry loop. Used to roll
// back a claim when the subsequent backing-memory reservation fails.
func (a *Arena) unclaim(idx, b, bit int) {
	d := &a.regions[idx]
	m := blockMask(b, bit)

	for {
		current := d.bitmap.Load()
		if d.bitmap.CompareAndSwap(current, current&^m) {
			return
		}
	}
}
