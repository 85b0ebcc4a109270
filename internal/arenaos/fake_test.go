package arenaos

import "testing"

func TestFakeBackendReserveAligned(t *testing.T) {
	t.Run("page aligned", func(t *testing.T) {
		b := NewFake(4096, 2*1024*1024)

		addr, err := b.ReserveAligned(8192, 4096, false)
		if err != nil {
			t.Fatalf("ReserveAligned: %v", err)
		}

		if addr%4096 != 0 {
			t.Fatalf("addr %#x not page aligned", addr)
		}
	})

	t.Run("large alignment", func(t *testing.T) {
		b := NewFake(4096, 2*1024*1024)

		addr, err := b.ReserveAligned(1<<20, 1<<20, false)
		if err != nil {
			t.Fatalf("ReserveAligned: %v", err)
		}

		if addr%(1<<20) != 0 {
			t.Fatalf("addr %#x not aligned to 1MiB", addr)
		}
	})

	t.Run("zero size rejected", func(t *testing.T) {
		b := NewFake(4096, 2*1024*1024)

		if _, err := b.ReserveAligned(0, 4096, false); err == nil {
			t.Fatal("expected error for zero size reservation")
		}
	})
}

func TestFakeBackendCommitDecommit(t *testing.T) {
	b := NewFake(4096, 2*1024*1024)

	addr, err := b.ReserveAligned(4096*4, 4096, false)
	if err != nil {
		t.Fatalf("ReserveAligned: %v", err)
	}

	if !b.Commit(addr, 4096*2) {
		t.Fatal("Commit failed")
	}

	if !b.Decommit(addr, 4096) {
		t.Fatal("Decommit failed")
	}

	if !b.Reset(addr+4096, 4096) {
		t.Fatal("Reset failed")
	}
}

func TestFakeBackendProtectUnprotect(t *testing.T) {
	b := NewFake(4096, 2*1024*1024)

	addr, err := b.ReserveAligned(4096, 4096, true)
	if err != nil {
		t.Fatalf("ReserveAligned: %v", err)
	}

	if !b.Protect(addr, 4096) {
		t.Fatal("Protect failed")
	}

	if !b.Unprotect(addr, 4096) {
		t.Fatal("Unprotect failed")
	}
}

func TestFakeBackendFreeUnknown(t *testing.T) {
	b := NewFake(4096, 2*1024*1024)

	if err := b.Free(0x1234, 4096); err == nil {
		t.Fatal("expected error freeing unknown address")
	}
}

func TestFakeBackendLargePageDistinctFromPageSize(t *testing.T) {
	b := NewFake(4096, 2*1024*1024)

	if b.PageSize() == b.LargePageSize() {
		t.Fatal("expected large page size to differ from page size in this fixture")
	}
}
