package allocator

import (
	"testing"

	"github.com/orizon-lang/regionarena/internal/arenaos"
	"github.com/orizon-lang/regionarena/internal/region"
)

func newTestRegionArena(t *testing.T) *region.Arena {
	t.Helper()

	return region.NewArena(
		region.WithBackend(arenaos.NewFake(64, 256)),
		region.WithBlockSize(64),
		region.WithHeapMax(64*64*4),
	)
}

func TestArenaAllocBumpsPointer(t *testing.T) {
	ra := newTestRegionArena(t)

	a, err := NewArenaAllocator(1024, DefaultConfig(), ra)
	if err != nil {
		t.Fatalf("NewArenaAllocator: %v", err)
	}
	defer a.Close()

	p1 := a.Alloc(16)
	if p1 == nil {
		t.Fatal("Alloc returned nil")
	}

	p2 := a.Alloc(16)
	if p2 == nil {
		t.Fatal("Alloc returned nil")
	}

	if p1 == p2 {
		t.Fatal("successive allocations returned the same pointer")
	}

	if got := a.Used(); got != 32 {
		t.Fatalf("Used() = %d, want 32", got)
	}
}

func TestArenaAllocFailsWhenFull(t *testing.T) {
	ra := newTestRegionArena(t)

	a, err := NewArenaAllocator(64, DefaultConfig(), ra)
	if err != nil {
		t.Fatalf("NewArenaAllocator: %v", err)
	}
	defer a.Close()

	if p := a.Alloc(64); p == nil {
		t.Fatal("Alloc(64) on a 64-byte arena failed")
	}

	if p := a.Alloc(1); p != nil {
		t.Fatal("Alloc should fail once the arena is full")
	}
}

func TestArenaResetReclaimsSpace(t *testing.T) {
	ra := newTestRegionArena(t)

	a, err := NewArenaAllocator(64, DefaultConfig(), ra)
	if err != nil {
		t.Fatalf("NewArenaAllocator: %v", err)
	}
	defer a.Close()

	a.Alloc(64)
	a.Reset()

	if got := a.Used(); got != 0 {
		t.Fatalf("Used() after Reset = %d, want 0", got)
	}
}

func TestArenaCloseReturnsBlockToRegion(t *testing.T) {
	ra := newTestRegionArena(t)

	a, err := NewArenaAllocator(64, DefaultConfig(), ra)
	if err != nil {
		t.Fatalf("NewArenaAllocator: %v", err)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	snap := ra.Stats().Snapshot()
	if snap.Releases == 0 {
		t.Fatal("expected Close to record a release")
	}
}

func TestSubArenaClaimsOwnBlock(t *testing.T) {
	ra := newTestRegionArena(t)

	parent, err := NewArenaAllocator(128, DefaultConfig(), ra)
	if err != nil {
		t.Fatalf("NewArenaAllocator: %v", err)
	}
	defer parent.Close()

	child, err := parent.SubArena(64)
	if err != nil {
		t.Fatalf("SubArena: %v", err)
	}
	defer child.Close()

	if child.Size() != 64 {
		t.Fatalf("child.Size() = %d, want 64", child.Size())
	}
}
