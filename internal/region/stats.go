package region

import "sync/atomic"

// Stats holds the atomic counters an upper layer can inspect to see what
// the region arena is doing. It is deliberately small: no history ring
// buffer, no alerting, no percentile tracking — those are upper-layer
// concerns the teacher's own MetricsCollector carries but this layer's
// scope excludes.
type Stats struct {
	claims           atomic.Uint64 // successful region-backed claims
	releases         atomic.Uint64 // successful frees (region-backed)
	reservations     atomic.Uint64 // OS reservations made (new regions backed)
	reservationLoses atomic.Uint64 // reservation races lost (own reservation freed)
	directAllocs     atomic.Uint64 // allocations that bypassed the region layer
	directFrees      atomic.Uint64 // frees that bypassed the region layer
	commitFailures   atomic.Uint64 // post-claim commits that failed
	oomErrors        atomic.Uint64 // hard OOM errors returned
}

// Snapshot is a point-in-time copy of Stats, safe to read without races.
type Snapshot struct {
	Claims           uint64
	Releases         uint64
	Reservations     uint64
	ReservationLoses uint64
	DirectAllocs     uint64
	DirectFrees      uint64
	CommitFailures   uint64
	OOMErrors        uint64
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Claims:           s.claims.Load(),
		Releases:         s.releases.Load(),
		Reservations:     s.reservations.Load(),
		ReservationLoses: s.reservationLoses.Load(),
		DirectAllocs:     s.directAllocs.Load(),
		DirectFrees:      s.directFrees.Load(),
		CommitFailures:   s.commitFailures.Load(),
		OOMErrors:        s.oomErrors.Load(),
	}
}
