// Package ndistats implements the lock-free per-source counters from
// spec.md §4.6: relaxed-ordering atomics, reset on snapshot except the
// live "clients" gauge.
package ndistats

import (
	"fmt"
	"sync/atomic"
)

// Stats holds one source's counters. Zero value is ready to use.
type Stats struct {
	framesIn     atomic.Uint64
	framesOut    atomic.Uint64
	encodeTimeUs atomic.Uint64
	encodeCount  atomic.Uint64
	bytesOut     atomic.Uint64
	dropped      atomic.Uint64
	clients      atomic.Int64
}

func (s *Stats) AddFramesIn(n uint64)     { s.framesIn.Add(n) }
func (s *Stats) AddFramesOut(n uint64)    { s.framesOut.Add(n) }
func (s *Stats) AddEncodeTimeUs(n uint64) { s.encodeTimeUs.Add(n) }
func (s *Stats) AddEncodeCount(n uint64)  { s.encodeCount.Add(n) }
func (s *Stats) AddBytesOut(n uint64)     { s.bytesOut.Add(n) }
func (s *Stats) AddDropped(n uint64)      { s.dropped.Add(n) }

// IncClients/DecClients track live subscriber adapters (spec.md §3
// invariant: clients equals the number of live subscriptions).
func (s *Stats) IncClients() int64 { return s.clients.Add(1) }
func (s *Stats) DecClients() int64 { return s.clients.Add(-1) }
func (s *Stats) Clients() int64    { return s.clients.Load() }

// Snapshot is the result of SnapshotAndReset: derived rates plus the raw
// counters they were derived from.
type Snapshot struct {
	Clients      int64
	FramesIn     uint64
	FramesOut    uint64
	Dropped      uint64
	BytesOut     uint64
	FPSIn        float64
	FPSOut       float64
	AvgEncodeMs  float64
	KBPerSec     float64
}

// SnapshotAndReset atomically swaps every counter to zero except clients
// (which is only read), then derives rates over intervalSecs, per spec.md
// §4.6.
func (s *Stats) SnapshotAndReset(intervalSecs float64) Snapshot {
	framesIn := s.framesIn.Swap(0)
	framesOut := s.framesOut.Swap(0)
	encodeTimeUs := s.encodeTimeUs.Swap(0)
	encodeCount := s.encodeCount.Swap(0)
	bytesOut := s.bytesOut.Swap(0)
	dropped := s.dropped.Swap(0)

	snap := Snapshot{
		Clients:   s.clients.Load(),
		FramesIn:  framesIn,
		FramesOut: framesOut,
		Dropped:   dropped,
		BytesOut:  bytesOut,
	}
	if intervalSecs > 0 {
		snap.FPSIn = float64(framesIn) / intervalSecs
		snap.FPSOut = float64(framesOut) / intervalSecs
		snap.KBPerSec = (float64(bytesOut) / 1024) / intervalSecs
	}
	if encodeCount > 0 {
		snap.AvgEncodeMs = (float64(encodeTimeUs) / float64(encodeCount)) / 1000
	}
	return snap
}

// String matches the original's log-line shape: "N clients, F fps out, ...".
func (s Snapshot) String() string {
	return fmt.Sprintf(
		"%d clients, %.1f fps out, %.1f fps in, %.1f ms encode avg, %.0f KB/s, %d dropped",
		s.Clients, s.FPSOut, s.FPSIn, s.AvgEncodeMs, s.KBPerSec, s.Dropped,
	)
}
