package ndistats

import "testing"

func TestSnapshotAndResetDerivation(t *testing.T) {
	var s Stats
	s.AddFramesIn(300)
	s.AddFramesOut(250)
	s.AddEncodeTimeUs(250 * 4000) // 4ms per frame
	s.AddEncodeCount(250)
	s.AddBytesOut(1024 * 100)
	s.AddDropped(50)
	s.IncClients()
	s.IncClients()

	snap := s.SnapshotAndReset(10)

	if snap.Clients != 2 {
		t.Fatalf("expected clients=2, got %d", snap.Clients)
	}
	if snap.FPSIn != 30 {
		t.Fatalf("expected fps_in=30, got %f", snap.FPSIn)
	}
	if snap.FPSOut != 25 {
		t.Fatalf("expected fps_out=25, got %f", snap.FPSOut)
	}
	if snap.AvgEncodeMs != 4 {
		t.Fatalf("expected avg_encode_ms=4, got %f", snap.AvgEncodeMs)
	}
	if snap.KBPerSec != 10 {
		t.Fatalf("expected kb_per_sec=10, got %f", snap.KBPerSec)
	}
	if snap.Dropped != 50 {
		t.Fatalf("expected dropped=50, got %d", snap.Dropped)
	}

	// Second snapshot: everything except clients must be back to zero.
	snap2 := s.SnapshotAndReset(10)
	if snap2.FramesIn != 0 || snap2.FramesOut != 0 || snap2.Dropped != 0 {
		t.Fatalf("expected counters reset, got %+v", snap2)
	}
	if snap2.Clients != 2 {
		t.Fatalf("clients must survive snapshot as a live gauge, got %d", snap2.Clients)
	}

	s.DecClients()
	if s.Clients() != 1 {
		t.Fatalf("expected clients=1 after DecClients, got %d", s.Clients())
	}
}

func TestSnapshotZeroEncodeCount(t *testing.T) {
	var s Stats
	snap := s.SnapshotAndReset(5)
	if snap.AvgEncodeMs != 0 {
		t.Fatalf("expected avg_encode_ms=0 when encode_count=0, got %f", snap.AvgEncodeMs)
	}
}
