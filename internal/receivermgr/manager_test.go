package receivermgr

import (
	"log/slog"
	"testing"
)

// newTestManager builds a Manager with an empty private map that tests fill
// directly, bypassing GetOrCreate's NDI calls so registry bookkeeping can be
// tested without a loaded native runtime.
func newTestManager() *Manager {
	return &Manager{receivers: make(map[string]*Record), log: slog.Default()}
}

func TestMaybeRemoveOnlyWhenIdle(t *testing.T) {
	m := newTestManager()
	rec := newRecord("CAM1")
	m.receivers["CAM1"] = rec

	rec.Stats.IncClients()
	m.MaybeRemove("CAM1")
	if _, ok := m.receivers["CAM1"]; !ok {
		t.Fatal("expected record to survive MaybeRemove while clients > 0")
	}

	rec.Stats.DecClients()
	m.MaybeRemove("CAM1")
	if _, ok := m.receivers["CAM1"]; ok {
		t.Fatal("expected record to be removed once clients == 0")
	}
}

func TestRemoveIfCurrentIgnoresStaleRecord(t *testing.T) {
	m := newTestManager()
	original := newRecord("CAM1")
	m.receivers["CAM1"] = original

	stale := newRecord("CAM1")
	m.removeIfCurrent("CAM1", stale)
	if cur, ok := m.receivers["CAM1"]; !ok || cur != original {
		t.Fatal("removeIfCurrent must not delete a record it does not own")
	}

	m.removeIfCurrent("CAM1", original)
	if _, ok := m.receivers["CAM1"]; ok {
		t.Fatal("expected the current record's owner to remove it")
	}
}

func TestLookupAndActiveStats(t *testing.T) {
	m := newTestManager()
	if _, ok := m.lookup("CAM1"); ok {
		t.Fatal("expected empty registry to miss")
	}

	rec := newRecord("CAM1")
	m.receivers["CAM1"] = rec

	got, ok := m.lookup("CAM1")
	if !ok || got != rec {
		t.Fatal("expected lookup to return the inserted record")
	}

	stats := m.ActiveStats()
	if len(stats) != 1 || stats[0] != rec {
		t.Fatalf("expected ActiveStats to report exactly the one record, got %v", stats)
	}
}
