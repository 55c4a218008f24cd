package receivermgr

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/hassler-labs/streambridge/internal/fanout"
	"github.com/hassler-labs/streambridge/internal/ndiapi"
	"github.com/hassler-labs/streambridge/internal/ndierrors"
)

// SpawnFunc starts the worker goroutine for a newly created record. It must
// call onExit exactly once, on every exit path, after it has finished using
// recv. Injected rather than imported directly so this package never depends
// on internal/worker (which itself depends on receivermgr.Record).
type SpawnFunc func(ctx context.Context, rec *Record, recv *ndiapi.ReceiveInstance, onExit func())

// Manager is spec.md §4.4's receiver manager: "process-wide registry of
// active workers keyed by source name; atomic get-or-create; idle reaping;
// stats exposure." The registry lock (mu) protects only the map — frame
// publishing never holds it (spec.md §4.4: "the registry lock protects only
// the map").
type Manager struct {
	ndi     *ndiapi.Instance
	spawn   SpawnFunc
	log     *slog.Logger
	rootCtx context.Context

	mu        sync.RWMutex
	receivers map[string]*Record

	sf singleflight.Group
}

// New constructs a manager bound to an initialized NDI instance. spawn is
// responsible for starting the worker goroutine with whatever FPS/quality
// configuration and hook manager the caller has wired up; this package does
// not know about either.
func New(ctx context.Context, ndi *ndiapi.Instance, spawn SpawnFunc, log *slog.Logger) *Manager {
	return &Manager{
		ndi:       ndi,
		spawn:     spawn,
		log:       log,
		rootCtx:   ctx,
		receivers: make(map[string]*Record),
	}
}

// GetOrCreate returns the existing record for source, or atomically
// constructs one: creates a receiver handle (bandwidth=highest,
// color_format=fastest per spec.md §4.4), connects it, allocates the
// broadcast channel, spawns the worker, and inserts the record. Concurrent
// calls for the same source name collapse into a single construction via
// singleflight, satisfying spec.md §8 invariant 5 (singleton worker) without
// a second lock layered over the registry mutex.
func (m *Manager) GetOrCreate(source ndiapi.Source) (*Record, error) {
	if rec, ok := m.lookup(source.Name); ok {
		return rec, nil
	}

	v, err, _ := m.sf.Do(source.Name, func() (interface{}, error) {
		if rec, ok := m.lookup(source.Name); ok {
			return rec, nil
		}

		recv, err := m.ndi.CreateReceiver(ndiapi.RecvBandwidthHighest, ndiapi.RecvColorFormatFastest)
		if err != nil {
			return nil, ndierrors.NewRuntimeError("recv_create_v3", err)
		}
		recv.Connect(source)

		rec := newRecord(source.Name)

		m.mu.Lock()
		m.receivers[source.Name] = rec
		m.mu.Unlock()

		m.log.Info("receiver created", "source", source.Name)

		done := func() { m.removeIfCurrent(source.Name, rec) }
		m.spawn(m.rootCtx, rec, recv, done)

		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

// Get resolves source to a live subscription: it calls GetOrCreate and
// subscribes to the resulting record's broadcast channel. If the record it
// found has already closed its broadcast (the worker won a race against
// this call and tore itself down — spec.md §5 "racing teardown vs.
// resubscribe"), Get makes exactly one further GetOrCreate attempt before
// giving up, per SPEC_FULL.md §6's resolution of that Open Question. No new
// synchronization primitive is introduced; it is a plain retry.
func (m *Manager) Get(source ndiapi.Source) (*Record, *fanout.Receiver, error) {
	for attempt := 0; attempt < 2; attempt++ {
		rec, err := m.GetOrCreate(source)
		if err != nil {
			return nil, nil, err
		}
		recv, ok := rec.Broadcast.Subscribe()
		if ok {
			return rec, recv, nil
		}
		m.removeIfCurrent(source.Name, rec)
	}
	return nil, nil, ndierrors.NewRuntimeError("get_or_create", nil)
}

func (m *Manager) lookup(name string) (*Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.receivers[name]
	return rec, ok
}

// ActiveStats returns a snapshot of (name, record) for every active source,
// used by the periodic stats-logging task.
func (m *Manager) ActiveStats() []*Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Record, 0, len(m.receivers))
	for _, rec := range m.receivers {
		out = append(out, rec)
	}
	return out
}

// MaybeRemove drops name from the registry if it exists and has zero
// clients. Advisory: the worker's self-removal on idle is authoritative
// (spec.md §4.4).
func (m *Manager) MaybeRemove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.receivers[name]
	if ok && rec.Stats.Clients() == 0 {
		delete(m.receivers, name)
	}
}

// removeIfCurrent deletes name from the registry only if the stored record
// is still the one the exiting worker owned, so a worker racing its own
// removal against a newly spawned replacement (spec.md §5 "racing teardown
// vs. resubscribe") never deletes someone else's record.
func (m *Manager) removeIfCurrent(name string, rec *Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.receivers[name]; ok && cur == rec {
		delete(m.receivers, name)
		m.log.Info("receiver removed", "source", name)
	}
}
