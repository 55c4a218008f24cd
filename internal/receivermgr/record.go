// Package receivermgr implements spec.md §4.4's receiver manager: a
// process-wide, reference-counted registry of active per-source workers.
package receivermgr

import (
	"sync/atomic"

	"github.com/hassler-labs/streambridge/internal/fanout"
	"github.com/hassler-labs/streambridge/internal/ndistats"
)

// Record is spec.md §3's "shared receiver record": the state held jointly by
// the manager's registry and every subscriber. Removing a record from the
// registry does not stop its worker, and the manager never calls RequestStop;
// the worker exits on its own once the record is idle, on a capture error, or
// when RequestStop has been called. Per spec.md §9's "cyclic reference risk" note, the record holds
// only the broadcast sender, stats, stop flag, and name — never a reference
// back to the worker or its native receiver handle.
type Record struct {
	SourceName string
	Stats      *ndistats.Stats
	Broadcast  *fanout.Broadcast

	stopFlag atomic.Bool
}

func newRecord(name string) *Record {
	return &Record{
		SourceName: name,
		Stats:      &ndistats.Stats{},
		Broadcast:  fanout.New(broadcastCapacity),
	}
}

// broadcastCapacity is fixed at 4 frames per spec.md §4.4.
const broadcastCapacity = 4

// RequestStop sets the stop flag; the worker observes it on its next loop
// iteration (spec.md §4.3 step 1).
func (r *Record) RequestStop() { r.stopFlag.Store(true) }

// StopRequested reports whether RequestStop has been called.
func (r *Record) StopRequested() bool { return r.stopFlag.Load() }

// Idle reports whether the record currently has zero live subscribers, by
// both of the signals spec.md §4.3 step 2 checks: the broadcast channel's
// subscriber count and the stats gauge.
func (r *Record) Idle() bool {
	return r.Broadcast.SubscriberCount() == 0 && r.Stats.Clients() == 0
}
