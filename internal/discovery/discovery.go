// Package discovery runs the background NDI source-discovery loop: a
// dedicated goroutine that blocks on the finder's wait-for-sources call and
// republishes the current source list whenever it changes.
package discovery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hassler-labs/streambridge/internal/ndiapi"
)

// waitTimeout bounds each find_wait_for_sources call, grounded on the
// original's start_discovery loop (wait_for_sources(2000)).
const waitTimeout = 2000 * time.Millisecond

// List is a concurrency-safe snapshot of the most recently discovered
// sources, the Go analog of the original's Arc<RwLock<Vec<Source>>>.
type List struct {
	mu      sync.RWMutex
	sources []ndiapi.Source
}

// Snapshot returns the current source list. The returned slice must not be
// mutated by the caller.
func (l *List) Snapshot() []ndiapi.Source {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sources
}

// Find returns the source with the given name, or false if not currently
// known (spec.md §4.5 step 1: "look up the source in the discovery
// snapshot").
func (l *List) Find(name string) (ndiapi.Source, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, s := range l.sources {
		if s.Name == name {
			return s, true
		}
	}
	return ndiapi.Source{}, false
}

func (l *List) set(sources []ndiapi.Source) {
	l.mu.Lock()
	l.sources = sources
	l.mu.Unlock()
}

// Start spawns the discovery goroutine and returns the shared list it keeps
// current. The goroutine runs until ctx is canceled.
func Start(ctx context.Context, find *ndiapi.FindInstance, log *slog.Logger) *List {
	list := &List{}

	go func() {
		log.Info("discovery started")
		for {
			select {
			case <-ctx.Done():
				log.Info("discovery stopped")
				return
			default:
			}

			if find.WaitForSources(uint32(waitTimeout.Milliseconds())) {
				current := find.CurrentSources()
				log.Debug("discovered sources", "count", len(current))
				list.set(current)
			}
		}
	}()

	return list
}
