// Package subscriber implements spec.md §4.5's subscriber adapter: the glue
// between one WebSocket session and a source's broadcast channel.
package subscriber

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/hassler-labs/streambridge/internal/discovery"
	"github.com/hassler-labs/streambridge/internal/fanout"
	"github.com/hassler-labs/streambridge/internal/hooks"
	"github.com/hassler-labs/streambridge/internal/ndierrors"
	"github.com/hassler-labs/streambridge/internal/receivermgr"
)

// CloseSourceNotFound and CloseSourceLost are the application-level
// WebSocket close codes spec.md §4.5/§6 fixes.
const (
	CloseSourceNotFound = 4404
	CloseSourceLost     = 4410
)

// Deps bundles the collaborators a session needs; constructed once per
// process and shared across sessions.
type Deps struct {
	Sources *discovery.List
	Manager *receivermgr.Manager
	Hooks   *hooks.Manager
}

// Serve runs one WebSocket session end to end: source lookup, get-or-create,
// subscribe, frame-forwarding loop, and teardown. It owns conn and closes it
// before returning.
func Serve(ctx context.Context, conn *websocket.Conn, sourceName, sessionID string, deps Deps, log *slog.Logger) {
	defer conn.Close()

	source, ok := deps.Sources.Find(sourceName)
	if !ok {
		err := ndierrors.NewSourceNotFoundError(sourceName, nil)
		log.Warn("source not found", "source", sourceName, "error", err)
		closeOnNotFound(conn, err)
		return
	}

	rec, recv, getErr := deps.Manager.Get(source)
	if getErr != nil {
		err := ndierrors.NewSourceNotFoundError(sourceName, getErr)
		log.Warn("failed to create receiver", "source", sourceName, "error", err)
		closeOnNotFound(conn, err)
		return
	}

	rec.Stats.IncClients()
	deps.Hooks.Fire(hooks.NewEvent(hooks.ClientConnected).WithSource(sourceName).WithSessionID(sessionID))
	log.Info("client connected", "source", sourceName)

	defer func() {
		recv.Unsubscribe()
		rec.Stats.DecClients()
		deps.Manager.MaybeRemove(sourceName)
		deps.Hooks.Fire(hooks.NewEvent(hooks.ClientDisconnected).WithSource(sourceName).WithSessionID(sessionID))
		log.Info("client disconnected", "source", sourceName)
	}()

	forward(ctx, conn, recv, sourceName, log)
}

func forward(ctx context.Context, conn *websocket.Conn, recv *fanout.Receiver, sourceName string, log *slog.Logger) {
	for {
		frame, err := recv.Recv(ctx)
		if err != nil {
			if lagged, ok := err.(*fanout.LaggedError); ok {
				log.Warn("client lagged", "source", sourceName, "frames", lagged.N)
				continue
			}
			if err == fanout.ErrClosed {
				log.Warn("source lost", "source", sourceName)
				closeWith(conn, CloseSourceLost, "source lost")
			}
			return
		}

		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return
		}
	}
}

func closeWith(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteMessage(websocket.CloseMessage, msg)
}

// closeOnNotFound selects the 4404 close code only for errors the chain
// classifies as *ndierrors.SourceNotFoundError, per spec.md §4.5 steps 1-2
// ("look up the source... on failure, close with 4404"). Any other error
// shape closes with the generic internal-error code instead of mislabeling
// it as a missing source.
func closeOnNotFound(conn *websocket.Conn, err error) {
	var notFound *ndierrors.SourceNotFoundError
	if errors.As(err, &notFound) {
		closeWith(conn, CloseSourceNotFound, "source not found")
		return
	}
	closeWith(conn, websocket.CloseInternalServerErr, err.Error())
}
