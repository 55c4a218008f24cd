// Package httpapi wires the HTTP surface spec.md §6 describes: GET /sources,
// GET /, and the GET /ws upgrade, fronted by a permissive CORS layer.
package httpapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hassler-labs/streambridge/internal/bufpool"
	"github.com/hassler-labs/streambridge/internal/discovery"
	"github.com/hassler-labs/streambridge/internal/logger"
	"github.com/hassler-labs/streambridge/internal/subscriber"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewRouter builds the HTTP handler for the whole service.
func NewRouter(sources *discovery.List, deps subscriber.Deps, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/sources", handleSources(sources))
	mux.HandleFunc("/ws", handleWS(deps, log))
	mux.HandleFunc("/", handleTestPage)
	return withCORS(mux)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

func handleSources(sources *discovery.List) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := sources.Snapshot()
		names := make([]string, len(snapshot))
		for i, s := range snapshot {
			names[i] = s.Name
		}

		raw := bufpool.Get(4096)
		defer bufpool.Put(raw)
		buf := bytes.NewBuffer(raw[:0])

		if err := json.NewEncoder(buf).Encode(names); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(buf.Bytes())
	}
}

func handleWS(deps subscriber.Deps, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sourceName := r.URL.Query().Get("source")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", "error", err)
			return
		}

		sessionID := uuid.NewString()
		sessionLog := logger.WithSource(logger.WithSession(log, sessionID, r.RemoteAddr), sourceName)

		subscriber.Serve(r.Context(), conn, sourceName, sessionID, deps, sessionLog)
	}
}

func handleTestPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(testPageHTML))
}
