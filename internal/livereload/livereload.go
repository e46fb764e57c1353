// Package livereload pushes reload notifications to connected browsers over
// a websocket endpoint, used by the serve command after rebuilds.
package livereload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
)

// Endpoint is the websocket path the injected client script connects to.
const Endpoint = "/__plume/reload"

// Hub tracks connected clients and broadcasts reload messages to them.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	log   *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{conns: map[*websocket.Conn]struct{}{}, log: log}
}

// ServeHTTP upgrades the request to a websocket and holds it open until the
// client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Error("websocket accept failed", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("live reload client connected", "remote", r.RemoteAddr)

	// Drain until the client goes away; no inbound messages are expected.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close(websocket.StatusNormalClosure, "")
}

// Broadcast tells every connected client to reload. Clients that fail to
// receive are dropped.
func (h *Hub) Broadcast(ctx context.Context) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.Write(ctx, websocket.MessageText, []byte("reload")); err != nil {
			h.mu.Lock()
			delete(h.conns, c)
			h.mu.Unlock()
			c.Close(websocket.StatusGoingAway, "write failed")
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Script is the client snippet injected into served HTML pages.
func Script() string {
	return fmt.Sprintf(`<script>
(function() {
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + %q);
  ws.onmessage = function() { location.reload(); };
})();
</script>`, Endpoint)
}

// Inject inserts the client script before the closing body tag, or appends
// it when no body tag is present.
func Inject(page []byte) []byte {
	script := []byte(Script())
	if i := bytes.LastIndex(page, []byte("</body>")); i >= 0 {
		out := make([]byte, 0, len(page)+len(script))
		out = append(out, page[:i]...)
		out = append(out, script...)
		out = append(out, page[i:]...)
		return out
	}
	return append(page, script...)
}
