package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/promptlab/promptlab/internal/domain/event"
	porteventbus "github.com/promptlab/promptlab/internal/port/eventbus"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub pushes change events to connected WebSocket clients. A client may
// narrow the stream with ?types=prompt_created,prompt_deleted.
type Hub struct {
	clients map[*websocket.Conn]map[event.Type]bool
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]map[event.Type]bool),
	}
}

func (h *Hub) Register(rg *gin.RouterGroup) {
	rg.GET("", h.handleWS)
}

// Attach subscribes the hub to bus; events are broadcast until the returned
// subscription is cancelled.
func (h *Hub) Attach(ctx context.Context, bus porteventbus.EventBus) (porteventbus.Subscription, error) {
	return bus.Subscribe(ctx, func(_ context.Context, e event.Event) {
		h.Broadcast(e)
	})
}

func (h *Hub) handleWS(c *gin.Context) {
	filter := parseTypes(c.Query("types"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = filter
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast sends e to every client whose filter admits it. Only one
// goroutine (the bus subscription) calls Broadcast, so writes never overlap.
func (h *Hub) Broadcast(e event.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("websocket broadcast marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn, filter := range h.clients {
		if len(filter) > 0 && !filter[e.Type] {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Error("websocket write failed", "error", err)
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func parseTypes(raw string) map[event.Type]bool {
	if raw == "" {
		return nil
	}
	out := make(map[event.Type]bool)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out[event.Type(t)] = true
		}
	}
	return out
}
