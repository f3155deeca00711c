package bus

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"samevibe-service/internal/observability"
)

// Conn is a live subscriber handle. *websocket.Conn satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Bus fans events out to every current subscriber of a named channel.
// Delivery is best-effort and at-most-once per subscriber per publish;
// a handle not subscribed at publish time never sees the event.
// Publishes can run concurrently, so a subscribed connection must
// tolerate writes from multiple goroutines — wrap raw websocket conns
// in a LockedConn before subscribing them.
type Bus interface {
	Subscribe(channel string, conn Conn)
	Unsubscribe(channel string, conn Conn)
	Publish(ctx context.Context, channel string, event interface{}) error
}

// Hub is the in-process half of the bus: a topic registry keyed by
// channel name. An optional Bridge extends fan-out to other workers.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[Conn]bool
	bridge   Bridge
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{channels: make(map[string]map[Conn]bool)}
}

// SetBridge attaches the cross-worker bridge. Call before serving.
func (h *Hub) SetBridge(bridge Bridge) {
	h.bridge = bridge
}

// Subscribe registers a connection on a channel.
func (h *Hub) Subscribe(channel string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[Conn]bool)
	}
	h.channels[channel][conn] = true
}

// Unsubscribe removes a connection from a channel.
func (h *Hub) Unsubscribe(channel string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.channels[channel]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.channels, channel)
		}
	}
}

// Publish delivers the event to local subscribers and forwards it to the
// bridge for subscribers on other workers. A bridge failure is logged and
// does not fail the publish: local delivery already happened and absent
// remote clients reconcile through the list endpoints.
func (h *Hub) Publish(ctx context.Context, channel string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.DeliverLocal(channel, payload)

	if h.bridge != nil {
		if err := h.bridge.Forward(ctx, channel, payload); err != nil {
			observability.IncBusPublishError()
			log.Printf("bus bridge forward failed channel=%s: %v", channel, err)
		}
	}
	return nil
}

// DeliverLocal writes the payload to every connection currently
// subscribed to the channel. Dead connections are closed and evicted.
func (h *Hub) DeliverLocal(channel string, payload []byte) {
	h.mu.RLock()
	conns := make([]Conn, 0, len(h.channels[channel]))
	for conn := range h.channels[channel] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.Unsubscribe(channel, conn)
		}
	}
}

// Subscribers reports how many connections a channel currently has.
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}
