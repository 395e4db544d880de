// Package gateway pushes fired-alert events to WebSocket clients.
// Fan-out is decoupled from the evaluation loop by an SPSC ring: the
// checker's Send never blocks on a slow client.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tradewatch/internal/metrics"
	"tradewatch/internal/model"
	"tradewatch/internal/ringbuf"
)

const (
	eventRingCapacity  = 1024
	replayBufferSize   = 500
	clientSendBacklog  = 64
	pumpFallbackPeriod = 500 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The gateway sits behind the operator's ingress; origin policy
	// belongs there.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// envelope is the wire frame for one pushed event.
type envelope struct {
	Type  string                `json:"type"`
	Seq   int64                 `json:"seq"`
	TS    string                `json:"ts"`
	Event model.AlertFiredEvent `json:"event"`
}

// Hub manages WebSocket clients and fans fired-alert events out to
// them. It implements model.Notifier so the checker treats it like any
// other notification channel.
type Hub struct {
	prom *metrics.Metrics

	ring   *ringbuf.Ring
	notify chan struct{}

	mu      sync.RWMutex
	clients map[*Client]bool
	seq     int64
	replay  *ReplayBuffer
}

// NewHub creates a hub. prom may be nil to disable instrumentation.
func NewHub(prom *metrics.Metrics) *Hub {
	return &Hub{
		prom:    prom,
		ring:    ringbuf.New(eventRingCapacity),
		notify:  make(chan struct{}, 1),
		clients: make(map[*Client]bool),
		replay:  NewReplayBuffer(replayBufferSize),
	}
}

// Send queues a fired-alert event for fan-out. Non-blocking; when the
// ring is full the event is dropped and counted, never stalled on.
func (h *Hub) Send(ctx context.Context, event model.AlertFiredEvent) error {
	if !h.ring.Push(event) {
		return fmt.Errorf("gateway: event ring full, dropped alert %s", event.AlertID)
	}
	select {
	case h.notify <- struct{}{}:
	default:
	}
	return nil
}

// Run drains the event ring and broadcasts. Blocks until ctx is
// cancelled. The fallback ticker catches the race where a Push lands
// between drain and wait.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(pumpFallbackPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.notify:
		case <-ticker.C:
		}
		for {
			event, ok := h.ring.Pop()
			if !ok {
				break
			}
			h.broadcast(event)
		}
	}
}

// broadcast assigns the event a sequence number, records it for
// replay and fans it out to matching clients.
func (h *Hub) broadcast(event model.AlertFiredEvent) {
	h.mu.Lock()
	h.seq++
	seq := h.seq
	h.mu.Unlock()

	frame, err := json.Marshal(envelope{
		Type:  "alert_fired",
		Seq:   seq,
		TS:    event.TriggeredAt.Format(time.RFC3339Nano),
		Event: event,
	})
	if err != nil {
		log.Printf("[gateway] marshal event %s: %v", event.AlertID, err)
		return
	}

	h.replay.Push(seq, event.OwnerID, frame)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if !client.wants(event.OwnerID) {
			continue
		}
		select {
		case client.send <- frame:
		default:
			// Slow client: drop this frame, the replay buffer covers it.
		}
	}
}

// HandleWS upgrades the HTTP connection and registers the client.
// Query params: owner scopes delivery to one owner's alerts,
// from_seq replays buffered events after that sequence number.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[gateway] ws upgrade: %v", err)
		return
	}

	client := &Client{
		conn:    conn,
		send:    make(chan []byte, clientSendBacklog),
		hub:     h,
		ownerID: r.URL.Query().Get("owner"),
	}

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()
	if h.prom != nil {
		h.prom.WSClients.Set(float64(count))
	}

	log.Printf("[gateway] ws client connected (%d total)", count)

	if fromStr := r.URL.Query().Get("from_seq"); fromStr != "" {
		if from, err := strconv.ParseInt(fromStr, 10, 64); err == nil {
			client.sendReplay(from)
		}
	}

	go client.writePump()
	go client.readPump()
}

// RemoveClient removes a client from the hub.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()
	if h.prom != nil {
		h.prom.WSClients.Set(float64(count))
	}
}

// ClientCount returns the number of connected WS clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CurrentSeq returns the sequence number of the last broadcast event.
func (h *Hub) CurrentSeq() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.seq
}
