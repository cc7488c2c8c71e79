// Package progress tracks render progress as pixels complete and
// optionally broadcasts it over websocket to any connected viewer.
package progress

import (
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Tracker is an atomic pixel counter safe for concurrent increments from
// every generator worker.
type Tracker struct {
	done  int64
	total int64
}

// NewTracker builds a Tracker for a render of total pixels.
func NewTracker(total int) *Tracker {
	return &Tracker{total: int64(total)}
}

// Add increments the completed-pixel count by n.
func (t *Tracker) Add(n int64) {
	atomic.AddInt64(&t.done, n)
}

// Frame is one progress snapshot, serialized to JSON for the websocket
// broadcast.
type Frame struct {
	Type    string  `json:"type"`
	Done    int64   `json:"done"`
	Total   int64   `json:"total"`
	Percent float64 `json:"percent"`
}

// Snapshot returns the current progress as a Frame.
func (t *Tracker) Snapshot() Frame {
	done := atomic.LoadInt64(&t.done)
	total := atomic.LoadInt64(&t.total)
	percent := 0.0
	if total > 0 {
		percent = float64(done) / float64(total) * 100
	}
	return Frame{Type: "progress", Done: done, Total: total, Percent: percent}
}

// Done reports whether every pixel has been accounted for.
func (t *Tracker) Done() bool {
	return atomic.LoadInt64(&t.done) >= atomic.LoadInt64(&t.total)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Broadcaster fans out progress Frames to every connected websocket
// client, using a per-connection write mutex alongside the registry lock
// so concurrent broadcasts never interleave writes to the same socket.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

// NewBroadcaster builds an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[*websocket.Conn]*sync.Mutex)}
}

// HandleWebSocket upgrades the connection and registers it for broadcasts
// until the client disconnects.
func (b *Broadcaster) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("progress: websocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	b.mu.Lock()
	b.clients[conn] = connMutex
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.clients, conn)
		b.mu.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends frame to every connected client, dropping and
// unregistering any connection that errors on write.
func (b *Broadcaster) Broadcast(frame Frame) {
	b.mu.RLock()
	var dead []*websocket.Conn
	for conn, mutex := range b.clients {
		mutex.Lock()
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		err := conn.WriteJSON(frame)
		mutex.Unlock()
		if err != nil {
			conn.Close()
			dead = append(dead, conn)
		}
	}
	b.mu.RUnlock()

	if len(dead) > 0 {
		b.mu.Lock()
		for _, conn := range dead {
			delete(b.clients, conn)
		}
		b.mu.Unlock()
	}
}

// Watch polls tracker at interval and broadcasts its snapshot on a ticker
// until the tracker reports done.
func (b *Broadcaster) Watch(tracker *Tracker, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		frame := tracker.Snapshot()
		b.Broadcast(frame)
		if tracker.Done() {
			return
		}
	}
}
