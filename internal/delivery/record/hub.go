package record

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sgfgrove/internal/metrics"
)

const writeWait = 10 * time.Second

// subscriber owns the write side of one websocket; gorilla allows a single
// concurrent writer per connection.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(v)
}

// hub tracks the live subscribers of every record.
type hub struct {
	log  *zap.SugaredLogger
	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

func newHub(log *zap.SugaredLogger) *hub {
	return &hub{
		log:  log,
		subs: make(map[string]map[*subscriber]struct{}),
	}
}

func (h *hub) join(key string, conn *websocket.Conn) *subscriber {
	sub := &subscriber{conn: conn}
	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[*subscriber]struct{})
	}
	h.subs[key][sub] = struct{}{}
	h.mu.Unlock()
	metrics.SubscriberJoined()
	return sub
}

func (h *hub) leave(key string, sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[key][sub]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.subs[key], sub)
	if len(h.subs[key]) == 0 {
		delete(h.subs, key)
	}
	h.mu.Unlock()
	metrics.SubscriberLeft()
	_ = sub.conn.Close()
}

// broadcast sends msg to every subscriber of key and drops the ones that
// cannot be written to.
func (h *hub) broadcast(key string, msg any) {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subs[key]))
	for sub := range h.subs[key] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.send(msg); err != nil {
			h.log.Warnf("write to subscriber of %s: %v", key, err)
			h.leave(key, sub)
		}
	}
}

func (h *hub) count(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[key])
}
