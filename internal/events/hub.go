// Package events fans out timeline and playback updates to live clients.
package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

const (
	TypeTimeline = "timeline"
	TypeTick     = "tick"
	TypePlayback = "playback"
	TypeExport   = "export"

	DefaultBuffer = 32
)

type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}

// Subscriber receives pre-encoded JSON frames. Slow subscribers drop frames
// instead of blocking publishers.
type Subscriber struct {
	ch      chan []byte
	dropped int
}

func (s *Subscriber) C() <-chan []byte {
	return s.ch
}

type Hub struct {
	mu     sync.Mutex
	subs   map[*Subscriber]struct{}
	logger *slog.Logger
	now    func() time.Time
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[*Subscriber]struct{}),
		logger: logger,
		now:    time.Now,
	}
}

func (h *Hub) Subscribe(buffer int) *Subscriber {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	s := &Subscriber{ch: make(chan []byte, buffer)}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Unsubscribe closes the subscriber's channel. Safe to call twice.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.ch)
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) Publish(eventType string, data any) error {
	frame, err := sonic.Marshal(Event{Type: eventType, At: h.now(), Data: data})
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to encode event", "type", eventType, "error", err)
		}
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs {
		select {
		case s.ch <- frame:
		default:
			s.dropped++
			if h.logger != nil {
				h.logger.Debug("dropping event for slow subscriber", "type", eventType, "dropped", s.dropped)
			}
		}
	}
	return nil
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs {
		delete(h.subs, s)
		close(s.ch)
	}
}
