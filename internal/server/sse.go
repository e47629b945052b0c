package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// eventHistorySize is the number of recent events kept for
	// Last-Event-ID replay.
	eventHistorySize = 512

	streamKeepalive = 15 * time.Second
)

// streamEvent is one event as sent to stream clients.
type streamEvent struct {
	ID    uint64
	Topic string
	Data  []byte
}

// eventHub fans published events out to connected stream clients and keeps
// a bounded history for reconnecting clients.
type eventHub struct {
	mu      sync.Mutex
	nextID  uint64
	history []streamEvent // oldest first, at most eventHistorySize
	clients map[*streamClient]struct{}
}

type streamClient struct {
	topics []string // NATS-style patterns; empty matches everything
	ch     chan streamEvent
}

func newEventHub() *eventHub {
	return &eventHub{clients: make(map[*streamClient]struct{})}
}

func (h *eventHub) broadcast(topic string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	evt := streamEvent{ID: h.nextID, Topic: topic, Data: payload}
	if len(h.history) == eventHistorySize {
		h.history = h.history[1:]
	}
	h.history = append(h.history, evt)

	for c := range h.clients {
		if !c.matches(topic) {
			continue
		}
		select {
		case c.ch <- evt:
		default:
			// slow client
		}
	}
}

// subscribe registers a client and returns the buffered events after lastID
// that it should see first.
func (h *eventHub) subscribe(topics []string, lastID uint64) (*streamClient, []streamEvent) {
	c := &streamClient{topics: topics, ch: make(chan streamEvent, 64)}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}

	var replay []streamEvent
	if lastID > 0 {
		for _, evt := range h.history {
			if evt.ID > lastID && c.matches(evt.Topic) {
				replay = append(replay, evt)
			}
		}
	}
	return c, replay
}

func (h *eventHub) unsubscribe(c *streamClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (c *streamClient) matches(topic string) bool {
	if len(c.topics) == 0 {
		return true
	}
	for _, p := range c.topics {
		if matchTopic(p, topic) {
			return true
		}
	}
	return false
}

// matchTopic matches a dot-separated topic against a NATS-style pattern:
// "*" matches one segment, a trailing ">" matches one or more.
func matchTopic(pattern, topic string) bool {
	pp := strings.Split(pattern, ".")
	tp := strings.Split(topic, ".")
	for i, seg := range pp {
		if seg == ">" {
			return i < len(tp)
		}
		if i >= len(tp) || (seg != "*" && seg != tp[i]) {
			return false
		}
	}
	return len(pp) == len(tp)
}

// handleEventStream handles GET /_admin/v1/events/stream as server-sent events.
// The optional topics query parameter is a comma-separated list of patterns.
func (s *MockServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	var topics []string
	for _, t := range strings.Split(r.URL.Query().Get("topics"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	lastID, _ := strconv.ParseUint(r.Header.Get("Last-Event-ID"), 10, 64)

	client, replay := s.hub.subscribe(topics, lastID)
	defer s.hub.unsubscribe(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	for _, evt := range replay {
		writeStreamEvent(w, evt)
	}
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-client.ch:
			writeStreamEvent(w, evt)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeStreamEvent(w http.ResponseWriter, evt streamEvent) {
	fmt.Fprintf(w, "id:%d\nevent:%s\ndata:%s\n\n", evt.ID, evt.Topic, evt.Data)
}
