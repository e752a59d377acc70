package store

import (
	"sync"
)

// feedBufferSize is the per-subscriber channel buffer. The feed is a
// refresh hint, not a durable log: when a subscriber falls this far behind,
// newer events are dropped for that subscriber.
const feedBufferSize = 64

// Subscription is a handle on a live change feed. Events arrive on C from
// the moment the subscription is created (since-now semantics). Cancel is
// mandatory: an uncanceled subscription keeps the feed connection alive.
type Subscription struct {
	// C delivers change events. It is closed by Cancel.
	C <-chan Change

	once   sync.Once
	cancel func()
}

// Cancel detaches the subscription from the feed and closes C.
// It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// feedHub fans change events out to live subscribers. It is the in-process
// equivalent of a document store's change feed.
type feedHub struct {
	mu     sync.Mutex
	closed bool
	nextID int
	seq    uint64
	subs   map[int]*feedSub
}

type feedSub struct {
	ch     chan Change
	filter func(Change) bool
}

func newFeedHub() *feedHub {
	return &feedHub{subs: make(map[int]*feedSub)}
}

// subscribe registers a new subscriber whose events satisfy filter.
func (h *feedHub) subscribe(filter func(Change) bool) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Change, feedBufferSize)
	if h.closed {
		close(ch)
		return &Subscription{C: ch, cancel: func() {}}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = &feedSub{ch: ch, filter: filter}

	return &Subscription{
		C: ch,
		cancel: func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub.ch)
			}
		},
	}
}

// publish stamps the change with the next sequence number and delivers it
// to every matching subscriber. Delivery never blocks the writer: slow
// subscribers lose events instead.
func (h *feedHub) publish(c Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	h.seq++
	c.Seq = h.seq

	for _, sub := range h.subs {
		if sub.filter != nil && !sub.filter(c) {
			continue
		}
		select {
		case sub.ch <- c:
		default:
			// Subscriber buffer full; drop the event.
		}
	}
}

// close cancels every open subscription and rejects future publishes.
func (h *feedHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}
